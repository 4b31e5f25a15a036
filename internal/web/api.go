package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Dannykeren/cec-test-tool/internal/cec"
	"github.com/Dannykeren/cec-test-tool/internal/power"
)

// Response is the JSON envelope for all API endpoints.
type Response struct {
	Status  string `json:"status"` // "success" or "error"
	Result  string `json:"result,omitempty"`
	Message string `json:"message,omitempty"`
}

func respondJSON(w http.ResponseWriter, code int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(resp)
}

func respondResult(w http.ResponseWriter, result string) {
	respondJSON(w, http.StatusOK, Response{Status: "success", Result: result})
}

func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, Response{Status: "error", Message: message})
}

// respondCEC maps a dispatcher result to a response: rate limited is 429,
// other CEC failures are 500.
func respondCEC(w http.ResponseWriter, result string, err error) {
	switch {
	case errors.Is(err, cec.ErrRateLimited):
		respondError(w, http.StatusTooManyRequests, err.Error())
	case err != nil:
		respondError(w, http.StatusInternalServerError, err.Error())
	default:
		respondResult(w, result)
	}
}

func (s *Server) handlePowerOn(w http.ResponseWriter, r *http.Request) {
	result, err := s.dispatcher.PowerOn(power.SourceWeb)
	respondCEC(w, result, err)
}

func (s *Server) handlePowerOff(w http.ResponseWriter, r *http.Request) {
	result, err := s.dispatcher.PowerOff(power.SourceWeb)
	respondCEC(w, result, err)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	result, err := s.dispatcher.Status()
	respondCEC(w, result, err)
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	result, err := s.dispatcher.Scan()
	respondCEC(w, result, err)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Command string `json:"command"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Command) == "" {
		respondError(w, http.StatusBadRequest, "Command is required")
		return
	}

	result, err := s.dispatcher.Custom(req.Command)
	respondCEC(w, result, err)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondResult(w, "cec-test-tool "+Version)
}
