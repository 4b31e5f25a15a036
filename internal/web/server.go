// Package web provides the HTTP control surface: a small status/control
// page and the JSON API used by it (and by anything else on the LAN).
package web

import (
	"context"
	"net"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Dannykeren/cec-test-tool/internal/power"
	"github.com/Dannykeren/cec-test-tool/internal/status"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Server serves the control page and API.
type Server struct {
	httpServer *http.Server
	dispatcher *power.Dispatcher
	tracker    *status.Tracker
}

// New creates a Server dispatching commands through the given dispatcher
// and reading state from the given tracker.
func New(addr string, dispatcher *power.Dispatcher, tracker *status.Tracker) *Server {
	s := &Server{dispatcher: dispatcher, tracker: tracker}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods("GET")
	r.HandleFunc("/index.json", s.handleJSON).Methods("GET")

	r.HandleFunc("/api/power/on", s.handlePowerOn).Methods("POST")
	r.HandleFunc("/api/power/off", s.handlePowerOff).Methods("POST")
	r.HandleFunc("/api/status", s.handleStatus).Methods("GET")
	r.HandleFunc("/api/scan", s.handleScan).Methods("GET")
	r.HandleFunc("/api/command", s.handleCommand).Methods("POST")
	r.HandleFunc("/api/health", s.handleHealth).Methods("GET")

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}
