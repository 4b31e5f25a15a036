package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/Dannykeren/cec-test-tool/internal/buttons"
	"github.com/Dannykeren/cec-test-tool/internal/gpio"
)

// Config is the resolved daemon configuration.
type Config struct {
	Poll      time.Duration
	Debounce  time.Duration
	Heartbeat time.Duration
	PinOn     int
	PinOff    int
	HTTPAddr  string
	Broker    string
	ClientID  string
	Screen    bool
}

// fileConfig is the YAML shape of the optional config file. Durations are
// milliseconds.
type fileConfig struct {
	PollMs      *int    `yaml:"poll_ms"`
	DebounceMs  *int    `yaml:"debounce_ms"`
	HeartbeatMs *int    `yaml:"heartbeat_ms"`
	PinOn       *int    `yaml:"pin_on"`
	PinOff      *int    `yaml:"pin_off"`
	HTTPAddr    *string `yaml:"http_addr"`
	Broker      *string `yaml:"broker"`
	ClientID    *string `yaml:"client_id"`
	Screen      *bool   `yaml:"screen"`
}

// defaultConfig returns the built-in defaults.
func defaultConfig() Config {
	return Config{
		Poll:      buttons.DefaultPoll,
		Debounce:  buttons.DefaultDebounce,
		Heartbeat: 15 * time.Minute,
		PinOn:     gpio.DefaultPinOn,
		PinOff:    gpio.DefaultPinOff,
		HTTPAddr:  ":5000",
		ClientID:  "cec-test-tool",
		Screen:    true,
	}
}

// loadFile overlays values from a YAML config file onto cfg. Fields absent
// from the file keep their current values.
func loadFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var fc fileConfig
	if err := yaml.NewDecoder(f).Decode(&fc); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	if fc.PollMs != nil {
		cfg.Poll = time.Duration(*fc.PollMs) * time.Millisecond
	}
	if fc.DebounceMs != nil {
		cfg.Debounce = time.Duration(*fc.DebounceMs) * time.Millisecond
	}
	if fc.HeartbeatMs != nil {
		cfg.Heartbeat = time.Duration(*fc.HeartbeatMs) * time.Millisecond
	}
	if fc.PinOn != nil {
		cfg.PinOn = *fc.PinOn
	}
	if fc.PinOff != nil {
		cfg.PinOff = *fc.PinOff
	}
	if fc.HTTPAddr != nil {
		cfg.HTTPAddr = *fc.HTTPAddr
	}
	if fc.Broker != nil {
		cfg.Broker = *fc.Broker
	}
	if fc.ClientID != nil {
		cfg.ClientID = *fc.ClientID
	}
	if fc.Screen != nil {
		cfg.Screen = *fc.Screen
	}
	return nil
}
