// Command cec-test-tool turns a Raspberry Pi into a TV power remote:
// two GPIO buttons and a small web UI send HDMI-CEC power commands
// through cec-client, with status mirrored on a panel display and
// events published to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Dannykeren/cec-test-tool/internal/buttons"
	"github.com/Dannykeren/cec-test-tool/internal/cec"
	"github.com/Dannykeren/cec-test-tool/internal/display"
	"github.com/Dannykeren/cec-test-tool/internal/gpio"
	"github.com/Dannykeren/cec-test-tool/internal/mqtt"
	"github.com/Dannykeren/cec-test-tool/internal/power"
	"github.com/Dannykeren/cec-test-tool/internal/status"
	"github.com/Dannykeren/cec-test-tool/internal/web"
)

// connPoll is how often the MQTT connection flag shown on the status page
// is refreshed.
const connPoll = 5 * time.Second

// eventSink is what the run loop needs from the MQTT side: publishing plus
// connection status. Both RealPublisher and NoopPublisher satisfy it.
type eventSink interface {
	mqtt.Publisher
	IsConnected() bool
}

func main() {
	def := defaultConfig()

	cfgPath := flag.String("cfg", "", "YAML config file (flags override file values)")
	poll := flag.Duration("poll", def.Poll, "GPIO polling interval")
	debounce := flag.Duration("debounce", def.Debounce, "Button debounce window")
	heartbeat := flag.Duration("heartbeat", def.Heartbeat, "Heartbeat interval (0 to disable)")
	pinOn := flag.Int("pin-on", def.PinOn, "BCM pin number for the power ON button")
	pinOff := flag.Int("pin-off", def.PinOff, "BCM pin number for the power OFF button")
	httpAddr := flag.String("http", def.HTTPAddr, "HTTP listen address")
	broker := flag.String("broker", def.Broker, "MQTT broker address (empty to disable)")
	clientID := flag.String("client-id", def.ClientID, "MQTT client ID")
	screen := flag.Bool("screen", def.Screen, "Drive the panel display (requires -tags screen build)")
	printState := flag.Bool("print-state", false, "Print current button levels and exit")

	flag.Parse()

	cfg := def
	if *cfgPath != "" {
		if err := loadFile(&cfg, *cfgPath); err != nil {
			log.Fatalf("fatal: %v", err)
		}
	}
	// Explicitly set flags win over the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "poll":
			cfg.Poll = *poll
		case "debounce":
			cfg.Debounce = *debounce
		case "heartbeat":
			cfg.Heartbeat = *heartbeat
		case "pin-on":
			cfg.PinOn = *pinOn
		case "pin-off":
			cfg.PinOff = *pinOff
		case "http":
			cfg.HTTPAddr = *httpAddr
		case "broker":
			cfg.Broker = *broker
		case "client-id":
			cfg.ClientID = *clientID
		case "screen":
			cfg.Screen = *screen
		}
	})

	if err := run(cfg, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg Config, printState bool) error {
	// Initialize GPIO
	gpioReader, err := gpio.NewRealReader(cfg.PinOn, cfg.PinOff)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer gpioReader.Close()

	// Print state mode
	if printState {
		on, off, err := gpioReader.Read()
		if err != nil {
			return fmt.Errorf("read gpio: %w", err)
		}
		fmt.Printf("ON button: %s, OFF button: %s\n", levelString(on), levelString(off))
		return nil
	}

	// Initialize MQTT
	var publisher eventSink
	if cfg.Broker != "" {
		publisher = mqtt.NewRealPublisher(cfg.Broker, cfg.ClientID)
	} else {
		log.Printf("mqtt disabled (no broker configured)")
		publisher = mqtt.NoopPublisher{}
	}
	defer publisher.Close()

	// Initialize the CEC client. The cec-client process itself is spawned
	// lazily on the first command.
	cecClient := cec.NewClient()
	defer cecClient.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:      cfg.Poll.Milliseconds(),
		DebounceMs:  cfg.Debounce.Milliseconds(),
		CooldownMs:  cec.CommandCooldown.Milliseconds(),
		HeartbeatMs: cfg.Heartbeat.Milliseconds(),
		Broker:      cfg.Broker,
		HTTPAddr:    cfg.HTTPAddr,
		PinOn:       cfg.PinOn,
		PinOff:      cfg.PinOff,
	})

	// Initialize the panel display. A missing or broken panel is not fatal;
	// the tool falls back to a no-op display.
	disp := newDisplay(cfg.Screen)
	defer disp.Close()
	disp.ShowAddress(webURL(cfg.HTTPAddr))

	dispatcher := power.NewDispatcher(cecClient, disp, tracker, publisher)

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP server
	srv := web.New(cfg.HTTPAddr, dispatcher, tracker)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http server error: %v", err)
		}
	}()
	defer srv.Shutdown(context.Background())
	log.Printf("http server listening on %s", cfg.HTTPAddr)

	// Start the button monitor
	monitor := buttons.NewMonitor(gpioReader, buttons.Config{
		Poll:     cfg.Poll,
		Debounce: cfg.Debounce,
		TriggerOn: func() error {
			_, err := dispatcher.PowerOn(power.SourceButton)
			return err
		},
		TriggerOff: func() error {
			_, err := dispatcher.PowerOff(power.SourceButton)
			return err
		},
	})
	if err := monitor.Start(); err != nil {
		return fmt.Errorf("start button monitor: %w", err)
	}
	defer monitor.Stop()

	log.Printf("started: poll=%v debounce=%v pins=%d/%d http=%s broker=%q",
		cfg.Poll, cfg.Debounce, cfg.PinOn, cfg.PinOff, cfg.HTTPAddr, cfg.Broker)

	var hbTick <-chan time.Time
	if cfg.Heartbeat > 0 {
		hb := time.NewTicker(cfg.Heartbeat)
		defer hb.Stop()
		hbTick = hb.C
	}
	conn := time.NewTicker(connPoll)
	defer conn.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	waitLoop(publisher, tracker, time.Now, hbTick, conn.C, sigCh)
	disp.Clear()
	return nil
}

// waitLoop blocks until a termination signal arrives, publishing heartbeats
// and refreshing the MQTT connection flag along the way. Channels are
// injected so tests can drive it.
func waitLoop(publisher eventSink, tracker *status.Tracker, now func() time.Time, hbTick, connTick <-chan time.Time, sig <-chan os.Signal) {
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			name := signalName(s)
			tracker.SetMQTTConnected(publisher.IsConnected())
			snap := tracker.Snapshot()
			event := mqtt.SystemEvent{
				Timestamp:  now(),
				Event:      "SHUTDOWN",
				Reason:     name,
				Retained:   true,
				RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", name),
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return

		case <-connTick:
			tracker.SetMQTTConnected(publisher.IsConnected())

		case <-hbTick:
			tracker.SetMQTTConnected(publisher.IsConnected())
			snap := tracker.Snapshot()
			log.Printf("heartbeat: uptime=%v on=%d off=%d",
				snap.Uptime().Truncate(time.Second), snap.Counts.PowerOn, snap.Counts.PowerOff)
			event := mqtt.SystemEvent{
				Timestamp:  now(),
				Event:      "HEARTBEAT",
				RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("heartbeat publish error: %v", err)
			}
		}
	}
}

// newDisplay returns the panel display, or a no-op when the screen is
// disabled, not compiled in, or fails to open.
func newDisplay(screen bool) display.Display {
	if !screen {
		return display.Noop{}
	}
	if !display.ScreenSupported() {
		log.Printf("display: screen support not compiled in, running headless")
		return display.Noop{}
	}
	fb, err := display.NewFramebuffer()
	if err != nil {
		log.Printf("display: %v, running headless", err)
		return display.Noop{}
	}
	return fb
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}

func levelString(high bool) string {
	if high {
		return "HIGH"
	}
	return "LOW"
}

// webURL builds the URL shown on the panel at startup from the listen
// address, using the machine's outbound IP when the address has no host.
func webURL(httpAddr string) string {
	host, port, err := net.SplitHostPort(httpAddr)
	if err != nil {
		host, port = "", strings.TrimPrefix(httpAddr, ":")
	}
	if host == "" {
		host = outboundIP()
	}
	if port == "" || port == "80" {
		return "http://" + host
	}
	return "http://" + host + ":" + port
}

// outboundIP returns the local address the kernel would route external
// traffic through. No packets are sent; UDP dial only picks a source.
func outboundIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()
	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return "127.0.0.1"
	}
	return addr.IP.String()
}
