package buttons

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Dannykeren/cec-test-tool/internal/gpio"
)

// Default timing. 50 ms keeps worst-case press latency well under human
// perception; 300 ms covers mechanical contact bounce on the panel buttons.
const (
	DefaultPoll     = 50 * time.Millisecond
	DefaultDebounce = 300 * time.Millisecond
)

// Config holds Monitor parameters and dispatcher callbacks.
type Config struct {
	Poll     time.Duration // poll interval, defaults to DefaultPoll
	Debounce time.Duration // debounce window, defaults to DefaultDebounce

	// TriggerOn and TriggerOff are invoked synchronously on the monitor's
	// own goroutine when the corresponding button press is accepted. A
	// slow or failing callback delays subsequent polls but never stops
	// the loop.
	TriggerOn  func() error
	TriggerOff func() error
}

// Monitor owns the poll loop: it is the sole reader of the pin source and
// the sole writer of the debounce state. Start-up errors are returned to
// the caller; once running, per-tick errors are logged and polling
// continues.
type Monitor struct {
	reader gpio.Reader
	deb    *Debouncer
	cfg    Config
	now    func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewMonitor creates a Monitor reading from the given pin source.
func NewMonitor(reader gpio.Reader, cfg Config) *Monitor {
	if cfg.Poll <= 0 {
		cfg.Poll = DefaultPoll
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	return &Monitor{
		reader: reader,
		deb:    NewDebouncer(cfg.Debounce),
		cfg:    cfg,
		now:    time.Now,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start seeds the previous pin levels from a first read and launches the
// poll loop. If the initial read fails (hardware missing, permissions),
// the error is returned and the loop does not start.
func (m *Monitor) Start() error {
	if m.reader == nil {
		return ErrNoReader
	}
	on, off, err := m.reader.Read()
	if err != nil {
		return fmt.Errorf("seed button levels: %w", err)
	}
	m.deb.Seed(on, off)

	ticker := time.NewTicker(m.cfg.Poll)
	go func() {
		defer ticker.Stop()
		m.loop(ticker.C)
	}()
	return nil
}

// Stop signals the poll loop to exit and waits for it. The loop observes
// the signal within one poll interval.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
	<-m.done
}

// loop runs until the stop channel closes. Exposed with an injectable tick
// channel so tests can drive it deterministically.
func (m *Monitor) loop(tick <-chan time.Time) {
	defer close(m.done)
	for {
		select {
		case <-m.stop:
			return
		case <-tick:
			m.tick(m.now())
		}
	}
}

// tick performs one poll: read both pins, run the debouncer, dispatch any
// accepted presses. Read errors are logged and the tick is skipped; the
// next tick naturally retries.
func (m *Monitor) tick(now time.Time) {
	on, off, err := m.reader.Read()
	if err != nil {
		log.Printf("buttons: read pins: %v", err)
		return
	}

	for _, press := range m.deb.Process(Sample{On: on, Off: off, Time: now}) {
		m.dispatch(press)
	}
}

// dispatch invokes the callback for an accepted press. A failing or
// panicking callback must not take down the poll loop.
func (m *Monitor) dispatch(press Press) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("buttons: %s dispatch panic: %v", press.Button, r)
		}
	}()

	var trigger func() error
	switch press.Button {
	case ButtonOn:
		trigger = m.cfg.TriggerOn
	case ButtonOff:
		trigger = m.cfg.TriggerOff
	}

	log.Printf("buttons: %s pressed (count %d)", press.Button, press.Count)
	if trigger == nil {
		return
	}
	if err := trigger(); err != nil {
		log.Printf("buttons: %s dispatch: %v", press.Button, err)
	}
}

// ErrNoReader is returned by Start when the monitor has no pin source.
var ErrNoReader = errors.New("buttons: no pin source configured")
