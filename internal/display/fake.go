package display

// Screen is one recorded status screen.
type Screen struct {
	Title  string
	Status string
}

// Fake records shown screens for test assertions.
type Fake struct {
	Screens []Screen
	Cleared int
	Closed  bool
}

// NewFake creates a Fake display.
func NewFake() *Fake {
	return &Fake{}
}

func (f *Fake) ShowStatus(title, status string) {
	f.Screens = append(f.Screens, Screen{Title: title, Status: status})
}

func (f *Fake) ShowPowerOn() {
	f.ShowStatus("Command sent:", "POWER ON")
}

func (f *Fake) ShowPowerOff() {
	f.ShowStatus("Command sent:", "POWER OFF")
}

func (f *Fake) ShowAddress(addr string) {
	f.ShowStatus("Web Interface:", addr)
}

func (f *Fake) Clear() {
	f.Cleared++
}

func (f *Fake) Close() error {
	f.Closed = true
	return nil
}

// Last returns the most recently shown screen, or a zero Screen.
func (f *Fake) Last() Screen {
	if len(f.Screens) == 0 {
		return Screen{}
	}
	return f.Screens[len(f.Screens)-1]
}
