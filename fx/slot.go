package fx

// A Slot renders the eased position of the Animation that owns it.
//
// Setup is called once per run before the first Render, Render once per tick
// and Finish once after the final Render(1) when the run completes. A cancelled
// run never reaches Finish. Dispose is called when the owning Animation is
// disposed.
type Slot interface {
	Setup(config any)
	Render(value float64) error
	Finish(config any)
	Dispose() error
}

// An Activator is a Slot whose effect can be switched on and off.
type Activator interface {
	SetActive(active bool)
	ActivateOnce()
}

// Toggle implements Activator. The zero value is active.
//
// A slot embedding Toggle checks Active before applying its effect and calls
// Release from Finish so that ActivateOnce lasts for a single completed run.
type Toggle struct {
	inactive bool
	once     bool
}

// SetActive switches the effect on or off and clears any pending once mode.
func (t *Toggle) SetActive(active bool) {
	t.inactive = !active
	t.once = false
}

// ActivateOnce switches the effect on until the next completed run.
func (t *Toggle) ActivateOnce() {
	t.inactive = false
	t.once = true
}

// Active reports whether the effect should be applied.
func (t *Toggle) Active() bool {
	return !t.inactive
}

// Release ends a once activation.
func (t *Toggle) Release() {
	if t.once {
		t.once = false
		t.inactive = true
	}
}

// SlotFuncs is a Slot built from optional callbacks.
type SlotFuncs struct {
	Toggle

	OnSetup   func(config any)
	OnRender  func(value float64) error
	OnFinish  func(config any)
	OnDispose func() error
}

// Setup calls OnSetup when the slot is active.
func (s *SlotFuncs) Setup(config any) {
	if s.OnSetup != nil && s.Active() {
		s.OnSetup(config)
	}
}

// Render calls OnRender when the slot is active.
func (s *SlotFuncs) Render(value float64) error {
	if s.OnRender != nil && s.Active() {
		return s.OnRender(value)
	}
	return nil
}

// Finish calls OnFinish when the slot is active and releases a once activation.
func (s *SlotFuncs) Finish(config any) {
	if s.OnFinish != nil && s.Active() {
		s.OnFinish(config)
	}
	s.Release()
}

// Dispose calls OnDispose.
func (s *SlotFuncs) Dispose() error {
	if s.OnDispose != nil {
		return s.OnDispose()
	}
	return nil
}
