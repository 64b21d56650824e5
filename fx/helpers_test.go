package fx

import (
	"fmt"
	"time"
)

// mockClock provides a controllable time source for tests.
type mockClock struct {
	now time.Time
}

func newMockClock() *mockClock {
	return &mockClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *mockClock) Now() time.Time {
	return c.now
}

func (c *mockClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// manualTicker records Start/Stop and lets tests fire ticks by hand.
type manualTicker struct {
	running  bool
	interval time.Duration
	fn       func()
	starts   int
	stops    int
}

func (t *manualTicker) Start(interval time.Duration, fn func()) {
	t.running = true
	t.interval = interval
	t.fn = fn
	t.starts++
}

func (t *manualTicker) Stop() {
	t.running = false
	t.stops++
}

// Fire runs one tick if the ticker is running.
func (t *manualTicker) Fire() {
	if t.running {
		t.fn()
	}
}

// recordingSlot logs every call it receives into a shared journal.
type recordingSlot struct {
	name       string
	journal    *[]string
	renderErr  error
	disposeErr error
	Toggle
}

func newRecordingSlot(name string, journal *[]string) *recordingSlot {
	return &recordingSlot{name: name, journal: journal}
}

func (s *recordingSlot) Setup(config any) {
	*s.journal = append(*s.journal, fmt.Sprintf("%s.setup(%v)", s.name, config))
}

func (s *recordingSlot) Render(value float64) error {
	*s.journal = append(*s.journal, fmt.Sprintf("%s.render(%.2f)", s.name, value))
	return s.renderErr
}

func (s *recordingSlot) Finish(config any) {
	*s.journal = append(*s.journal, fmt.Sprintf("%s.finish(%v)", s.name, config))
	s.Release()
}

func (s *recordingSlot) Dispose() error {
	*s.journal = append(*s.journal, s.name+".dispose")
	return s.disposeErr
}

func newTestScheduler(opts ...Option) (*Scheduler, *mockClock, *manualTicker) {
	clock := newMockClock()
	ticker := &manualTicker{}
	opts = append([]Option{WithClock(clock), WithTicker(ticker)}, opts...)
	return NewScheduler(opts...), clock, ticker
}

func recordEvents(a *Animation, journal *[]string) {
	for _, ev := range []Event{EventInit, EventFinish, EventCancel} {
		ev := ev
		a.On(ev, func(config any) {
			*journal = append(*journal, fmt.Sprintf("event.%s(%v)", ev, config))
		})
	}
}

func equalJournal(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
