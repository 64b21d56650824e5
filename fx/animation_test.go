package fx

import (
	"errors"
	"testing"
	"time"
)

func TestAnimationEndToEnd(t *testing.T) {
	s, clock, ticker := newTestScheduler()
	var journal []string
	a := NewAnimation(s)
	a.AddSlot(newRecordingSlot("slot", &journal))
	recordEvents(a, &journal)

	if !a.Start("cfg") {
		t.Fatal("Start returned false")
	}
	if a.State() != Queued {
		t.Fatalf("state = %v, want queued", a.State())
	}

	ticker.Fire()
	if a.State() != Running {
		t.Fatalf("state = %v, want running", a.State())
	}
	clock.Advance(500 * time.Millisecond)
	ticker.Fire()
	clock.Advance(600 * time.Millisecond)
	ticker.Fire()

	want := []string{
		"event.init(cfg)",
		"slot.setup(cfg)",
		"slot.render(0.00)",
		"slot.render(0.50)",
		"slot.render(1.00)",
		"event.cancel(cfg)",
		"slot.finish(cfg)",
		"event.finish(cfg)",
	}
	if !equalJournal(journal, want) {
		t.Fatalf("journal = %v\nwant %v", journal, want)
	}
	if a.IsStarted() || a.Config() != nil {
		t.Error("expected idle animation with cleared config after finish")
	}
	if ticker.running || s.Len() != 0 {
		t.Error("expected scheduler to stop once empty")
	}
}

func TestAnimationUsesTransition(t *testing.T) {
	s, clock, ticker := newTestScheduler()
	var journal []string
	a := NewAnimation(s)
	if err := a.SetProperties(2*time.Second, "easeIn"); err != nil {
		t.Fatal(err)
	}
	a.AddSlot(newRecordingSlot("slot", &journal))
	a.Start(nil)

	ticker.Fire()
	clock.Advance(time.Second)
	ticker.Fire()

	if got := journal[len(journal)-1]; got != "slot.render(0.25)" {
		t.Errorf("last render = %s, want slot.render(0.25)", got)
	}
	if a.Duration() != 2*time.Second {
		t.Errorf("duration = %v", a.Duration())
	}
}

func TestSetTransitionNameUnknown(t *testing.T) {
	s, _, _ := newTestScheduler()
	a := NewAnimation(s)
	err := a.SetTransitionName("wobble")
	if !errors.Is(err, ErrUnknownTransition) {
		t.Fatalf("err = %v, want ErrUnknownTransition", err)
	}
	if err := a.SetProperties(time.Second, "wobble"); err == nil {
		t.Fatal("expected SetProperties to fail")
	}
	if a.Duration() != DefaultDuration {
		t.Error("failed SetProperties must not change the duration")
	}
}

func TestStartTwiceFails(t *testing.T) {
	s, clock, ticker := newTestScheduler()
	var journal []string
	a := NewAnimation(s)
	a.AddSlot(newRecordingSlot("slot", &journal))

	a.Start("first")
	ticker.Fire()
	clock.Advance(250 * time.Millisecond)

	if a.Start("second") {
		t.Fatal("second Start returned true")
	}
	if a.Config() != "first" {
		t.Errorf("config = %v, want first", a.Config())
	}
	ticker.Fire()
	if got := journal[len(journal)-1]; got != "slot.render(0.25)" {
		t.Errorf("timers were reset: last = %s", got)
	}
	if s.Len() != 1 {
		t.Errorf("queue length = %d, want 1", s.Len())
	}
}

func TestSkipBeforeFirstTick(t *testing.T) {
	s, _, ticker := newTestScheduler()
	var journal []string
	a := NewAnimation(s)
	a.AddSlot(newRecordingSlot("a", &journal))
	a.AddSlot(newRecordingSlot("b", &journal))
	recordEvents(a, &journal)
	a.Start(7)

	if err := a.Skip(); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"event.init(7)",
		"a.setup(7)",
		"b.setup(7)",
		"a.render(0.00)",
		"b.render(0.00)",
		"a.render(1.00)",
		"b.render(1.00)",
		"event.cancel(7)",
		"a.finish(7)",
		"b.finish(7)",
		"event.finish(7)",
	}
	if !equalJournal(journal, want) {
		t.Fatalf("journal = %v\nwant %v", journal, want)
	}
	if ticker.running {
		t.Error("ticker still running after skip")
	}

	// Skipping an idle animation does nothing.
	journal = nil
	if err := a.Skip(); err != nil || len(journal) != 0 {
		t.Errorf("idle skip produced %v, %v", journal, err)
	}
}

func TestCancelNeverFinishesSlots(t *testing.T) {
	s, _, ticker := newTestScheduler()
	var journal []string
	a := NewAnimation(s)
	a.AddSlot(newRecordingSlot("slot", &journal))
	recordEvents(a, &journal)
	a.Start("cfg")
	ticker.Fire()
	a.Cancel()

	want := []string{"event.init(cfg)", "slot.setup(cfg)", "slot.render(0.00)", "event.cancel(cfg)"}
	if !equalJournal(journal, want) {
		t.Fatalf("journal = %v\nwant %v", journal, want)
	}
	if a.State() != Idle {
		t.Errorf("state = %v, want idle", a.State())
	}

	journal = nil
	a.Cancel()
	if len(journal) != 0 {
		t.Errorf("cancel on idle animation fired %v", journal)
	}
}

func TestRemoveSlotWhileStarted(t *testing.T) {
	s, _, _ := newTestScheduler()
	var journal []string
	a := NewAnimation(s)
	first := newRecordingSlot("first", &journal)
	second := newRecordingSlot("second", &journal)
	a.AddSlot(first)
	a.AddSlot(second)

	a.Start(nil)
	if err := a.RemoveSlot(first); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
	if a.SlotCount() != 2 {
		t.Fatalf("slot count = %d, want 2", a.SlotCount())
	}

	a.Cancel()
	if err := a.RemoveSlot(first); err != nil {
		t.Fatal(err)
	}
	if a.SlotCount() != 1 || a.Slot(0) != Slot(second) || a.SlotIndex(first) != -1 {
		t.Error("expected only the second slot to remain")
	}
	if a.Slot(5) != nil {
		t.Error("out of range Slot should be nil")
	}
}

func TestSlotAddedMidRunWaitsForNextRun(t *testing.T) {
	s, _, ticker := newTestScheduler()
	var journal []string
	a := NewAnimation(s)
	a.AddSlot(newRecordingSlot("old", &journal))
	a.Start(nil)
	ticker.Fire()
	a.AddSlot(newRecordingSlot("new", &journal))
	if err := a.Skip(); err != nil {
		t.Fatal(err)
	}
	for _, entry := range journal {
		if len(entry) >= 3 && entry[:3] == "new" {
			t.Fatalf("slot added mid-run was invoked: %v", journal)
		}
	}

	journal = nil
	a.Start(nil)
	ticker.Fire()
	want := []string{"old.setup(<nil>)", "new.setup(<nil>)", "old.render(0.00)", "new.render(0.00)"}
	if !equalJournal(journal, want) {
		t.Errorf("journal = %v\nwant %v", journal, want)
	}
}

func TestInitListenerMayCancel(t *testing.T) {
	s, _, ticker := newTestScheduler()
	a := NewAnimation(s)
	a.On(EventInit, func(any) { a.Cancel() })

	if a.Start(nil) {
		t.Fatal("Start should report false when cancelled during init")
	}
	if ticker.running || s.Len() != 0 {
		t.Error("cancelled animation left in the scheduler")
	}
}

func TestRestartKeepsConfig(t *testing.T) {
	s, clock, ticker := newTestScheduler()
	var journal []string
	a := NewAnimation(s)
	a.AddSlot(newRecordingSlot("slot", &journal))

	if a.Restart() {
		t.Fatal("Restart of idle animation should fail")
	}
	a.Start("cfg")
	ticker.Fire()
	clock.Advance(400 * time.Millisecond)
	if !a.Restart() {
		t.Fatal("Restart returned false")
	}
	if a.Config() != "cfg" || a.State() != Queued {
		t.Fatalf("config = %v state = %v", a.Config(), a.State())
	}
	journal = nil
	ticker.Fire()
	want := []string{"slot.setup(cfg)", "slot.render(0.00)"}
	if !equalJournal(journal, want) {
		t.Errorf("journal = %v\nwant %v", journal, want)
	}
}

func TestListenerOff(t *testing.T) {
	s, _, _ := newTestScheduler()
	a := NewAnimation(s)
	calls := 0
	id := a.On(EventCancel, func(any) { calls++ })
	a.Start(nil)
	a.Cancel()
	a.Off(id)
	a.Start(nil)
	a.Cancel()
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDisposeIsBestEffort(t *testing.T) {
	s, _, ticker := newTestScheduler()
	var journal []string
	a := NewAnimation(s)
	bad := newRecordingSlot("bad", &journal)
	bad.disposeErr = errors.New("boom")
	a.AddSlot(bad)
	a.AddSlot(newRecordingSlot("good", &journal))
	a.Start("cfg")
	ticker.Fire()

	err := a.Dispose()
	var derr *DisposalError
	if !errors.As(err, &derr) {
		t.Fatalf("err = %v, want *DisposalError", err)
	}
	if len(derr.Errs) != 1 {
		t.Errorf("collected %d errors, want 1", len(derr.Errs))
	}
	if journal[len(journal)-1] != "good.dispose" {
		t.Errorf("good slot not disposed: %v", journal)
	}
	// A running animation is skipped to completion before disposal.
	finished := false
	for _, entry := range journal {
		if entry == "bad.finish(cfg)" {
			finished = true
		}
	}
	if !finished {
		t.Errorf("running animation was not finished: %v", journal)
	}
	if a.SlotCount() != 0 {
		t.Error("slots not released")
	}
}

func TestDisposeQueuedAnimationCancels(t *testing.T) {
	s, _, _ := newTestScheduler()
	var journal []string
	a := NewAnimation(s)
	a.AddSlot(newRecordingSlot("slot", &journal))
	recordEvents(a, &journal)
	a.Start("cfg")
	if err := a.Dispose(); err != nil {
		t.Fatal(err)
	}
	want := []string{"event.init(cfg)", "event.cancel(cfg)", "slot.dispose"}
	if !equalJournal(journal, want) {
		t.Errorf("journal = %v\nwant %v", journal, want)
	}
}

func TestDisposeWinsOverRestartingFinishListener(t *testing.T) {
	s, _, ticker := newTestScheduler()
	var journal []string
	a := NewAnimation(s)
	a.AddSlot(newRecordingSlot("slot", &journal))
	a.On(EventFinish, func(any) { a.Start(nil) })
	a.Start(nil)
	ticker.Fire()

	if err := a.Dispose(); err != nil {
		t.Fatal(err)
	}
	if a.IsStarted() || s.Len() != 0 {
		t.Fatalf("started = %v with %d queued after Dispose", a.IsStarted(), s.Len())
	}
	checkInvariant(t, s, ticker)
}

func TestDisposeAfterFailedSkipLeavesSchedulerHealthy(t *testing.T) {
	var reported []error
	s, clock, ticker := newTestScheduler(WithErrorReporter(func(err error) {
		reported = append(reported, err)
	}))
	var journal []string
	a := NewAnimation(s)
	slot := newRecordingSlot("slot", &journal)
	a.AddSlot(slot)
	other := NewAnimation(s)
	other.SetDuration(2 * time.Second)
	other.AddSlot(newRecordingSlot("other", &journal))
	a.Start(nil)
	other.Start(nil)
	ticker.Fire()

	slot.renderErr = errors.New("gone")
	err := a.Dispose()
	var derr *DisposalError
	if !errors.As(err, &derr) || !errors.Is(derr.Errs[0], slot.renderErr) {
		t.Fatalf("err = %v, want *DisposalError wrapping the render failure", err)
	}
	if a.IsStarted() || s.Len() != 1 {
		t.Fatalf("started = %v with %d queued after Dispose", a.IsStarted(), s.Len())
	}

	clock.Advance(time.Second)
	ticker.Fire()
	if len(reported) != 0 {
		t.Fatalf("tick after Dispose reported %v", reported)
	}
	if last := journal[len(journal)-1]; last != "other.render(0.50)" {
		t.Errorf("last entry = %s, want other.render(0.50)", last)
	}
}

func TestActivationHelpers(t *testing.T) {
	s, _, _ := newTestScheduler()
	var rendered []float64
	slot := &SlotFuncs{OnRender: func(v float64) error {
		rendered = append(rendered, v)
		return nil
	}}
	a := NewAnimation(s)
	a.AddSlot(slot)

	a.SetSlotsActive(false)
	a.Start(nil)
	if err := a.Skip(); err != nil {
		t.Fatal(err)
	}
	if len(rendered) != 0 {
		t.Fatalf("inactive slot rendered %v", rendered)
	}

	a.ActivateSlotsOnce()
	a.Start(nil)
	a.Skip()
	if len(rendered) != 2 {
		t.Fatalf("once-active slot rendered %v, want 2 values", rendered)
	}
	if slot.Active() {
		t.Error("once activation should end after a completed run")
	}

	a.SetSlotsActive(true)
	a.Start(nil)
	a.Skip()
	a.Start(nil)
	a.Skip()
	if len(rendered) != 6 || !slot.Active() {
		t.Errorf("active slot rendered %d values, active=%v", len(rendered), slot.Active())
	}
}

func TestRenderErrorPropagatesFromSkip(t *testing.T) {
	s, _, _ := newTestScheduler()
	var journal []string
	slot := newRecordingSlot("slot", &journal)
	slot.renderErr = errors.New("publish failed")
	a := NewAnimation(s)
	a.AddSlot(slot)
	a.Start(nil)
	if err := a.Skip(); !errors.Is(err, slot.renderErr) {
		t.Fatalf("err = %v, want render error", err)
	}
	if !a.IsStarted() {
		t.Error("failed skip should leave the animation started")
	}
}

func TestUniqueIDs(t *testing.T) {
	s, _, _ := newTestScheduler()
	if NewAnimation(s).ID() == NewAnimation(s).ID() {
		t.Error("animation ids collide")
	}
}
