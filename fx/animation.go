// Package fx animates a scalar position from 0 to 1 and hands the eased value
// to pluggable renderer slots. A Scheduler drives every started Animation from
// a single ticker that runs only while something is animating.
package fx

import (
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// DefaultDuration is the duration of a new Animation.
const DefaultDuration = 1000 * time.Millisecond

// Event identifies an Animation lifecycle notification.
type Event int

const (
	// EventInit fires when a run starts.
	EventInit Event = iota
	// EventFinish fires after a run completes and every slot has finished.
	EventFinish
	// EventCancel fires when a run stops, including the stop that precedes EventFinish.
	EventCancel
)

func (e Event) String() string {
	switch e {
	case EventInit:
		return "init"
	case EventFinish:
		return "finish"
	case EventCancel:
		return "cancel"
	}
	return "unknown"
}

// State is the run state of an Animation.
type State int

const (
	Idle State = iota
	Queued
	Running
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Queued:
		return "queued"
	case Running:
		return "running"
	}
	return "unknown"
}

// A Listener receives the config of the run that triggered the notification.
type Listener func(config any)

type listener struct {
	id int
	fn Listener
}

var animationIDs atomic.Uint64

// An Animation moves a position from 0 to 1 over its duration and hands the
// eased value to its slots on every scheduler tick.
//
// An Animation is not safe for concurrent use. Outside scheduler callbacks use
// Scheduler.Do to call its methods.
type Animation struct {
	id         uint64
	scheduler  *Scheduler
	duration   time.Duration
	transition Transition
	slots      []Slot

	config    any
	startOn   time.Time
	finishOn  time.Time
	totalTime time.Duration
	stamped   bool
	numSlots  int

	inQueue bool
	running bool

	listeners map[Event][]listener
	nextID    int
}

// NewAnimation creates an idle Animation driven by scheduler. A nil scheduler
// selects Default().
func NewAnimation(scheduler *Scheduler) *Animation {
	if scheduler == nil {
		scheduler = Default()
	}
	a := new(Animation)
	a.id = animationIDs.Add(1)
	a.scheduler = scheduler
	a.duration = DefaultDuration
	a.transition = Linear
	a.listeners = make(map[Event][]listener)
	return a
}

// ID returns the identity of the Animation.
func (a *Animation) ID() uint64 {
	return a.id
}

// Duration returns the run duration.
func (a *Animation) Duration() time.Duration {
	return a.duration
}

// SetDuration sets the run duration. It applies from the next run.
func (a *Animation) SetDuration(d time.Duration) {
	a.duration = d
}

// SetTransition sets the easing curve. A nil fn selects Linear.
func (a *Animation) SetTransition(fn Transition) {
	if fn == nil {
		fn = Linear
	}
	a.transition = fn
}

// SetTransitionName sets the easing curve by name.
func (a *Animation) SetTransitionName(name string) error {
	fn, ok := LookupTransition(name)
	if !ok {
		return errors.Wrapf(ErrUnknownTransition, "transition %q", name)
	}
	a.transition = fn
	return nil
}

// SetProperties sets the duration and the named transition together.
func (a *Animation) SetProperties(d time.Duration, transition string) error {
	if err := a.SetTransitionName(transition); err != nil {
		return err
	}
	a.duration = d
	return nil
}

// Config returns the config of the current run, or nil when not started.
func (a *Animation) Config() any {
	return a.config
}

// IsStarted reports whether the Animation is queued or running.
func (a *Animation) IsStarted() bool {
	return a.inQueue
}

// IsRunning reports whether the current run has rendered at least once.
func (a *Animation) IsRunning() bool {
	return a.running
}

// State returns Idle, Queued or Running.
func (a *Animation) State() State {
	switch {
	case a.running:
		return Running
	case a.inQueue:
		return Queued
	}
	return Idle
}

// AddSlot appends a slot. Slots added during a run are used from the next run.
func (a *Animation) AddSlot(slot Slot) {
	a.slots = append(a.slots, slot)
}

// RemoveSlot removes slot. It fails with ErrInvalidState while started.
func (a *Animation) RemoveSlot(slot Slot) error {
	if a.IsStarted() {
		return errors.WithMessage(ErrInvalidState, "cannot remove slot: animation already started")
	}
	if i := a.SlotIndex(slot); i >= 0 {
		a.slots = append(a.slots[:i], a.slots[i+1:]...)
	}
	return nil
}

// Slot returns the slot at index i, or nil when out of range.
func (a *Animation) Slot(i int) Slot {
	if i < 0 || i >= len(a.slots) {
		return nil
	}
	return a.slots[i]
}

// SlotCount returns the number of slots.
func (a *Animation) SlotCount() int {
	return len(a.slots)
}

// SlotIndex returns the index of slot, or -1.
func (a *Animation) SlotIndex(slot Slot) int {
	for i, s := range a.slots {
		if s == slot {
			return i
		}
	}
	return -1
}

// SetSlotsActive forwards to every slot implementing Activator.
func (a *Animation) SetSlotsActive(active bool) {
	for _, s := range a.slots {
		if act, ok := s.(Activator); ok {
			act.SetActive(active)
		}
	}
}

// ActivateSlotsOnce forwards to every slot implementing Activator.
func (a *Animation) ActivateSlotsOnce() {
	for _, s := range a.slots {
		if act, ok := s.(Activator); ok {
			act.ActivateOnce()
		}
	}
}

// On subscribes fn to ev and returns an id for Off.
func (a *Animation) On(ev Event, fn Listener) int {
	a.nextID++
	a.listeners[ev] = append(a.listeners[ev], listener{id: a.nextID, fn: fn})
	return a.nextID
}

// Off removes the listener registered under id.
func (a *Animation) Off(id int) {
	for ev, ls := range a.listeners {
		for i, l := range ls {
			if l.id == id {
				a.listeners[ev] = append(ls[:i:i], ls[i+1:]...)
				return
			}
		}
	}
}

func (a *Animation) dispatch(ev Event, config any) {
	// Listeners may subscribe or unsubscribe while being notified.
	ls := append([]listener(nil), a.listeners[ev]...)
	for _, l := range ls {
		l.fn(config)
	}
}

// Start queues a run with config. It returns false when already started, or
// when an init listener cancelled the run.
func (a *Animation) Start(config any) bool {
	if a.IsStarted() {
		return false
	}
	a.scheduler.enqueue(a)
	a.inQueue = true
	a.config = config
	a.init()
	return a.IsStarted()
}

// Restart cancels the current run and starts a new one with the same config.
// It returns false when not started.
func (a *Animation) Restart() bool {
	if !a.IsStarted() {
		return false
	}
	config := a.config
	a.Cancel()
	return a.Start(config)
}

// Cancel stops the current run without finishing its slots.
func (a *Animation) Cancel() {
	if !a.IsStarted() {
		return
	}
	a.inQueue = false
	a.running = false
	a.dispatch(EventCancel, a.config)
	a.config = nil
	a.scheduler.dequeue(a)
}

// Skip completes the current run immediately, so slots always see Setup,
// Render(1) and Finish.
func (a *Animation) Skip() error {
	if !a.IsStarted() {
		return nil
	}
	if !a.IsRunning() {
		if err := a.render(0); err != nil {
			return err
		}
	}
	return a.finish()
}

// Dispose completes or cancels the current run and disposes every slot.
// The animation is idle afterwards, even when a finish listener started it
// again or the final render failed. Failures are collected into a
// *DisposalError.
func (a *Animation) Dispose() error {
	var errs []error
	if a.IsRunning() {
		if err := a.Skip(); err != nil {
			errs = append(errs, err)
		}
	}
	a.Cancel()
	for i, s := range a.slots {
		if err := s.Dispose(); err != nil {
			errs = append(errs, errors.Wrapf(err, "slot %d", i))
		}
	}
	a.slots = nil
	a.numSlots = 0
	if len(errs) > 0 {
		return &DisposalError{Errs: errs}
	}
	return nil
}

func (a *Animation) init() {
	a.dispatch(EventInit, a.config)
	a.stamped = false
	a.numSlots = len(a.slots)
}

func (a *Animation) loop(now time.Time) error {
	if !a.stamped {
		a.startOn = now
		a.finishOn = now.Add(a.duration)
		a.totalTime = a.duration
		a.stamped = true
	}
	if !now.Before(a.finishOn) {
		return a.finish()
	}
	position := float64(now.Sub(a.startOn)) / float64(a.totalTime)
	return a.render(position)
}

func (a *Animation) render(position float64) error {
	if !a.running {
		for i := 0; i < a.numSlots; i++ {
			a.slots[i].Setup(a.config)
		}
		a.running = true
	}
	value := a.transition(position)
	for i := 0; i < a.numSlots; i++ {
		if err := a.slots[i].Render(value); err != nil {
			return errors.Wrapf(err, "render slot %d", i)
		}
	}
	return nil
}

func (a *Animation) finish() error {
	if err := a.render(1); err != nil {
		return err
	}
	config := a.config
	n := a.numSlots
	a.Cancel()
	for i := 0; i < n && i < len(a.slots); i++ {
		a.slots[i].Finish(config)
	}
	a.dispatch(EventFinish, config)
	return nil
}
