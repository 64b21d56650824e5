package fx

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultFPS is the tick rate of a Scheduler created without WithFPS.
const DefaultFPS = 60

// A Clock supplies the time used to advance animations.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

// A Ticker calls fn every interval between Start and Stop.
type Ticker interface {
	Start(interval time.Duration, fn func())
	Stop()
}

type timeTicker struct {
	ticker *time.Ticker
	stop   chan struct{}
}

// NewTimeTicker returns a Ticker backed by time.Ticker.
func NewTimeTicker() Ticker {
	return new(timeTicker)
}

func (t *timeTicker) Start(interval time.Duration, fn func()) {
	t.ticker = time.NewTicker(interval)
	t.stop = make(chan struct{})
	go func(c <-chan time.Time, stop <-chan struct{}) {
		for {
			select {
			case <-stop:
				return
			case <-c:
				select {
				case <-stop:
					return
				default:
				}
				fn()
			}
		}
	}(t.ticker.C, t.stop)
}

func (t *timeTicker) Stop() {
	if t.ticker == nil {
		return
	}
	t.ticker.Stop()
	close(t.stop)
	t.ticker = nil
}

// An Option configures a Scheduler.
type Option func(*Scheduler)

// WithFPS sets the tick rate.
func WithFPS(fps int) Option {
	return func(s *Scheduler) {
		if fps > 0 {
			s.fps = fps
		}
	}
}

// WithClock sets the time source.
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		s.clock = c
	}
}

// WithTicker sets the timer that drives ticks.
func WithTicker(t Ticker) Option {
	return func(s *Scheduler) {
		s.ticker = t
	}
}

// WithSuspended sets a flag checked on every tick. While it returns true ticks
// are skipped; elapsed time keeps counting.
func WithSuspended(fn func() bool) Option {
	return func(s *Scheduler) {
		s.suspended = fn
	}
}

// WithErrorReporter sets the receiver of tick failures.
func WithErrorReporter(fn func(error)) Option {
	return func(s *Scheduler) {
		s.report = fn
	}
}

// Scheduler advances every started Animation once per tick. Its ticker runs
// exactly while at least one Animation is queued.
type Scheduler struct {
	mu sync.Mutex

	queue     []*Animation
	ticker    Ticker
	ticking   bool
	running   atomic.Bool
	queued    atomic.Int64
	fps       int
	clock     Clock
	suspended func() bool
	report    func(error)
}

// NewScheduler creates an idle Scheduler.
func NewScheduler(opts ...Option) *Scheduler {
	s := new(Scheduler)
	s.fps = DefaultFPS
	s.clock = SystemClock{}
	s.report = func(err error) {
		log.Printf("%v", err)
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ticker == nil {
		s.ticker = NewTimeTicker()
	}
	return s
}

var (
	defaultOnce      sync.Once
	defaultScheduler *Scheduler
)

// Default returns the process-wide Scheduler, creating it on first use.
func Default() *Scheduler {
	defaultOnce.Do(func() {
		defaultScheduler = NewScheduler()
	})
	return defaultScheduler
}

// Interval returns the time between ticks.
func (s *Scheduler) Interval() time.Duration {
	return time.Duration(float64(time.Second) / float64(s.fps)).Round(time.Millisecond)
}

// Do runs fn on the frame lock. Use it to touch animations from goroutines
// other than the one driving ticks. fn must not call Do.
func (s *Scheduler) Do(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// Ticking reports whether the ticker is running. It is safe to call from any
// goroutine, including inside Do and animation callbacks.
func (s *Scheduler) Ticking() bool {
	return s.running.Load()
}

// Len returns the number of queued animations. It is safe to call from any
// goroutine.
func (s *Scheduler) Len() int {
	return int(s.queued.Load())
}

func (s *Scheduler) enqueue(a *Animation) {
	s.queue = append(s.queue, a)
	s.queued.Store(int64(len(s.queue)))
	if !s.ticking {
		s.ticking = true
		s.running.Store(true)
		s.ticker.Start(s.Interval(), s.frame)
	}
}

func (s *Scheduler) dequeue(a *Animation) {
	if i := s.indexOf(a); i >= 0 {
		s.queue = append(s.queue[:i], s.queue[i+1:]...)
		s.queued.Store(int64(len(s.queue)))
	}
	if len(s.queue) == 0 {
		s.stop()
	}
}

func (s *Scheduler) indexOf(a *Animation) int {
	for i, q := range s.queue {
		if q == a {
			return i
		}
	}
	return -1
}

func (s *Scheduler) stop() {
	if s.ticking {
		s.ticking = false
		s.running.Store(false)
		s.ticker.Stop()
	}
}

// frame is the ticker callback. A failed tick stops the ticker and abandons
// every queued animation; nothing restarts it until the next Start.
func (s *Scheduler) frame() {
	s.mu.Lock()
	err := s.tick()
	if err != nil {
		s.stop()
		s.queue = nil
		s.queued.Store(0)
	}
	s.mu.Unlock()
	if err != nil {
		s.report(err)
	}
}

func (s *Scheduler) tick() (err error) {
	if s.suspended != nil && s.suspended() {
		return nil
	}
	now := s.clock.Now()
	var current uint64
	defer func() {
		if r := recover(); r != nil {
			err = &TickError{Animation: current, Cause: fmt.Errorf("panic: %v", r)}
		}
	}()
	// Animations may start or cancel each other while being advanced.
	snapshot := append([]*Animation(nil), s.queue...)
	for _, a := range snapshot {
		if s.indexOf(a) < 0 {
			continue
		}
		current = a.ID()
		if err := a.loop(now); err != nil {
			return &TickError{Animation: a.ID(), Cause: err}
		}
	}
	return nil
}
