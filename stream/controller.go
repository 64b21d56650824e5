package stream

import (
	"log"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/cellfx/fx"
	"github.com/pkg/errors"
)

// A Publisher sends frames and animation events.
type Publisher interface {
	Sink
	PublishEvent(animation, event string, config any) error
}

// Run is the config payload of every animation started by a Controller.
type Run struct {
	Name  string `json:"name"`
	Cycle int    `json:"cycle"`
}

// Controller that cycles through a playlist of animations.
type Controller struct {
	scheduler  *fx.Scheduler
	publisher  Publisher
	animations []*fx.Animation
	names      []string
	current    int
	cycle      int
	stopped    bool
}

// NewController creates an instance of a Controller from the playlist in cfg.
func NewController(scheduler *fx.Scheduler, publisher Publisher, cfg Config) (*Controller, error) {
	if len(cfg.Animations) == 0 {
		return nil, errors.New("no animations configured")
	}

	c := new(Controller)
	c.scheduler = scheduler
	c.publisher = publisher
	c.stopped = true

	for _, ac := range cfg.Animations {
		a := fx.NewAnimation(scheduler)
		a.SetDuration(time.Duration(ac.DurationMs) * time.Millisecond)
		if ac.Transition != "" {
			if err := a.SetTransitionName(ac.Transition); err != nil {
				return nil, errors.WithMessagef(err, "animation %s", ac.Name)
			}
		}

		var painter Painter
		if ac.Gradient {
			painter = NewGradientSweep(Rainbow, cfg.Pixels)
		} else {
			from, err := colorful.Hex(ac.From)
			if err != nil {
				return nil, errors.Wrapf(err, "animation %s", ac.Name)
			}
			to, err := colorful.Hex(ac.To)
			if err != nil {
				return nil, errors.Wrapf(err, "animation %s", ac.Name)
			}
			painter = NewFade(cfg.Pixels, from, to)
		}
		a.AddSlot(NewFrameSlot(painter, publisher))

		c.watch(ac.Name, a)
		c.animations = append(c.animations, a)
		c.names = append(c.names, ac.Name)
	}

	return c, nil
}

func (c *Controller) watch(name string, a *fx.Animation) {
	for _, ev := range []fx.Event{fx.EventInit, fx.EventCancel, fx.EventFinish} {
		ev := ev
		a.On(ev, func(config any) {
			if err := c.publisher.PublishEvent(name, ev.String(), config); err != nil {
				log.Printf("event %s of %s: %v", ev, name, err)
			}
		})
	}
	a.On(fx.EventFinish, func(any) {
		c.cycleAnimation()
	})
}

// Start plays the playlist from its first entry. An animation left started by
// a failed tick is cancelled first.
func (c *Controller) Start() {
	c.scheduler.Do(func() {
		c.animations[c.current].Cancel()
		c.stopped = false
		c.current = 0
		c.cycle = 0
		c.startCurrent()
	})
}

// Stop cancels the playing animation.
func (c *Controller) Stop() {
	c.scheduler.Do(func() {
		c.stopped = true
		c.animations[c.current].Cancel()
	})
}

// Current returns the name of the playing animation.
func (c *Controller) Current() string {
	var name string
	c.scheduler.Do(func() {
		name = c.names[c.current]
	})
	return name
}

func (c *Controller) startCurrent() {
	log.Printf("animation: %s", c.names[c.current])
	if !c.animations[c.current].Start(Run{Name: c.names[c.current], Cycle: c.cycle}) {
		log.Printf("animation %s did not start", c.names[c.current])
	}
}

func (c *Controller) cycleAnimation() {
	if c.stopped {
		return
	}
	c.current++
	if c.current == len(c.animations) {
		c.current = 0
		c.cycle++
	}
	c.startCurrent()
}
