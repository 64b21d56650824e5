package stream

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/cellfx/fx"
)

// A Painter renders the frame for an eased animation position.
type Painter interface {
	CalculateFrame(value float64) *Frame
}

// Fade is a Painter that blends one frame into another.
type Fade struct {
	from *Frame
	to   *Frame
}

// NewFade creates a Fade between two solid colours.
func NewFade(numPixels int, from, to colorful.Color) *Fade {
	f := new(Fade)
	f.from = NewSolidFrame(numPixels, from)
	f.to = NewSolidFrame(numPixels, to)
	return f
}

// CalculateFrame creates a new Frame instance.
func (f *Fade) CalculateFrame(value float64) *Frame {
	return f.from.InterpolateFrame(f.to, value)
}

// A GradientSweep is a Painter that moves a gradient along the strip.
type GradientSweep struct {
	gradient   GradientTable
	numPixels  int
	saturation float64
	luminance  float64
}

// NewGradientSweep creates an instance of a GradientSweep.
func NewGradientSweep(gradient GradientTable, numPixels int) *GradientSweep {
	g := new(GradientSweep)
	g.gradient = gradient
	g.numPixels = numPixels
	g.saturation = 1.0
	g.luminance = 0.5
	return g
}

// CalculateFrame creates a new Frame instance.
func (g *GradientSweep) CalculateFrame(value float64) *Frame {
	f := NewFrame(g.numPixels)
	for i := 0; i < g.numPixels; i++ {
		t := value + float64(i)/float64(g.numPixels)
		if t > 1 {
			t--
		}
		f.pixels[i] = g.gradient.GetColor(t, g.saturation, g.luminance)
	}
	return f
}

// FrameSlot is an fx.Slot that paints a frame per tick and sends it to a Sink.
type FrameSlot struct {
	fx.Toggle

	painter Painter
	sink    Sink
	last    *Frame
}

// NewFrameSlot creates an instance of a FrameSlot.
func NewFrameSlot(painter Painter, sink Sink) *FrameSlot {
	s := new(FrameSlot)
	s.painter = painter
	s.sink = sink
	return s
}

// Setup forgets the previous run's frame.
func (s *FrameSlot) Setup(config any) {
	s.last = nil
}

// Render paints and sends the frame for value.
func (s *FrameSlot) Render(value float64) error {
	if !s.Active() {
		return nil
	}
	s.last = s.painter.CalculateFrame(value)
	return s.sink.SendFrame(s.last)
}

// Finish ends a once activation.
func (s *FrameSlot) Finish(config any) {
	s.Release()
}

// Dispose releases nothing; the sink outlives the slot.
func (s *FrameSlot) Dispose() error {
	return nil
}

// Last returns the most recently sent frame.
func (s *FrameSlot) Last() *Frame {
	return s.last
}
