package fx

import (
	"math"

	"github.com/fogleman/ease"
	gweenease "github.com/tanema/gween/ease"
)

// A Transition maps linear progress in [0,1] to eased progress.
type Transition func(position float64) float64

// Linear returns the position unchanged.
func Linear(position float64) float64 {
	return position
}

// EaseIn accelerates from zero.
func EaseIn(position float64) float64 {
	return math.Pow(position, 2)
}

// EaseOut decelerates towards one.
func EaseOut(position float64) float64 {
	return -math.Pow(position-1, 2) + 1
}

// EaseInOut follows half a cosine wave.
func EaseInOut(position float64) float64 {
	return (-math.Cos(position*math.Pi) / 2) + 0.5
}

// Ease feeds the EaseOut curve through EaseInOut. Keep the composition as is,
// existing effects are tuned against it.
func Ease(position float64) float64 {
	easeOut := -math.Pow(position-1, 2) + 1
	return (-math.Cos(easeOut*math.Pi) / 2) + 0.5
}

var transitions = map[string]Transition{
	"linear":    Linear,
	"ease":      Ease,
	"easeIn":    EaseIn,
	"easeOut":   EaseOut,
	"easeInOut": EaseInOut,

	"inOutQuad":  ease.InOutQuad,
	"inCubic":    ease.InCubic,
	"outCubic":   ease.OutCubic,
	"inOutCubic": ease.InOutCubic,
	"inOutSine":  ease.InOutSine,
	"outBack":    ease.OutBack,
	"outBounce":  ease.OutBounce,
	"outElastic": ease.OutElastic,
}

// LookupTransition finds a transition by name.
func LookupTransition(name string) (Transition, bool) {
	fn, ok := transitions[name]
	return fn, ok
}

// TransitionNames returns the names accepted by LookupTransition.
func TransitionNames() []string {
	names := make([]string, 0, len(transitions))
	for name := range transitions {
		names = append(names, name)
	}
	return names
}

// Tween adapts a gween easing function to a Transition.
func Tween(fn gweenease.TweenFunc) Transition {
	return func(position float64) float64 {
		return float64(fn(float32(position), 0, 1, 1))
	}
}

// Sample evaluates fn at n evenly spaced positions from 0 to 1 inclusive.
func Sample(fn Transition, n int) []float64 {
	if n < 2 {
		n = 2
	}
	increment := 1.0 / float64(n-1)
	lut := make([]float64, n)
	for i := 0; i < n; i++ {
		lut[i] = fn(float64(i) * increment)
	}
	return lut
}
