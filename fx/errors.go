package fx

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidState is returned when an operation is not allowed while the
// Animation is started.
var ErrInvalidState = errors.New("invalid animation state")

// ErrUnknownTransition is returned for transition names LookupTransition does
// not know.
var ErrUnknownTransition = errors.New("unknown transition")

// DisposalError collects the failures seen while disposing slots. Every slot
// is disposed even when an earlier one fails.
type DisposalError struct {
	Errs []error
}

func (e *DisposalError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("could not dispose animation slots: %s", strings.Join(msgs, "; "))
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *DisposalError) Unwrap() []error {
	return e.Errs
}

// TickError is reported when advancing an animation fails during a scheduler
// tick. The scheduler stops after reporting it.
type TickError struct {
	Animation uint64
	Cause     error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("animation aborted: animation %d: %v", e.Animation, e.Cause)
}

func (e *TickError) Unwrap() error {
	return e.Cause
}
