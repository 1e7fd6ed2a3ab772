package figure

import (
	"errors"
	"fmt"
)

var (
	ErrUnboundFigure       = errors.New("uninitialized renderer")
	ErrAlreadyBound        = errors.New("figure already bound to a surface")
	ErrFigureClosed        = errors.New("figure closed")
	ErrConfigurationLocked = errors.New("figure configuration locked after bind")
)

// RenderError wraps a failure reported by the surface. The figure is closed
// by the time the caller sees it.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render: %v", e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
