package normalize

import "fmt"

// AxisMode selects how an axis obtains its limits.
type AxisMode int

const (
	// Auto axes are refit to the current points on every frame.
	Auto AxisMode = iota
	// Fixed axes keep their configured limits for the life of a figure.
	Fixed
)

func (m AxisMode) String() string {
	switch m {
	case Fixed:
		return "fixed"
	default:
		return "auto"
	}
}

// Axis is either Auto or Fixed(min, max). The zero value is Auto. Fixed
// limits are not validated: an inverted or zero-width range is legal.
type Axis struct {
	mode     AxisMode
	min, max float32
}

func AutoAxis() Axis {
	return Axis{mode: Auto}
}

func FixedAxis(min, max float32) Axis {
	return Axis{mode: Fixed, min: min, max: max}
}

func (a Axis) Mode() AxisMode {
	return a.mode
}

func (a Axis) IsFixed() bool {
	return a.mode == Fixed
}

// Limits returns the configured range. ok is false for an Auto axis.
func (a Axis) Limits() (min, max float32, ok bool) {
	if a.mode != Fixed {
		return 0, 0, false
	}
	return a.min, a.max, true
}

// contains reports whether v lies inside the fixed window, bounds included.
func (a Axis) contains(v float32) bool {
	lo, hi := a.min, a.max
	if lo > hi {
		lo, hi = hi, lo
	}
	return v >= lo && v <= hi
}

func (a Axis) String() string {
	if a.mode != Fixed {
		return "auto"
	}
	return fmt.Sprintf("fixed[%g, %g]", a.min, a.max)
}
