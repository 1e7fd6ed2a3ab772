// Package surface defines the Display Surface a figure draws to.
package surface

import (
	"fmt"
	"strings"

	"github.com/norasector/rtplot/pkg/normalize"
)

type Kind int

const (
	Point Kind = iota
	Line
)

func (k Kind) String() string {
	switch k {
	case Line:
		return "line"
	default:
		return "point"
	}
}

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "point", "points", "dot", "scatter":
		return Point, nil
	case "line", "lines":
		return Line, nil
	}
	return Point, fmt.Errorf("unknown plot style %q", s)
}

// UnmarshalYAML lets a style be written as "point" or "line".
func (k *Kind) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Decorations are drawn around the plot area. Empty labels are not drawn and
// tick labels are only drawn for fixed axes.
type Decorations struct {
	Title  string
	XLabel string
	YLabel string
	XLim   normalize.Axis
	YLim   normalize.Axis
}

// Surface receives clip-space geometry from a figure. Implementations need
// not be safe for concurrent use; a figure drives its surface from one
// goroutine.
type Surface interface {
	// Draw replaces whatever is on screen with vertices.
	Draw(vertices []normalize.Vertex, kind Kind, dec Decorations) error
	// PollClose reports whether the surface has been asked to close.
	PollClose() bool
	Close() error
}

// Factory creates a surface with the given pixel dimensions and title.
type Factory func(width, height int, title string) (Surface, error)
