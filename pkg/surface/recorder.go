package surface

import (
	"errors"

	"github.com/norasector/rtplot/pkg/normalize"
)

// Frame is one recorded Draw call.
type Frame struct {
	Vertices    []normalize.Vertex
	Kind        Kind
	Decorations Decorations
}

// Recorder is an in-memory Surface. It keeps every frame it is given and
// never touches a display, which makes it useful for tests and headless runs.
type Recorder struct {
	Width  int
	Height int
	Title  string
	Frames []Frame

	closeRequested bool
	closed         bool
	drawErr        error
}

var _ Surface = (*Recorder)(nil)

var errRecorderClosed = errors.New("recorder closed")

func NewRecorder(width, height int, title string) *Recorder {
	return &Recorder{Width: width, Height: height, Title: title}
}

// RecorderFactory returns a Factory that hands out rec.
func RecorderFactory(rec *Recorder) Factory {
	return func(width, height int, title string) (Surface, error) {
		rec.Width = width
		rec.Height = height
		rec.Title = title
		return rec, nil
	}
}

func (r *Recorder) Draw(vertices []normalize.Vertex, kind Kind, dec Decorations) error {
	if r.closed {
		return errRecorderClosed
	}
	if r.drawErr != nil {
		return r.drawErr
	}
	vs := make([]normalize.Vertex, len(vertices))
	copy(vs, vertices)
	r.Frames = append(r.Frames, Frame{Vertices: vs, Kind: kind, Decorations: dec})
	return nil
}

// RequestClose makes the next PollClose report true, as if the user had
// closed the window.
func (r *Recorder) RequestClose() {
	r.closeRequested = true
}

// FailWith makes every subsequent Draw return err.
func (r *Recorder) FailWith(err error) {
	r.drawErr = err
}

func (r *Recorder) PollClose() bool {
	return r.closeRequested || r.closed
}

func (r *Recorder) Close() error {
	r.closed = true
	return nil
}

func (r *Recorder) Closed() bool {
	return r.closed
}

// Last returns the most recent frame.
func (r *Recorder) Last() (Frame, bool) {
	if len(r.Frames) == 0 {
		return Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}
