package figure

import "context"

// Run calls frame, then polls the surface, until the surface asks to close
// or frame fails. The figure is closed on return.
func Run(f *Figure, frame func(*Figure) error) error {
	return RunContext(context.Background(), f, frame)
}

// RunContext is Run that also stops, without error, when ctx is done.
func RunContext(ctx context.Context, f *Figure, frame func(*Figure) error) (err error) {
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := frame(f); err != nil {
			return err
		}
		if !f.PollClose() {
			return nil
		}
	}
}
