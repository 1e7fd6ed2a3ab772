// Package web shows a figure in a browser. The page acts as the window: it
// reloads the latest frame and closing it (button or Escape) ends the
// figure's drive loop.
package web

import (
	"context"
	"errors"
	"html/template"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/norasector/rtplot/pkg/normalize"
	"github.com/norasector/rtplot/pkg/surface"
	"github.com/norasector/rtplot/pkg/surface/raster"
)

const shutdownTimeout = 5 * time.Second

var page = template.Must(template.New("page").Parse(`<html>
<head><title>{{.Title}}</title></head>
<body style="background-color: #a9a9a9; margin: 0">
<div><img id="frame" src="/frame.png" width="{{.Width}}" height="{{.Height}}" /></div>
<button id="close">Close</button>
<script type="text/javascript">
	var watching = true;
	function closeWindow() {
		if (!watching) {
			return;
		}
		watching = false;
		fetch('/close', {method: 'POST'});
		document.getElementById('close').disabled = true;
	}
	document.getElementById('close').onclick = closeWindow;
	document.addEventListener('keydown', function(e) {
		if (e.key === 'Escape') {
			closeWindow();
		}
	});
	window.onload = function() {
		var img = document.getElementById('frame');
		setInterval(function() {
			if (watching) {
				img.src = '/frame.png?' + new Date().getTime();
			}
		}, {{.RefreshMillis}});
	};
</script>
</body>
</html>
`))

// Surface serves the most recent frame over HTTP.
type Surface struct {
	title    string
	width    int
	height   int
	refresh  time.Duration
	renderer *raster.Renderer
	logger   zerolog.Logger

	mu             sync.RWMutex
	frame          []byte
	frameCount     uint64
	closeRequested bool
	closed         bool

	srv *http.Server
	ln  net.Listener
	eg  *errgroup.Group
}

var _ surface.Surface = (*Surface)(nil)

func newSurface(width, height int, title string, refresh time.Duration, logger zerolog.Logger) *Surface {
	s := &Surface{
		title:    title,
		width:    width,
		height:   height,
		refresh:  refresh,
		renderer: raster.NewRenderer(width, height),
		logger:   logger,
	}
	s.srv = &http.Server{Handler: s.Handler()}
	return s
}

// NewFactory returns a Factory whose surfaces listen on addr. An addr with
// port 0 picks a free port; see Addr.
func NewFactory(addr string, refresh time.Duration, logger zerolog.Logger) surface.Factory {
	return func(width, height int, title string) (surface.Surface, error) {
		s := newSurface(width, height, title, refresh, logger)
		if err := s.listen(addr); err != nil {
			return nil, err
		}
		return s, nil
	}
}

func (s *Surface) listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.eg = &errgroup.Group{}
	s.eg.Go(func() error {
		err := s.srv.Serve(ln)
		switch {
		case errors.Is(err, http.ErrServerClosed):
			return nil
		case err != nil:
			s.logger.Error().Err(err).Msg("figure server stopped")
			// Without a server nobody can watch, so treat it as a close.
			s.mu.Lock()
			s.closeRequested = true
			s.mu.Unlock()
			return err
		}
		return nil
	})

	s.logger.Info().Str("addr", ln.Addr().String()).Str("title", s.title).Msg("figure server listening")
	return nil
}

// Addr is the address the server listens on.
func (s *Surface) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

func (s *Surface) Draw(vertices []normalize.Vertex, kind surface.Kind, dec surface.Decorations) error {
	data, err := s.renderer.Render(vertices, kind, dec)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return http.ErrServerClosed
	}
	s.frame = data
	s.frameCount++
	return nil
}

func (s *Surface) PollClose() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closeRequested || s.closed
}

func (s *Surface) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if s.eg == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		return err
	}
	return s.eg.Wait()
}

// Handler serves the page, the latest frame, and the close endpoint.
func (s *Surface) Handler() http.Handler {
	handler := httprouter.New()

	handler.GET("/", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html")
		err := page.Execute(w, struct {
			Title         string
			Width, Height int
			RefreshMillis int64
		}{s.title, s.width, s.height, s.refresh.Milliseconds()})
		if err != nil {
			s.logger.Warn().Err(err).Msg("error writing page")
		}
	})

	handler.GET("/frame.png", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		s.mu.RLock()
		frame := s.frame
		count := s.frameCount
		s.mu.RUnlock()

		if frame == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("X-Frame-Count", strconv.FormatUint(count, 10))
		w.Write(frame)
	})

	handler.POST("/close", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		s.mu.Lock()
		s.closeRequested = true
		s.mu.Unlock()

		s.logger.Info().Str("remote", r.RemoteAddr).Msg("close requested")
		w.WriteHeader(http.StatusNoContent)
	})

	return handler
}
