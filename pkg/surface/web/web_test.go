package web

import (
	"bytes"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/norasector/rtplot/pkg/normalize"
	"github.com/norasector/rtplot/pkg/surface"
)

func TestHandler(t *testing.T) {
	s := newSurface(200, 150, "Scope <1>", 100*time.Millisecond, zerolog.Nop())
	h := s.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Scope &lt;1&gt;")
	assert.Contains(t, body, "Escape")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/frame.png", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code, "no frame drawn yet")

	require.NoError(t, s.Draw([]normalize.Vertex{{X: 0, Y: 0}}, surface.Point, surface.Decorations{}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/frame.png", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "1", rec.Header().Get("X-Frame-Count"))
	_, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)

	assert.False(t, s.PollClose())
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/close", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, s.PollClose())

	require.NoError(t, s.Close())
	assert.Error(t, s.Draw(nil, surface.Point, surface.Decorations{}))
}

func TestFactoryServes(t *testing.T) {
	sf, err := NewFactory("127.0.0.1:0", time.Second, zerolog.Nop())(100, 100, "Plot")
	require.NoError(t, err)
	s := sf.(*Surface)

	resp, err := http.Get("http://" + s.Addr().String() + "/")
	require.NoError(t, err)
	page, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(page), "<title>Plot</title>"))

	resp, err = http.Post("http://"+s.Addr().String()+"/close", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.True(t, s.PollClose())

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}
