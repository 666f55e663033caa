package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type failingHandler struct {
	slog.Handler
}

func (failingHandler) Handle(context.Context, slog.Record) error {
	return errors.New("sink down")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestMultiHandler_FansOut(t *testing.T) {
	var debugBuf, warnBuf bytes.Buffer
	debug := slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug})
	warn := slog.NewTextHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn})

	log := slog.New(NewMultiHandler(debug, warn)).With("component", "test")
	log.Debug("cache miss", "movie.id", "m1")
	log.Warn("cache unavailable")

	assert.Contains(t, debugBuf.String(), "cache miss")
	assert.Contains(t, debugBuf.String(), "component=test")
	assert.Contains(t, debugBuf.String(), "cache unavailable")
	assert.NotContains(t, warnBuf.String(), "cache miss")
	assert.Contains(t, warnBuf.String(), "cache unavailable")
}

func TestMultiHandler_KeepsGoingAfterFailure(t *testing.T) {
	var buf bytes.Buffer
	ok := slog.NewTextHandler(&buf, nil)
	broken := failingHandler{Handler: slog.NewTextHandler(&bytes.Buffer{}, nil)}

	h := NewMultiHandler(broken, ok)
	err := h.Handle(context.Background(), slog.NewRecord(time.Time{}, slog.LevelInfo, "signed in", 0))

	assert.Error(t, err)
	assert.Contains(t, buf.String(), "signed in")
}
