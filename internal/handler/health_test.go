package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthHandler(t *testing.T) {
	h := newTestHandler()
	rec := doJSON(t, h.Health, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyHandler(t *testing.T) {
	t.Run("database up", func(t *testing.T) {
		h := newTestHandler()
		rec := doJSON(t, h.Ready, "GET", "/ready", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("database down", func(t *testing.T) {
		h := newTestHandler()
		h.pinger.PingFunc = func(ctx context.Context) error { return errors.New("connection refused") }
		rec := doJSON(t, h.Ready, "GET", "/ready", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
