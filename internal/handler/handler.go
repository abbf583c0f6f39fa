package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/paharnama-dev/paharnama/internal/config"
	"github.com/paharnama-dev/paharnama/internal/logger"
	"github.com/paharnama-dev/paharnama/internal/service"
)

// Pinger reports storage liveness for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	auth      service.AuthService
	mountains service.MountainService
	users     service.UserService
	storage   Pinger
	cfg       *config.Config
}

func New(auth service.AuthService, mountains service.MountainService, users service.UserService, storage Pinger, cfg *config.Config) *Handler {
	return &Handler{auth, mountains, users, storage, cfg}
}

// envelope is the uniform response shape of the API.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respond(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(envelope{Success: statusCode < 400, Message: message, Data: data}); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}
