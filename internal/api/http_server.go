package api

import (
	"strings"
	"time"

	"peopledesk/internal/assistant"
	"peopledesk/internal/auth"
	"peopledesk/internal/config"
	"peopledesk/internal/model"
	"peopledesk/internal/service"
	"peopledesk/internal/storage"
)

// HTTPHandler carries the dependencies of every route handler.
type HTTPHandler struct {
	cfg               config.Config
	repo              model.Repository
	storage           storage.Storage
	storagePublicBase string
	authManager       *auth.Manager
	authService       *service.AuthService
	responder         assistant.Responder
}

// NewHTTPHandler creates the handler with its auth manager and services wired.
func NewHTTPHandler(cfg config.Config, repo model.Repository, store storage.Storage) (*HTTPHandler, error) {
	expiry := time.Duration(cfg.JWTExpirationMinutes) * time.Minute
	authManager, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, expiry)
	if err != nil {
		return nil, err
	}

	handler := &HTTPHandler{
		cfg:               cfg,
		repo:              repo,
		storage:           store,
		storagePublicBase: normalisePublicBase(cfg.StoragePublicBaseURL),
		authManager:       authManager,
		authService:       service.NewAuthService(repo, authManager),
		responder:         assistant.NewCannedResponder(),
	}

	return handler, nil
}

// normalisePublicBase normalises the public URL base path.
func normalisePublicBase(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = "/files"
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return strings.TrimRight(trimmed, "/")
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return strings.TrimRight(trimmed, "/")
}
