package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/phase2/todo-api/internal/repository"
	"github.com/phase2/todo-api/internal/service"
	"github.com/phase2/todo-api/internal/utils"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Root reports the service banner
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{
		"message": "Todo API is running",
		"version": "1.0.0",
	})
}

// Health is the liveness probe
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, detail string) {
	h.respondJSON(w, status, map[string]string{"detail": detail})
}

// respondServiceError maps store and service outcomes to the wire contract.
// Ownership mismatch deliberately answers 401, not 403, to keep the original
// API behavior.
func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	var validationErr *utils.ValidationError
	switch {
	case errors.As(err, &validationErr):
		h.respondError(w, http.StatusBadRequest, validationErr.Detail)
	case errors.Is(err, repository.ErrEmailTaken):
		h.respondError(w, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		h.respondError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, repository.ErrTaskNotFound):
		h.respondError(w, http.StatusNotFound, "Task not found")
	case errors.Is(err, repository.ErrNotTaskOwner):
		h.respondError(w, http.StatusUnauthorized, "Unauthorized: Task does not belong to this user")
	default:
		h.log.Errorf("Internal error: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
