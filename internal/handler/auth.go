package handler

import (
	"encoding/json"
	"net/http"

	"github.com/phase2/todo-api/internal/models"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Signup handles user registration
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Errorf("Signup error: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user, token, err := h.svc.Signup(req.Email, req.Password, req.Name)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Errorf("Login error: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user, token, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}
