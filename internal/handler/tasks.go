package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/phase2/todo-api/internal/auth"
	"github.com/phase2/todo-api/internal/export"
	"github.com/phase2/todo-api/internal/middleware"
	"github.com/phase2/todo-api/internal/models"
)

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// ListTasks returns all of the caller's tasks, newest first
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	tasks, err := h.svc.ListTasks(identity.UserID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}
	h.respondJSON(w, http.StatusOK, tasks)
}

// CreateTask stores a new task for the caller
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Errorf("Create task error: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	task, err := h.svc.CreateTask(identity.UserID, req.Title, req.Description)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, task)
}

// GetTask returns a single task owned by the caller
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	taskID, ok := h.taskID(w, r)
	if !ok {
		return
	}

	task, err := h.svc.GetTask(identity.UserID, taskID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, task)
}

// UpdateTask changes title and/or description on the caller's task
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	taskID, ok := h.taskID(w, r)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Errorf("Update task error: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	task, err := h.svc.UpdateTask(identity.UserID, taskID, req.Title, req.Description)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, task)
}

// ToggleTask flips the completion flag on the caller's task
func (h *Handler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	taskID, ok := h.taskID(w, r)
	if !ok {
		return
	}

	task, err := h.svc.ToggleTask(identity.UserID, taskID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, task)
}

// DeleteTask removes the caller's task permanently
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	taskID, ok := h.taskID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteTask(identity.UserID, taskID); err != nil {
		h.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportTasks serves the caller's tasks as an XML document
func (h *Handler) ExportTasks(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	tasks, err := h.svc.ListTasks(identity.UserID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	body, err := export.TasksXML(tasks)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// identity pulls the authenticated caller set by the auth middleware. A miss
// means the route was wired without the middleware, which is a server bug.
func (h *Handler) identity(w http.ResponseWriter, r *http.Request) (*auth.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.log.Error("No identity in request context")
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}
	return identity, true
}

func (h *Handler) taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.respondError(w, http.StatusNotFound, "Task not found")
		return 0, false
	}
	return id, true
}
