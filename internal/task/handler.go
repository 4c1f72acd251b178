package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/tford-dev/tasks-app-api/internal/auth"
	userentity "github.com/tford-dev/tasks-app-api/internal/user/entity"
	"github.com/tford-dev/tasks-app-api/internal/validate"
)

// Handler exposes HTTP endpoints for task CRUD. Every route runs behind
// the Basic-auth middleware, so a resolved user is always in context.
type Handler struct {
	svc    *TaskService
	logger *zap.SugaredLogger
}

func NewHandler(db *sqlx.DB, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: NewTaskService(db, nil), logger: logger}
}

// TaskRequest request body for create/update.
type TaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Time        string `json:"time"`
}

// List handles GET /api/tasks.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(w, r)
	if !ok {
		return
	}
	tasks, err := h.svc.ListForUser(r.Context(), u)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, tasks)
}

// Get handles GET /api/tasks/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, err := taskID(r)
	if err != nil {
		h.notFound(w)
		return
	}
	t, err := h.svc.Get(r.Context(), u, id)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, t)
}

// Create handles POST /api/tasks.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid task payload", "err", err)
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request payload"})
		return
	}
	t, err := h.svc.Create(r.Context(), u, Input{Title: req.Title, Description: req.Description, Time: req.Time})
	if err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/tasks/%d", t.ID))
	w.WriteHeader(http.StatusCreated)
}

// Update handles PUT /api/tasks/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, err := taskID(r)
	if err != nil {
		h.notFound(w)
		return
	}
	var req TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid task payload", "err", err)
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request payload"})
		return
	}
	if err := h.svc.Update(r.Context(), u, id, Input{Title: req.Title, Description: req.Description, Time: req.Time}); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/tasks/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, err := taskID(r)
	if err != nil {
		h.notFound(w)
		return
	}
	if err := h.svc.Delete(r.Context(), u, id); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func taskID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (*userentity.User, bool) {
	u, ok := auth.CurrentUser(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Access Denied"})
		return nil, false
	}
	return u, true
}

// fail maps service errors to responses.
func (h *Handler) fail(w http.ResponseWriter, err error) {
	var ve *validate.Error
	switch {
	case errors.As(err, &ve):
		h.writeJSON(w, http.StatusBadRequest, map[string]any{"errors": ve.Violations})
	case errors.Is(err, ErrTaskNotFound):
		h.notFound(w)
	case errors.Is(err, ErrAccessDenied):
		h.writeJSON(w, http.StatusForbidden, map[string]string{"message": "Access Denied"})
	default:
		h.logger.Errorw("task operation failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Internal Server Error"})
	}
}

func (h *Handler) notFound(w http.ResponseWriter) {
	h.writeJSON(w, http.StatusNotFound, map[string]string{"message": "Task Not Found"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
