package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/tford-dev/tasks-app-api/internal/auth"
	"github.com/tford-dev/tasks-app-api/internal/validate"
)

// Handler exposes HTTP endpoints for user operations (register / current profile).
type Handler struct {
	svc    *UserService
	logger *zap.SugaredLogger
}

func NewHandler(db *sqlx.DB, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: NewUserService(db, nil, nil), logger: logger}
}

// RegisterRequest request body for the registration endpoint.
type RegisterRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmailAddress string `json:"emailAddress"`
	Password     string `json:"password"`
}

// Register handles POST /api/users. Success is 201 with an empty body
// and Location: /.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid register payload", "err", err)
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request payload"})
		return
	}
	_, err := h.svc.Register(r.Context(), RegistrationInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		EmailAddress: req.EmailAddress,
		Password:     req.Password,
	})
	if err != nil {
		var ve *validate.Error
		switch {
		case errors.As(err, &ve):
			h.writeJSON(w, http.StatusBadRequest, map[string]any{"errors": ve.Violations})
		case errors.Is(err, ErrDuplicateEmail):
			h.writeJSON(w, http.StatusBadRequest, map[string]any{
				"errors": []validate.Violation{{Field: "emailAddress", Message: "Email address is already in use."}},
			})
		default:
			h.logger.Errorw("register failed", "err", err)
			h.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Internal Server Error"})
		}
		return
	}
	w.Header().Set("Location", "/")
	w.WriteHeader(http.StatusCreated)
}

// ProfileResponse is the current-user projection. Credential material is
// deliberately absent.
type ProfileResponse struct {
	UserID       int64  `json:"userId"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmailAddress string `json:"emailAddress"`
}

// Current handles GET /api/users for the authenticated caller.
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Access Denied"})
		return
	}
	h.writeJSON(w, http.StatusOK, ProfileResponse{
		UserID:       u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		EmailAddress: u.EmailAddress,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
