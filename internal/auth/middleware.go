package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/tford-dev/tasks-app-api/internal/user/entity"
)

// CredentialStore is the read-only slice of the user store the
// middleware needs to resolve Basic credentials.
type CredentialStore interface {
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}

// contextKey is a private type so context values can't collide with
// other packages.
type contextKey struct{}

var userKey contextKey

// CurrentUser returns the identity resolved by the middleware for this
// request, if any.
func CurrentUser(ctx context.Context) (*entity.User, bool) {
	u, ok := ctx.Value(userKey).(*entity.User)
	return u, ok
}

// ContextWithUser attaches a resolved user to ctx. Exposed for handler
// tests; production code goes through Middleware.Wrap.
func ContextWithUser(ctx context.Context, u *entity.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// Middleware authenticates requests with HTTP Basic credentials
// (email address + password) before the route body runs.
type Middleware struct {
	store  CredentialStore
	hasher PasswordHasher
	logger *zap.SugaredLogger
}

func NewMiddleware(store CredentialStore, hasher PasswordHasher, logger *zap.SugaredLogger) *Middleware {
	if hasher == nil {
		hasher = BcryptHasher{}
	}
	return &Middleware{store: store, hasher: hasher, logger: logger}
}

// Wrap resolves the caller's identity and attaches it to the request
// context, or short-circuits with 401. Missing header, unknown email and
// wrong password all produce the identical response so callers can't
// enumerate accounts.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, password, ok := r.BasicAuth()
		if !ok {
			m.deny(w)
			return
		}
		u, err := m.store.GetByEmail(r.Context(), email)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				m.logger.Warnw("credential lookup failed", "err", err)
			}
			m.deny(w)
			return
		}
		if !m.hasher.Verify(u.PasswordHash, password) {
			m.deny(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), u)))
	})
}

func (m *Middleware) deny(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="tasks-app-api"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Access Denied"})
}
