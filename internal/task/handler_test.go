package task

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tford-dev/tasks-app-api/internal/auth"
	userentity "github.com/tford-dev/tasks-app-api/internal/user/entity"
)

// testMux routes task endpoints the way the real router does, with the
// given identity pre-resolved so path values and ownership checks are
// exercised together.
func testMux(h *Handler, u *userentity.User) *http.ServeMux {
	as := func(next http.HandlerFunc) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next(w, r.WithContext(auth.ContextWithUser(r.Context(), u)))
		})
	}
	mux := http.NewServeMux()
	mux.Handle("GET /api/tasks", as(h.List))
	mux.Handle("POST /api/tasks", as(h.Create))
	mux.Handle("GET /api/tasks/{id}", as(h.Get))
	mux.Handle("PUT /api/tasks/{id}", as(h.Update))
	mux.Handle("DELETE /api/tasks/{id}", as(h.Delete))
	return mux
}

func newHandlerWithRepo(repo Repository) *Handler {
	return &Handler{svc: NewTaskService(nil, repo), logger: zap.NewNop().Sugar()}
}

func do(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestCreateThenListAndGet(t *testing.T) {
	repo := newFakeTaskRepo()
	h := newHandlerWithRepo(repo)
	asOwner := testMux(h, owner)

	rec := do(asOwner, http.MethodPost, "/api/tasks", `{"title":"t","description":"d","time":"8:00 AM"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/tasks/1", rec.Header().Get("Location"))

	rec = do(asOwner, http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "t", list[0]["title"])

	rec = do(asOwner, http.MethodGet, "/api/tasks/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"description":"d"`)
}

func TestGet_ForeignOwnerIs403(t *testing.T) {
	repo := newFakeTaskRepo()
	h := newHandlerWithRepo(repo)
	seedTask(t, repo, owner, time.Now())

	rec := do(testMux(h, intruder), http.MethodGet, "/api/tasks/1", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Access Denied")
	assert.NotContains(t, rec.Body.String(), `"title"`)
}

func TestGet_AbsentIs404(t *testing.T) {
	h := newHandlerWithRepo(newFakeTaskRepo())

	rec := do(testMux(h, owner), http.MethodGet, "/api/tasks/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Task Not Found")
}

func TestCreate_MissingFieldsIs400(t *testing.T) {
	h := newHandlerWithRepo(newFakeTaskRepo())

	rec := do(testMux(h, owner), http.MethodPost, "/api/tasks", `{"title":"","description":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "title")
	assert.Contains(t, rec.Body.String(), "description")
}

func TestUpdate_Matrix(t *testing.T) {
	repo := newFakeTaskRepo()
	h := newHandlerWithRepo(repo)
	seedTask(t, repo, owner, time.Now())

	// empty title: 400 before any ownership or store work, task unchanged
	rec := do(testMux(h, owner), http.MethodPut, "/api/tasks/1", `{"title":"","description":"d"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	stored, _ := repo.GetByID(t.Context(), 1)
	assert.Equal(t, "t", stored.Title)

	rec = do(testMux(h, intruder), http.MethodPut, "/api/tasks/1", `{"title":"new","description":"d"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(testMux(h, owner), http.MethodPut, "/api/tasks/99", `{"title":"new","description":"d"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(testMux(h, owner), http.MethodPut, "/api/tasks/1", `{"title":"new","description":"d"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	stored, _ = repo.GetByID(t.Context(), 1)
	assert.Equal(t, "new", stored.Title)
}

func TestDelete_Matrix(t *testing.T) {
	repo := newFakeTaskRepo()
	h := newHandlerWithRepo(repo)
	seedTask(t, repo, owner, time.Now())

	rec := do(testMux(h, intruder), http.MethodDelete, "/api/tasks/1", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(testMux(h, owner), http.MethodDelete, "/api/tasks/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(testMux(h, owner), http.MethodDelete, "/api/tasks/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestTaskID_NonNumericIs404(t *testing.T) {
	h := newHandlerWithRepo(newFakeTaskRepo())

	rec := do(testMux(h, owner), http.MethodGet, "/api/tasks/abc", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNoIdentityIs401(t *testing.T) {
	h := newHandlerWithRepo(newFakeTaskRepo())

	// route without the identity-injecting wrapper
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tasks", h.List)
	rec := do(mux, http.MethodGet, "/api/tasks", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
