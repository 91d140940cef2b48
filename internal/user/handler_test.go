// AngelaMos | 2026
// handler_test.go

package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/marketplace-api/internal/authz"
)

func asPrincipal(p *authz.Principal) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(authz.WithPrincipal(r.Context(), p)))
		})
	}
}

func newRouter(svc *Service, p *authz.Principal) http.Handler {
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, asPrincipal(p))
	return r
}

func TestCreateUserEndpoint(t *testing.T) {
	svc, _ := newTestService()
	body := `{"username":"ivy","password":"password123","role":"editor","first_name":"Ivy"}`

	rec := httptest.NewRecorder()
	newRouter(svc, editor).ServeHTTP(rec,
		httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body)))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	newRouter(svc, admin).ServeHTTP(rec,
		httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "ivy", got["username"])
	assert.Equal(t, "editor", got["role"])
	assert.NotContains(t, got, "password")
	assert.NotContains(t, got, "password_hash")
	assert.Nil(t, got["business"])
}

func TestCreateUserValidation(t *testing.T) {
	svc, _ := newTestService()

	rec := httptest.NewRecorder()
	newRouter(svc, admin).ServeHTTP(rec,
		httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"username":"x","password":"short"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "password")

	rec = httptest.NewRecorder()
	newRouter(svc, admin).ServeHTTP(rec,
		httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"username":"x","password":"password123","role":"owner"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDuplicateUsernameIs400(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Create(context.Background(), admin, CreateUserRequest{Username: "jay", Password: "password123"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	newRouter(svc, admin).ServeHTTP(rec,
		httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"username":"jay","password":"password123"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "username")
}

func TestUnknownUserIs404(t *testing.T) {
	svc, _ := newTestService()

	rec := httptest.NewRecorder()
	newRouter(svc, admin).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/users/2b7d6a1e-0000-4000-8000-000000000000", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
