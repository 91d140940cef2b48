// AngelaMos | 2026
// service_test.go

package business

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/marketplace-api/internal/authz"
	"github.com/carterperez-dev/marketplace-api/internal/core"
)

type memRepo struct {
	mu    sync.Mutex
	items map[string]Business
}

func newMemRepo() *memRepo {
	return &memRepo{items: make(map[string]Business)}
}

func (m *memRepo) Create(_ context.Context, b *Business) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.CreatedAt = time.Now()
	m.items[b.ID] = *b
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("get business: %w", core.ErrNotFound)
	}
	return &b, nil
}

func (m *memRepo) List(_ context.Context) ([]Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Business, 0, len(m.items))
	for _, b := range m.items {
		out = append(out, b)
	}
	return out, nil
}

func (m *memRepo) Update(_ context.Context, b *Business) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[b.ID]; !ok {
		return fmt.Errorf("update business: %w", core.ErrNotFound)
	}
	m.items[b.ID] = *b
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return fmt.Errorf("delete business: %w", core.ErrNotFound)
	}
	delete(m.items, id)
	return nil
}

func (m *memRepo) Exists(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.items[id]
	return ok, nil
}

var viewer = &authz.Principal{UserID: "v-1", Role: authz.RoleViewer}

func TestBusinessCRUD(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	b, err := svc.Create(ctx, viewer, CreateBusinessRequest{Name: "  Acme  "})
	require.NoError(t, err)
	assert.Equal(t, "Acme", b.Name)

	exists, err := svc.Exists(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	name := "Acme Corp"
	updated, err := svc.Update(ctx, viewer, b.ID, UpdateBusinessRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", updated.Name)

	all, err := svc.List(ctx, viewer)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.Delete(ctx, viewer, b.ID))
	_, err = svc.Get(ctx, viewer, b.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, viewer, b.ID), core.ErrNotFound)
}

func TestBusinessRequiresSession(t *testing.T) {
	svc := NewService(newMemRepo())

	_, err := svc.List(context.Background(), nil)
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	_, err = svc.Create(context.Background(), nil, CreateBusinessRequest{Name: "x"})
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestBlankNameRejected(t *testing.T) {
	svc := NewService(newMemRepo())

	_, err := svc.Create(context.Background(), viewer, CreateBusinessRequest{Name: "   "})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestBusinessEndpoints(t *testing.T) {
	svc := NewService(newMemRepo())
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(authz.WithPrincipal(req.Context(), viewer)))
		})
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/businesses", strings.NewReader(`{"name":"Globex"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Globex"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/businesses", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/businesses/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
