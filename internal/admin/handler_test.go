// AngelaMos | 2026
// handler_test.go

package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	stats *MarketplaceStats
	err   error
}

func (s stubRepo) MarketplaceStats(context.Context) (*MarketplaceStats, error) {
	return s.stats, s.err
}

type stubApprover struct {
	ids []string
}

func (s *stubApprover) ForceApprove(_ context.Context, ids []string) (int, error) {
	s.ids = ids
	return len(ids), nil
}

type stubPruner struct {
	before time.Time
}

func (s *stubPruner) PruneExpired(_ context.Context, before time.Time) (int64, error) {
	s.before = before
	return 3, nil
}

func passthrough(next http.Handler) http.Handler { return next }

func newRouter(cfg HandlerConfig) chi.Router {
	r := chi.NewRouter()
	NewHandler(cfg).RegisterRoutes(r, passthrough, passthrough)
	return r
}

func TestSystemStats(t *testing.T) {
	stats := &MarketplaceStats{
		Businesses:       2,
		Products:         5,
		ProductsByStatus: map[string]int64{"draft": 3, "approved": 2},
		UsersByRole:      map[string]int64{"admin": 1},
	}

	r := newRouter(HandlerConfig{
		Repo:      stubRepo{stats: stats},
		DBPing:    func(context.Context) error { return nil },
		RedisPing: func(context.Context) error { return errors.New("down") },
		DBStats:   func() sql.DBStats { return sql.DBStats{OpenConnections: 4} },
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got SystemStatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Database.Healthy)
	assert.False(t, got.Redis.Healthy)
	assert.Nil(t, got.Redis.Stats)
	require.NotNil(t, got.Database.Stats)
	assert.Equal(t, 4, got.Database.Stats.OpenConnections)
	require.NotNil(t, got.Marketplace)
	assert.Equal(t, int64(2), got.Marketplace.ProductsByStatus["approved"])
	assert.NotEmpty(t, got.Runtime.GoVersion)
}

func TestMarketplaceStatsFailure(t *testing.T) {
	r := newRouter(HandlerConfig{Repo: stubRepo{err: errors.New("boom")}})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/stats/marketplace", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestBulkApprove(t *testing.T) {
	approver := &stubApprover{}
	r := newRouter(HandlerConfig{Products: approver})

	body := `{"ids":["0b6f8a52-2f0e-4a5e-9a57-1e0f2f9c0a01","0b6f8a52-2f0e-4a5e-9a57-1e0f2f9c0a02"]}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/products/approve", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"approved":2}`, rec.Body.String())
	assert.Len(t, approver.ids, 2)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/products/approve", strings.NewReader(`{"ids":["nope"]}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/products/approve", strings.NewReader(`{"ids":[]}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPruneTokens(t *testing.T) {
	pruner := &stubPruner{}
	r := newRouter(HandlerConfig{Tokens: pruner})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/tokens/prune", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":3}`, rec.Body.String())
	assert.WithinDuration(t, time.Now(), pruner.before, time.Minute)
}
