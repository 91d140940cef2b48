// AngelaMos | 2026
// handler.go

// Package admin serves the operator back office: marketplace counts, pool
// statistics and bulk maintenance actions. Every route requires an admin.
package admin

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/marketplace-api/internal/core"
)

type ProductApprover interface {
	ForceApprove(ctx context.Context, ids []string) (int, error)
}

type TokenPruner interface {
	PruneExpired(ctx context.Context, before time.Time) (int64, error)
}

type HandlerConfig struct {
	Repo       Repository
	Products   ProductApprover
	Tokens     TokenPruner
	DBStats    func() sql.DBStats
	RedisStats func() *redis.PoolStats
	DBPing     func(ctx context.Context) error
	RedisPing  func(ctx context.Context) error
}

type Handler struct {
	cfg       HandlerConfig
	validator *validator.Validate
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		cfg:       cfg,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/stats", h.GetSystemStats)
		r.Get("/stats/marketplace", h.GetMarketplaceStats)
		r.Get("/stats/db", h.GetDatabaseStats)
		r.Get("/stats/redis", h.GetRedisStats)
		r.Get("/stats/runtime", h.GetRuntimeStats)
		r.Post("/products/approve", h.ApproveProducts)
		r.Post("/tokens/prune", h.PruneTokens)
	})
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	response := SystemStatsResponse{
		Database: DatabaseStatus{
			Healthy: pingOK(ctx, h.cfg.DBPing),
			Stats:   h.dbStats(),
		},
		Redis: RedisStatus{
			Healthy: pingOK(ctx, h.cfg.RedisPing),
			Stats:   h.redisStats(),
		},
		Runtime: runtimeStats(),
	}

	if response.Database.Healthy && h.cfg.Repo != nil {
		stats, err := h.cfg.Repo.MarketplaceStats(ctx)
		if err != nil {
			slog.WarnContext(ctx, "marketplace stats unavailable", "error", err)
		}
		response.Marketplace = stats
	}

	core.OK(w, response)
}

func (h *Handler) GetMarketplaceStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.cfg.Repo.MarketplaceStats(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, stats)
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, h.dbStats())
}

func (h *Handler) GetRedisStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, h.redisStats())
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, runtimeStats())
}

// ApproveProducts is the bulk approval action. It reports how many products
// were approved before the first failure.
func (h *Handler) ApproveProducts(w http.ResponseWriter, r *http.Request) {
	var req ApproveRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	n, err := h.cfg.Products.ForceApprove(r.Context(), req.IDs)
	if err != nil {
		core.ServiceError(w, err, "product")
		return
	}

	core.OK(w, ApproveResponse{Approved: n})
}

func (h *Handler) PruneTokens(w http.ResponseWriter, r *http.Request) {
	n, err := h.cfg.Tokens.PruneExpired(r.Context(), time.Now())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, PruneResponse{Deleted: n})
}

func pingOK(ctx context.Context, ping func(context.Context) error) bool {
	if ping == nil {
		return false
	}
	return ping(ctx) == nil
}

func (h *Handler) dbStats() *DBPoolStats {
	if h.cfg.DBStats == nil {
		return nil
	}

	stats := h.cfg.DBStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
	}
}

func (h *Handler) redisStats() *RedisPoolStats {
	if h.cfg.RedisStats == nil {
		return nil
	}

	stats := h.cfg.RedisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
	}
}

func runtimeStats() RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		MemAlloc:     mem.Alloc,
		NumGC:        mem.NumGC,
	}
}
