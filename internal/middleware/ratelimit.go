// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/carterperez-dev/marketplace-api/internal/authz"
	"github.com/carterperez-dev/marketplace-api/internal/core"
)

// bucket is the outcome of a policy: which counter a request draws from and
// how large it is. role is echoed back in X-RateLimit-Role when set.
type bucket struct {
	key   string
	limit redis_rate.Limit
	role  string
}

type policy func(*http.Request) bucket

// RateLimiter enforces a token bucket in redis. While redis is unreachable
// it counts in process instead, so limits still hold per instance.
type RateLimiter struct {
	redis    *redis_rate.Limiter
	fallback *localLimiter
	policy   policy
}

type RateLimitConfig struct {
	Limit   redis_rate.Limit
	KeyFunc func(*http.Request) string
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = KeyByIP
	}

	return newRateLimiter(rdb, func(r *http.Request) bucket {
		return bucket{key: keyFunc(r), limit: cfg.Limit}
	})
}

func newRateLimiter(rdb *redis.Client, p policy) *RateLimiter {
	return &RateLimiter{
		redis:    redis_rate.NewLimiter(rdb),
		fallback: newLocalLimiter(),
		policy:   p,
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b := rl.policy(r)
		res := rl.allow(r.Context(), b)

		if b.role != "" {
			w.Header().Set("X-RateLimit-Role", b.role)
		}
		setRateLimitHeaders(w, res, b.limit)

		if res.Allowed == 0 {
			writeRateLimitExceeded(w, res)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(ctx context.Context, b bucket) *redis_rate.Result {
	res, err := rl.redis.Allow(ctx, b.key, b.limit)
	if err == nil {
		return res
	}

	slog.WarnContext(ctx, "rate limiter falling back to local bucket",
		"error", err,
		"key", b.key,
	)
	return rl.fallback.allow(b.key, b.limit)
}

type RoleLimit struct {
	RequestsPerMinute int
	BurstSize         int
}

// AnonymousRole keys the limit applied to callers without a principal.
const AnonymousRole = "anonymous"

// DefaultChatLimits bounds assistant traffic per role.
var DefaultChatLimits = map[string]RoleLimit{
	AnonymousRole:              {RequestsPerMinute: 10, BurstSize: 3},
	string(authz.RoleViewer):   {RequestsPerMinute: 20, BurstSize: 5},
	string(authz.RoleEditor):   {RequestsPerMinute: 30, BurstSize: 10},
	string(authz.RoleApprover): {RequestsPerMinute: 30, BurstSize: 10},
	string(authz.RoleAdmin):    {RequestsPerMinute: 60, BurstSize: 20},
}

// RoleRateLimiter sizes the bucket by the caller's role. Authenticated
// callers are counted per user, anonymous ones per client address. It must
// run after the principal is loaded.
func RoleRateLimiter(
	rdb *redis.Client,
	limits map[string]RoleLimit,
) func(http.Handler) http.Handler {
	rl := newRateLimiter(rdb, func(r *http.Request) bucket {
		role, key := AnonymousRole, KeyByIP(r)
		if p := authz.PrincipalFrom(r.Context()); p.Authenticated() {
			role, key = string(p.Role), "ratelimit:user:"+p.UserID
		}

		cfg, ok := limits[role]
		if !ok {
			cfg = limits[AnonymousRole]
		}

		return bucket{
			key:   key + ":endpoint:" + normalizeEndpoint(r.URL.Path),
			limit: PerMinute(cfg.RequestsPerMinute, cfg.BurstSize),
			role:  role,
		}
	})
	return rl.Handler
}

func PerMinute(rate, burst int) redis_rate.Limit {
	return PerWindow(rate, burst, time.Minute)
}

func PerWindow(rate, burst int, window time.Duration) redis_rate.Limit {
	return redis_rate.Limit{Rate: rate, Burst: burst, Period: window}
}

// KeyByIP trusts the last X-Forwarded-For hop, the one appended by our own
// proxy.
func KeyByIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		return "ratelimit:ip:" + strings.TrimSpace(hops[len(hops)-1])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return "ratelimit:ip:" + xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	return "ratelimit:ip:" + host
}

func KeyByUserAndEndpoint(r *http.Request) string {
	key := KeyByIP(r)
	if userID := GetUserID(r.Context()); userID != "" {
		key = "ratelimit:user:" + userID
	}
	return key + ":endpoint:" + normalizeEndpoint(r.URL.Path)
}

// normalizeEndpoint collapses ids so /api/products/<uuid> and
// /api/products/<other uuid> share a bucket.
func normalizeEndpoint(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, part := range parts {
		if isUUID(part) || isNumeric(part) {
			parts[i] = "{id}"
		}
	}
	return "/" + strings.Join(parts, "/")
}

func isUUID(s string) bool {
	return len(s) == 36 && s[8] == '-' && s[13] == '-' && s[18] == '-' && s[23] == '-'
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func setRateLimitHeaders(w http.ResponseWriter, res *redis_rate.Result, limit redis_rate.Limit) {
	h := w.Header()

	h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset",
		strconv.FormatInt(time.Now().Add(res.ResetAfter).Unix(), 10))
	h.Set("RateLimit-Policy",
		fmt.Sprintf("%d;w=%d", limit.Rate, int(limit.Period.Seconds())))
	h.Set("RateLimit",
		fmt.Sprintf("%d;t=%d", res.Remaining, int(res.ResetAfter.Seconds())))
}

func writeRateLimitExceeded(w http.ResponseWriter, res *redis_rate.Result) {
	retryAfter := max(int(res.RetryAfter.Seconds()), 1)

	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	core.JSON(w, http.StatusTooManyRequests, core.ErrorResponse{
		Error: core.ErrorBody{
			Code:    "RATE_LIMITED",
			Message: fmt.Sprintf("Rate limit exceeded. Retry after %d seconds.", retryAfter),
		},
	})
}

const (
	cleanupInterval = 5 * time.Minute
	entryTTL        = 10 * time.Minute
)

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess atomic.Int64
}

type localLimiter struct {
	entries sync.Map
}

func newLocalLimiter() *localLimiter {
	l := &localLimiter{}
	go l.evictIdle()
	return l
}

func (l *localLimiter) evictIdle() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-entryTTL).Unix()
		l.entries.Range(func(key, value any) bool {
			if e, ok := value.(*limiterEntry); ok && e.lastAccess.Load() < cutoff {
				l.entries.Delete(key)
			}
			return true
		})
	}
}

func (l *localLimiter) entry(key string, limit redis_rate.Limit, perSec float64) *limiterEntry {
	if v, ok := l.entries.Load(key); ok {
		return v.(*limiterEntry) //nolint:forcetypeassert // only *limiterEntry is stored
	}

	fresh := &limiterEntry{limiter: rate.NewLimiter(rate.Limit(perSec), limit.Burst)}
	v, _ := l.entries.LoadOrStore(key, fresh)
	return v.(*limiterEntry) //nolint:forcetypeassert // only *limiterEntry is stored
}

func (l *localLimiter) allow(key string, limit redis_rate.Limit) *redis_rate.Result {
	perSec := float64(limit.Rate) / limit.Period.Seconds()

	e := l.entry(key, limit, perSec)
	e.lastAccess.Store(time.Now().Unix())

	res := &redis_rate.Result{
		Limit:      limit,
		Remaining:  max(int(e.limiter.Tokens()), 0),
		RetryAfter: -1,
		ResetAfter: time.Duration(float64(time.Second) / perSec),
	}

	if e.limiter.Allow() {
		res.Allowed = 1
		res.Remaining = max(int(e.limiter.Tokens()), 0)
		return res
	}

	res.RetryAfter = res.ResetAfter
	return res
}
