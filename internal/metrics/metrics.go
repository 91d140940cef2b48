// AngelaMos | 2026
// metrics.go

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Chat response modes.
const (
	ChatDemo      = "demo"
	ChatGenerated = "generated"
	ChatIntent    = "intent"
	ChatFallback  = "fallback"
	ChatApology   = "apology"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "marketplace_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	chatResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_chat_responses_total",
		Help: "Assistant replies by how they were produced",
	}, []string{"mode"})

	productApprovals = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_product_approvals_total",
		Help: "Products moved to the approved status",
	})
)

func ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

func ObserveChatResponse(mode string) {
	chatResponses.WithLabelValues(mode).Inc()
}

func ObserveApproval() {
	productApprovals.Inc()
}

// Middleware records request count and latency labelled by the matched chi
// route pattern rather than the raw path.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		ObserveHTTPRequest(r.Method, route, strconv.Itoa(status), time.Since(start))
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
