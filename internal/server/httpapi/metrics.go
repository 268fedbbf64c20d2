package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/entrust/internal/assistant"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build several servers.
type Metrics struct {
	registry         *prometheus.Registry
	requests         *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	cardExports      *prometheus.CounterVec
	assistantReplies *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "entrust_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code",
		}, []string{"method", "route", "code"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "entrust_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		cardExports: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "entrust_card_exports_total",
			Help: "Card artifacts served or published, by format and result",
		}, []string{"format", "result"}),
		assistantReplies: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "entrust_assistant_replies_total",
			Help: "Assistant replies by outcome (generated or one of the fallbacks)",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// AssistantObserver feeds assistant outcomes into the replies counter.
func (m *Metrics) AssistantObserver() assistant.Observer {
	return func(o assistant.Outcome) {
		m.assistantReplies.WithLabelValues(string(o)).Inc()
	}
}

func (m *Metrics) observeCard(format string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.cardExports.WithLabelValues(format, result).Inc()
}

// Middleware records count and latency per chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
