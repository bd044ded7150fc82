// Package telemetry holds the Prometheus metrics and the localhost debug server.
package telemetry

import (
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"strings"
	"time"

	"barrage/internal/config"
	"barrage/internal/game"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics with bounded cardinality
var (
	// Simulation metrics
	stepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "barrage_step_duration_seconds",
		Help:    "Time spent in one simulation step",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.016},
	})

	renderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "barrage_render_duration_seconds",
		Help:    "Time spent rendering a frame",
		Buckets: []float64{0.001, 0.005, 0.01, 0.016, 0.033, 0.1},
	})

	projectileCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "barrage_projectiles",
		Help: "Live projectiles",
	})

	frameCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "barrage_frame",
		Help: "Frame counter of the current run",
	})

	volleysTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "barrage_volleys_total",
		Help: "Volleys fired",
	})

	defeatsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "barrage_defeats_total",
		Help: "Runs ended by a projectile reaching the player",
	})

	culledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "barrage_culled_total",
		Help: "Projectiles removed after leaving the playfield",
	})

	resetsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "barrage_resets_total",
		Help: "Runs restarted",
	})

	// Rejections - use ONLY bounded label values
	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connection_rejected_total",
		Help: "Connections rejected by rate limiter or origin check",
	}, []string{"reason"}) // Bounded: "rate_limit", "origin", "invalid", "ws_limit"

	// HTTP metrics with bounded labels
	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"}) // endpoint is the route pattern, not the full URL

	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	// WebSocket metrics
	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "websocket_connections_active",
		Help: "Currently active WebSocket connections",
	})

	wsMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "websocket_messages_total",
		Help: "WebSocket messages by direction",
	}, []string{"direction"}) // Bounded: "out", "in"
)

// StartDebugServer starts the internal observability server.
// It binds to localhost unless ALLOW_DEBUG_EXTERNAL=true.
func StartDebugServer(cfg config.ObservabilityConfig) error {
	if !cfg.Enabled {
		log.Println("📊 Debug server disabled")
		return nil
	}

	if !isLocalAddr(cfg.ListenAddr) && os.Getenv("ALLOW_DEBUG_EXTERNAL") != "true" {
		log.Println("⚠️ Debug server forced to localhost for security")
		cfg.ListenAddr = config.DefaultObservability().ListenAddr
	}

	go func() {
		log.Printf("📊 Debug server starting on %s", cfg.ListenAddr)
		log.Printf("   - pprof:   http://%s/debug/pprof/", cfg.ListenAddr)
		log.Printf("   - metrics: http://%s/metrics", cfg.ListenAddr)

		if err := http.ListenAndServe(cfg.ListenAddr, DebugHandler()); err != nil {
			log.Printf("⚠️ Debug server error: %v", err)
		}
	}()

	return nil
}

// DebugHandler serves pprof, /metrics and /health
func DebugHandler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return mux
}

func isLocalAddr(addr string) bool {
	return strings.HasPrefix(addr, "127.0.0.1:") || strings.HasPrefix(addr, "localhost:")
}

// RecordFrame records one headless frame
func RecordFrame(fs game.FrameStats) {
	stepDuration.Observe(fs.StepTime.Seconds())
	projectileCount.Set(float64(fs.Projectiles))
	frameCount.Set(float64(fs.Frame))
	if fs.Culled > 0 {
		culledTotal.Add(float64(fs.Culled))
	}
}

// RecordStep records step timing for the windowed client
func RecordStep(duration time.Duration, projectiles, culled int) {
	stepDuration.Observe(duration.Seconds())
	projectileCount.Set(float64(projectiles))
	if culled > 0 {
		culledTotal.Add(float64(culled))
	}
}

// RecordRender records render timing
func RecordRender(duration time.Duration) {
	renderDuration.Observe(duration.Seconds())
}

// RecordVolley counts a fired volley
func RecordVolley(game.VolleyEvent) {
	volleysTotal.Inc()
}

// RecordDefeat counts a defeat
func RecordDefeat(game.DefeatEvent) {
	defeatsTotal.Inc()
}

// RecordReset counts a restarted run
func RecordReset() {
	resetsTotal.Inc()
}

// RegisterEventLogStats exposes event log counters read through stats
func RegisterEventLogStats(stats func() (total, dropped uint64)) {
	promauto.NewCounterFunc(prometheus.CounterOpts{
		Name: "event_log_total",
		Help: "Total events logged",
	}, func() float64 {
		total, _ := stats()
		return float64(total)
	})
	promauto.NewCounterFunc(prometheus.CounterOpts{
		Name: "event_log_dropped_total",
		Help: "Events dropped due to rate limiting or buffer full",
	}, func() float64 {
		_, dropped := stats()
		return float64(dropped)
	})
}

// RecordConnectionRejected increments the rejection counter.
// reason must be one of: "rate_limit", "origin", "invalid", "ws_limit"
func RecordConnectionRejected(reason string) {
	connectionRejected.WithLabelValues(reason).Inc()
}

// RecordRequest records HTTP request metrics
func RecordRequest(method, endpoint string, status int, duration time.Duration) {
	requestLatency.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	requestTotal.WithLabelValues(method, endpoint, http.StatusText(status)).Inc()
}

// UpdateWSConnections updates WebSocket connection count
func UpdateWSConnections(count int) {
	wsConnectionsActive.Set(float64(count))
}

// IncrementWSMessages increments the WebSocket message counter.
// direction must be "out" or "in".
func IncrementWSMessages(direction string) {
	wsMessagesTotal.WithLabelValues(direction).Inc()
}
