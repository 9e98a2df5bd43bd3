package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ideauto/magicauth/internal/health"
)

var (
	// Auth flow metrics

	MagicLinksRequested = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "magicauth",
		Name:      "magic_links_requested_total",
		Help:      "Magic-link requests, by outcome.",
	}, []string{"outcome"})

	EmailsSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "magicauth",
		Name:      "emails_sent_total",
		Help:      "Delivery attempts, by provider and outcome.",
	}, []string{"provider", "outcome"})

	Verifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "magicauth",
		Name:      "verifications_total",
		Help:      "Magic-link verifications, by outcome.",
	}, []string{"outcome"})

	SessionsIssued = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "magicauth",
		Name:      "sessions_issued_total",
		Help:      "Session tokens minted after successful verification.",
	})

	// Janitor metrics

	JanitorPurged = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "magicauth",
		Name:      "janitor_purged_total",
		Help:      "Consumed-token records purged after expiry.",
	})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "magicauth",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "magicauth",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		MagicLinksRequested,
		EmailsSent,
		Verifications,
		SessionsIssued,
		JanitorPurged,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Readiness(r.Context()))
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealth(w http.ResponseWriter, result health.HealthResult) {
	w.Header().Set("Content-Type", "application/json")
	if result.Status != "up" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(result)
}
