package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by route template, method and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gramm_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"route", "method", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gramm_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	// AccountTransitions counts lifecycle outcomes such as registered, activated, expired.
	AccountTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gramm_account_transitions_total",
		Help: "Account lifecycle transitions by outcome",
	}, []string{"transition"})

	// GraphToggles counts like and follow toggles by resulting state.
	GraphToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gramm_graph_toggles_total",
		Help: "Like and follow toggles by kind and resulting state",
	}, []string{"kind", "state"})

	MailFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gramm_mail_failures_total",
		Help: "Notices that could not be delivered",
	})

	WebhookCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gramm_webhook_calls_total",
		Help: "Thumbnail webhook calls by status code",
	}, []string{"status"})
)

func ObserveRequest(route, method string, status int, start time.Time) {
	HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
}

func RecordTransition(transition string) {
	AccountTransitions.WithLabelValues(transition).Inc()
}

func RecordToggle(kind string, on bool) {
	state := "off"
	if on {
		state = "on"
	}
	GraphToggles.WithLabelValues(kind, state).Inc()
}
