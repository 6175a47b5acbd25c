package metrics

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	clientRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bazaarku",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Backend requests by endpoint template, method and status class.",
		},
		[]string{"endpoint", "method", "status"},
	)

	clientDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bazaarku",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Backend request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint", "method"},
	)

	serverRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bazaarku",
			Subsystem: "server",
			Name:      "requests_total",
			Help:      "Requests served by the mock backend by route, method and status class.",
		},
		[]string{"route", "method", "status"},
	)

	serverDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bazaarku",
			Subsystem: "server",
			Name:      "request_duration_seconds",
			Help:      "Mock backend handler latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	sessionExpirations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bazaarku",
			Subsystem: "session",
			Name:      "expirations_total",
			Help:      "Forced logouts by trigger reason.",
		},
		[]string{"reason"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(clientRequests, clientDuration, serverRequests, serverDuration, sessionExpirations)
	})
}

var numericSegment = regexp.MustCompile(`^[0-9]+$`)

// EndpointTemplate collapses numeric path segments so /events/12 and
// /events/13 share the label /events/:id.
func EndpointTemplate(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if numericSegment.MatchString(p) {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}

// StatusClass maps a status code to 2xx/4xx/...; 0 means no response.
func StatusClass(code int) string {
	if code <= 0 {
		return "network_error"
	}
	return strconv.Itoa(code/100) + "xx"
}

// ObserveRequest records one backend round trip.
func ObserveRequest(path, method string, status int, dur time.Duration) {
	endpoint := EndpointTemplate(path)
	clientRequests.WithLabelValues(endpoint, method, StatusClass(status)).Inc()
	clientDuration.WithLabelValues(endpoint, method).Observe(dur.Seconds())
}

// ObserveServerRequest records one request handled by the mock backend.
// route is the router pattern; an empty one falls back to the path template.
func ObserveServerRequest(route, path, method string, status int, dur time.Duration) {
	if route == "" {
		route = EndpointTemplate(path)
	}
	serverRequests.WithLabelValues(route, method, StatusClass(status)).Inc()
	serverDuration.WithLabelValues(route, method).Observe(dur.Seconds())
}

// WriteTextfile dumps every registered series to path in the text
// exposition format, for short-lived processes.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

func IncSessionExpired(reason string) {
	sessionExpirations.WithLabelValues(reason).Inc()
}
