package apiclient

import (
	"regexp"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	backendReqTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_backend_requests_total",
		Help: "Total requests sent to the marketplace backend",
	}, []string{"method", "route", "status"})

	backendLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dashboard_backend_request_duration_seconds",
		Help:    "Marketplace backend latency",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15},
	}, []string{"method", "route"})
)

var idSegment = regexp.MustCompile(`\d`)

// routeLabel заменяет сегменты с идентификаторами на ":id", чтобы не раздувать кардинальность метрик.
func routeLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		if idSegment.MatchString(segment) {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}
