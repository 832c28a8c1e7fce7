package router

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/senyabanana/bid-dashboard/internal/models"
	"github.com/senyabanana/bid-dashboard/internal/router/config"
	"github.com/senyabanana/bid-dashboard/internal/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var httpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dashboard_http_requests_total",
		Help: "Total number of requests to the local dashboard API",
	},
	[]string{"method", "endpoint", "status"},
)

// RequireConfig отвечает 503 с текстом ошибки конфигурации, пока она не исправлена.
func RequireConfig(configErr error) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		if configErr == nil {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request) {
			resp := models.NewErrorResponse(http.StatusServiceUnavailable, configErr.Error()).WithCode("configuration")
			var cfgErr *config.ConfigError
			if !errors.As(configErr, &cfgErr) {
				resp.Code = "error"
			}
			utils.SendError(w, resp)
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Metrics считает запросы по шаблону маршрута, а не по сырому пути.
func Metrics(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, pattern := mux.Handler(r)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		mux.ServeHTTP(rec, r)

		endpoint := "unmatched"
		if pattern != "" {
			endpoint = pattern
			if _, path, ok := strings.Cut(pattern, " "); ok {
				endpoint = path
			}
		}
		httpRequestsTotal.WithLabelValues(r.Method, endpoint, strconv.Itoa(rec.status)).Inc()
	})
}
