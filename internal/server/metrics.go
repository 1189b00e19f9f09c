package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/verte-zerg/charfit/internal/measure"
	"github.com/verte-zerg/charfit/internal/stats"
	"github.com/verte-zerg/charfit/internal/usage"
)

type metrics struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	calculations *prometheus.CounterVec
	usage        prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "charfit_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"endpoint", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "charfit_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"endpoint"},
		),
		calculations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "charfit_calculations_total",
				Help: "Total number of completed capacity calculations",
			},
			[]string{"mode"}, // mode: custom|generic
		),
		usage: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "charfit_usage_count",
				Help: "Last observed value of the shared usage counter",
			},
		),
	}
}

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// instrument maps handler errors to status codes and records request metrics.
func (s *Server) instrument(endpoint string, h handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		status := http.StatusOK
		if err := h(w, r); err != nil {
			status = statusFor(err)
			if status >= http.StatusInternalServerError {
				s.log.Error("request failed",
					slog.String("endpoint", endpoint),
					slog.Any("error", err),
				)
			} else {
				s.log.Debug("request rejected",
					slog.String("endpoint", endpoint),
					slog.Any("error", err),
				)
			}
			writeJSON(w, status, map[string]string{"error": err.Error()})
		}
		s.metrics.requests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
		s.metrics.duration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, stats.ErrEmptyCorpus),
		errors.Is(err, stats.ErrBaseNotProcessed):
		return http.StatusBadRequest
	case errors.Is(err, stats.ErrNotReady),
		errors.Is(err, stats.ErrDegenerateWidth),
		errors.Is(err, measure.ErrUnknownChar):
		return http.StatusUnprocessableEntity
	case errors.Is(err, usage.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
