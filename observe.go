package dispatch

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus metrics registry and dispatch meters.
type Metrics struct {
	Registry        *prometheus.Registry
	RequestDuration *prometheus.HistogramVec
	RequestTotal    *prometheus.CounterVec
	ResponseBytes   *prometheus.CounterVec
	InFlight        prometheus.Gauge
}

// NewMetrics creates a custom Prometheus registry with standard dispatch
// metrics. Expose it with promhttp.HandlerFor(m.Registry, ...).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dispatch_request_duration_seconds",
		Help:    "Duration of dispatched requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "status"})

	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_requests_total",
		Help: "Total number of dispatched requests.",
	}, []string{"method", "status"})

	respBytes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_response_bytes_total",
		Help: "Total bytes written in response bodies.",
	}, []string{"method"})

	inFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dispatch_in_flight_requests",
		Help: "Number of dispatches currently running.",
	})

	reg.MustRegister(duration, total, respBytes, inFlight)

	return &Metrics{
		Registry:        reg,
		RequestDuration: duration,
		RequestTotal:    total,
		ResponseBytes:   respBytes,
		InFlight:        inFlight,
	}
}

// Observe returns a layer that records every dispatch into m.
func Observe(m *Metrics) Layer {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, r *Request, s *State) *Response {
			start := time.Now()
			m.InFlight.Inc()
			defer m.InFlight.Dec()
			resp := next.Call(ctx, r, s)

			method := r.Parts().Method
			status := strconv.Itoa(resp.Status)
			m.RequestDuration.WithLabelValues(method, status).Observe(time.Since(start).Seconds())
			m.RequestTotal.WithLabelValues(method, status).Inc()
			m.ResponseBytes.WithLabelValues(method).Add(float64(len(resp.Body)))
			return resp
		})
	}
}
