// Package metrics instrumenta las llamadas a la plataforma de salud con Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"temperature-history/internal/ports/healthplatform"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "temperature_history"

type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	records  *prometheus.CounterVec
}

// New registra las métricas en reg (nil => registry nuevo).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Metrics{
		calls: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "platform_calls_total",
				Help:      "Health platform calls by operation and outcome.",
			},
			[]string{"op", "outcome"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "platform_call_duration_seconds",
				Help:      "Health platform call latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		records: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "platform_records_total",
				Help:      "Records inserted, read or deleted through the platform.",
			},
			[]string{"op"},
		),
	}
}

// Handler expone el registry para /metrics.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Instrument envuelve un Client contando llamadas, errores y latencia.
func (m *Metrics) Instrument(next healthplatform.Client) healthplatform.Client {
	return &instrumented{next: next, m: m}
}

type instrumented struct {
	next healthplatform.Client
	m    *Metrics
}

func (c *instrumented) IsAvailable() bool {
	start := time.Now()
	ok := c.next.IsAvailable()
	outcome := "available"
	if !ok {
		outcome = "unavailable"
	}
	c.m.observe("availability", start, outcome)
	return ok
}

func (c *instrumented) GrantedPermissions(ctx context.Context) ([]string, error) {
	start := time.Now()
	out, err := c.next.GrantedPermissions(ctx)
	c.m.observe("granted_permissions", start, outcome(err))
	return out, err
}

func (c *instrumented) InsertRecords(ctx context.Context, records []healthplatform.Record) ([]string, error) {
	start := time.Now()
	ids, err := c.next.InsertRecords(ctx, records)
	c.m.observe("insert", start, outcome(err))
	c.m.records.WithLabelValues("insert").Add(float64(len(ids)))
	return ids, err
}

func (c *instrumented) ReadRecords(ctx context.Context, recordType healthplatform.RecordType, tr healthplatform.TimeRange) ([]healthplatform.Record, error) {
	start := time.Now()
	out, err := c.next.ReadRecords(ctx, recordType, tr)
	c.m.observe("read", start, outcome(err))
	c.m.records.WithLabelValues("read").Add(float64(len(out)))
	return out, err
}

func (c *instrumented) DeleteRecords(ctx context.Context, recordType healthplatform.RecordType, ids []string) error {
	start := time.Now()
	err := c.next.DeleteRecords(ctx, recordType, ids)
	c.m.observe("delete", start, outcome(err))
	if err == nil {
		c.m.records.WithLabelValues("delete").Add(float64(len(ids)))
	}
	return err
}

func (m *Metrics) observe(op string, start time.Time, outcome string) {
	m.calls.WithLabelValues(op, outcome).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, healthplatform.ErrPermissionNotGranted):
		return "permission_denied"
	case errors.Is(err, healthplatform.ErrRecordNotFound):
		return "not_found"
	case errors.Is(err, healthplatform.ErrUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}
