// Package metrics exposes Prometheus metrics for decisions, requests, ingest
// runs and the catalog itself.
package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/erazemk/pawswipe/internal/store"
)

const namespace = "pawswipe"

// collectTimeout bounds the catalog query made on every scrape.
const collectTimeout = 5 * time.Second

// Metrics holds the registry and the instruments updated by the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	Decisions      *prometheus.CounterVec
	Requests       *prometheus.HistogramVec
	IngestedPets   *prometheus.CounterVec
	IngestFailures *prometheus.CounterVec
}

// New creates a registry with the Go and process collectors, the application
// instruments and a collector reporting the catalog partition sizes from db.
func New(db *sql.DB) *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Heart and skip decisions recorded.",
		}, []string{"kind"}),
		Requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "code"}),
		IngestedPets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "pets_total",
			Help:      "Pets stored by ingest runs.",
		}, []string{"result"}),
		IngestFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "failures_total",
			Help:      "Animal types that could not be fetched.",
		}, []string{"type"}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Decisions,
		m.Requests,
		m.IngestedPets,
		m.IngestFailures,
		&catalogCollector{db: db},
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{
		ErrorLog:      errorLogger{},
		ErrorHandling: promhttp.ContinueOnError,
	})
}

// Instrument records the latency of every request served by next.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return promhttp.InstrumentHandlerDuration(m.Requests, next)
}

// ObserveDecision counts one heart or skip.
func (m *Metrics) ObserveDecision(kind string) {
	if m == nil {
		return
	}
	m.Decisions.WithLabelValues(kind).Inc()
}

// ObserveIngest counts the pets stored by one batch.
func (m *Metrics) ObserveIngest(inserted, updated int) {
	if m == nil {
		return
	}
	m.IngestedPets.WithLabelValues("inserted").Add(float64(inserted))
	m.IngestedPets.WithLabelValues("updated").Add(float64(updated))
}

// ObserveIngestFailure counts an animal type that could not be fetched.
func (m *Metrics) ObserveIngestFailure(petType string) {
	if m == nil {
		return
	}
	m.IngestFailures.WithLabelValues(petType).Inc()
}

// catalogCollector reports how many pets sit in each status at scrape time.
type catalogCollector struct {
	db *sql.DB
}

var catalogDesc = prometheus.NewDesc(
	prometheus.BuildFQName(namespace, "catalog", "pets"),
	"Pets in the catalog by decision status.",
	[]string{"status"}, nil,
)

func (c *catalogCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- catalogDesc
}

func (c *catalogCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), collectTimeout)
	defer cancel()

	counts, err := store.CountByStatus(ctx, c.db)
	if err != nil {
		ch <- prometheus.NewInvalidMetric(catalogDesc, fmt.Errorf("counting pets: %w", err))
		return
	}

	ch <- prometheus.MustNewConstMetric(catalogDesc, prometheus.GaugeValue, float64(counts.Undecided), "undecided")
	ch <- prometheus.MustNewConstMetric(catalogDesc, prometheus.GaugeValue, float64(counts.Hearted), "hearted")
	ch <- prometheus.MustNewConstMetric(catalogDesc, prometheus.GaugeValue, float64(counts.Skipped), "skipped")
}

// errorLogger implements promhttp.Logger.
type errorLogger struct{}

func (errorLogger) Println(v ...any) {
	slog.Error("failed to serve metrics", "error", fmt.Sprint(v...))
}
