package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fixtures"

// Collector groups the engine's Prometheus series. A nil *Collector is valid and records nothing.
type Collector struct {
	schedulesGenerated *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	roundsAdvanced     prometheus.Counter
	advanceNotReady    prometheus.Counter
}

func NewCollector(registry *prometheus.Registry) *Collector {
	c := &Collector{
		schedulesGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedules_generated_total",
			Help:      "Schedules committed, by competition format.",
		}, []string{"format"}),
		generationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Time spent generating and persisting a schedule.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"format"}),
		roundsAdvanced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_advanced_total",
			Help:      "Knockout rounds created by advancement.",
		}),
		advanceNotReady: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "advance_not_ready_total",
			Help:      "Advancement attempts rejected because results were missing or unconfirmed.",
		}),
	}
	registry.MustRegister(c.schedulesGenerated, c.generationDuration, c.roundsAdvanced, c.advanceNotReady)
	return c
}

func (c *Collector) ScheduleGenerated(format string, took time.Duration) {
	if c == nil {
		return
	}
	c.schedulesGenerated.WithLabelValues(format).Inc()
	c.generationDuration.WithLabelValues(format).Observe(took.Seconds())
}

func (c *Collector) RoundAdvanced() {
	if c == nil {
		return
	}
	c.roundsAdvanced.Inc()
}

func (c *Collector) AdvanceNotReady() {
	if c == nil {
		return
	}
	c.advanceNotReady.Inc()
}

// Handler exposes the registry in the Prometheus text format.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}
