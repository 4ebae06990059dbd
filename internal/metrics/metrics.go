// Package metrics registers the Prometheus instruments exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/fx"
)

var Module = fx.Provide(New)

type Metrics struct {
	registry *prometheus.Registry

	InvoicesComputed        *prometheus.CounterVec
	DuplicateBillRejections prometheus.Counter
	BalanceLookupFailures   prometheus.Counter
	LedgerPostings          *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		InvoicesComputed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medinv",
			Name:      "invoices_computed_total",
			Help:      "Invoice totals computations, by invoice type.",
		}, []string{"type"}),
		DuplicateBillRejections: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "medinv",
			Name:      "duplicate_bill_rejections_total",
			Help:      "Purchase invoice saves rejected by the supplier bill number guard.",
		}),
		BalanceLookupFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "medinv",
			Name:      "balance_lookup_failures_total",
			Help:      "Balance summary lookups that degraded to safe defaults.",
		}),
		LedgerPostings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medinv",
			Name:      "ledger_postings_total",
			Help:      "Ledger postings written, by direction of lifecycle (post, reverse).",
		}, []string{"action"}),
	}
}

// Registry exposes the backing registry for the metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
