// Package metrics exposes the Prometheus collectors used across the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gowaffles"

// Metrics groups the service collectors
type Metrics struct {
	CatalogFetches     *prometheus.CounterVec
	CatalogEntries     prometheus.Gauge
	CatalogFetchedAt   prometheus.Gauge
	IntentDecisions    *prometheus.CounterVec
	CompletionRequests *prometheus.CounterVec
	Replies            *prometheus.CounterVec
	TelegramSends      *prometheus.CounterVec
}

// New registers all collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		CatalogFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_fetches_total",
			Help:      "Remote menu fetch attempts by result.",
		}, []string{"result"}),
		CatalogEntries: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_entries",
			Help:      "Number of products in the cached menu snapshot.",
		}),
		CatalogFetchedAt: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_fetched_timestamp_seconds",
			Help:      "Unix time of the cached menu snapshot.",
		}),
		IntentDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intent_decisions_total",
			Help:      "Menu intent decisions by classification path and outcome.",
		}, []string{"path", "menu"}),
		CompletionRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completion_requests_total",
			Help:      "Chat completion calls by purpose and result.",
		}, []string{"purpose", "result"}),
		Replies: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replies_total",
			Help:      "Composed replies by branch and outcome.",
		}, []string{"branch", "outcome"}),
		TelegramSends: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "telegram_sends_total",
			Help:      "Telegram sendMessage calls by result.",
		}, []string{"result"}),
	}
}

// NewNop returns collectors registered on a private registry, handy for tests
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
