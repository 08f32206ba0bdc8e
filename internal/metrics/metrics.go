// Package metrics exposes Prometheus counters for the assistant operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "smartsdlc"

// Outcome labels for GenerationsTotal. Fault outcomes use the fault kind.
const (
	OutcomeOK = "ok"
)

var (
	// GenerationsTotal counts assistant operations by operation kind and
	// outcome ("ok" or a fault kind).
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Total number of assistant generation operations",
		},
		[]string{"operation", "outcome"},
	)

	// ClassificationParseFailures counts classification responses that did
	// not contain a parseable JSON object.
	ClassificationParseFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classification_parse_failures_total",
			Help:      "Total number of classification responses without valid JSON",
		},
	)
)
