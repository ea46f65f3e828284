// Package metrics holds the Prometheus collectors for table family
// operations. Collectors register with the default registry.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mesh-intelligence/tableswap/pkg/types"
)

// Result label values.
const (
	ResultSuccess      = "success"
	ResultPrecondition = "precondition_failed"
	ResultError        = "error"
)

var (
	Promotions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tableswap_promotions_total",
		Help: "Total number of temporary table promotions by result.",
	}, []string{"result"})

	PromotionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tableswap_promotion_duration_seconds",
		Help:    "Duration of temporary table promotions, including the precondition check.",
		Buckets: prometheus.DefBuckets,
	})

	Teardowns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tableswap_teardowns_total",
		Help: "Total number of table family teardowns by result.",
	}, []string{"result"})

	TablesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tableswap_tables_created_total",
		Help: "Total number of tables created by family slot.",
	}, []string{"slot"})

	HandlesRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tableswap_handles_registered_total",
		Help: "Total number of data-access handles added to a registry.",
	})
)

// Result maps an operation error to its result label.
func Result(err error) string {
	switch {
	case err == nil:
		return ResultSuccess
	case errors.Is(err, types.ErrTemporaryTableNotExist):
		return ResultPrecondition
	default:
		return ResultError
	}
}
