// Package metrics exposes Prometheus collectors for the auction service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var eventsPublished = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "auction_events_published_total",
	},
	[]string{"event", "result"},
)

var bidsSubmitted = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "auction_bids_total",
	},
	[]string{"result"},
)

var settlementDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "auction_settlement_duration_seconds",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
	},
	[]string{"status"},
)

var blockDueAuctions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "auction_block_due_auctions",
	},
)

func EventPublished(event string, err error) {
	eventsPublished.With(map[string]string{"event": event, "result": result(err)}).Inc()
}

func BidSubmitted(err error) {
	bidsSubmitted.With(map[string]string{"result": result(err)}).Inc()
}

// SettlementObserved records how long a Settle call took, labelled by the
// resulting auction status or "error".
func SettlementObserved(status string, took time.Duration) {
	settlementDuration.With(map[string]string{"status": status}).Observe(took.Seconds())
}

func BlockDueAuctions(n int) {
	blockDueAuctions.Set(float64(n))
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
