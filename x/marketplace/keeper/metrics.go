package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MarketplaceMetrics holds all Prometheus metrics for the Marketplace module
type MarketplaceMetrics struct {
	// Job metrics
	JobsPosted    prometheus.Counter
	JobsClaimed   *prometheus.CounterVec
	JobsCompleted *prometheus.CounterVec
	JobsCancelled prometheus.Counter
	JobsExpired   prometheus.Counter
	JobsOpen      prometheus.Gauge

	// Escrow metrics
	EscrowLocked   *prometheus.CounterVec
	EscrowReleased *prometheus.CounterVec
	EscrowRefunded *prometheus.CounterVec
	FeesCollected  *prometheus.CounterVec

	// Node metrics
	NodesRegistered   prometheus.Counter
	NodesUnregistered prometheus.Counter
	NodesActive       prometheus.Gauge

	// Proof metrics
	ProofsVerified prometheus.Counter
	ProofsRejected *prometheus.CounterVec
}

var (
	marketplaceMetricsOnce sync.Once
	marketplaceMetrics     *MarketplaceMetrics
)

// NewMarketplaceMetrics creates and registers Marketplace metrics (singleton pattern)
func NewMarketplaceMetrics() *MarketplaceMetrics {
	marketplaceMetricsOnce.Do(func() {
		marketplaceMetrics = &MarketplaceMetrics{
			JobsPosted: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "lattice",
					Subsystem: "marketplace",
					Name:      "jobs_posted_total",
					Help:      "Total jobs posted",
				},
			),
			JobsClaimed: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "lattice",
					Subsystem: "marketplace",
					Name:      "jobs_claimed_total",
					Help:      "Total jobs claimed by providers",
				},
				[]string{"provider"},
			),
			JobsCompleted: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "lattice",
					Subsystem: "marketplace",
					Name:      "jobs_completed_total",
					Help:      "Total jobs completed",
				},
				[]string{"provider"},
			),
			JobsCancelled: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "lattice",
					Subsystem: "marketplace",
					Name:      "jobs_cancelled_total",
					Help:      "Total jobs cancelled by requesters",
				},
			),
			JobsExpired: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "lattice",
					Subsystem: "marketplace",
					Name:      "jobs_expired_total",
					Help:      "Total claimed jobs expired past deadline",
				},
			),
			JobsOpen: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "lattice",
					Subsystem: "marketplace",
					Name:      "jobs_open",
					Help:      "Jobs currently in posted or claimed status",
				},
			),
			EscrowLocked: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "lattice",
					Subsystem: "marketplace",
					Name:      "escrow_locked_total",
					Help:      "Total value locked into escrow",
				},
				[]string{"denom"},
			),
			EscrowReleased: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "lattice",
					Subsystem: "marketplace",
					Name:      "escrow_released_total",
					Help:      "Total escrow value released to providers",
				},
				[]string{"denom"},
			),
			EscrowRefunded: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "lattice",
					Subsystem: "marketplace",
					Name:      "escrow_refunded_total",
					Help:      "Total escrow value refunded to requesters",
				},
				[]string{"denom"},
			),
			FeesCollected: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "lattice",
					Subsystem: "marketplace",
					Name:      "fees_collected_total",
					Help:      "Total marketplace fees sent to the treasury",
				},
				[]string{"denom"},
			),
			NodesRegistered: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "lattice",
					Subsystem: "marketplace",
					Name:      "nodes_registered_total",
					Help:      "Total node registrations",
				},
			),
			NodesUnregistered: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "lattice",
					Subsystem: "marketplace",
					Name:      "nodes_unregistered_total",
					Help:      "Total node unregistrations",
				},
			),
			NodesActive: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "lattice",
					Subsystem: "marketplace",
					Name:      "nodes_active",
					Help:      "Currently active nodes",
				},
			),
			ProofsVerified: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "lattice",
					Subsystem: "marketplace",
					Name:      "proofs_verified_total",
					Help:      "Total completion proofs accepted",
				},
			),
			ProofsRejected: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "lattice",
					Subsystem: "marketplace",
					Name:      "proofs_rejected_total",
					Help:      "Total completion proofs rejected",
				},
				[]string{"reason"},
			),
		}
	})
	return marketplaceMetrics
}
