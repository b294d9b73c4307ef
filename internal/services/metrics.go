package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// rewardTransfers counts payout attempts by action and outcome
	// (success, failed, unconfigured, skipped).
	rewardTransfers = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reward_transfers_total",
			Help: "Reward transfer attempts by action and outcome.",
		},
		[]string{"action", "outcome"},
	)

	// rewardClaims counts ledger decisions by action and result
	// (claimed, already_claimed, lost_race, store_error).
	rewardClaims = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reward_claims_total",
			Help: "Reward ledger decisions by action and result.",
		},
		[]string{"action", "result"},
	)

	// rewardUnpaid is the number of claims recorded without a transaction
	// digest, refreshed by the reconciler.
	rewardUnpaid = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "reward_claims_unpaid",
			Help: "Reward claims recorded without a transaction digest.",
		},
	)
)

func init() {
	prometheus.MustRegister(rewardTransfers, rewardClaims, rewardUnpaid)
}
