package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	TasksCompletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tasks_completed_total",
			Help: "Total number of successfully completed link tasks",
		},
	)

	RewardsPaidTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rewards_paid_total",
			Help: "Sum of rewards credited to balances, in USD",
		},
		[]string{"kind"}, // task | referral
	)

	WithdrawalsRequestedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "withdrawals_requested_total",
			Help: "Total number of withdrawal requests accepted",
		},
	)

	WithdrawalsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "withdrawals_processed_total",
			Help: "Total number of withdrawal requests reviewed by an admin",
		},
		[]string{"decision"}, // approved | rejected
	)
)
