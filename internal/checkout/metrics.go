package checkout

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	flowsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_flows_started_total",
		Help: "Checkout flows created",
	})

	paymentsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_payments_submitted_total",
			Help: "Payment submissions by method and outcome",
		},
		[]string{"method", "outcome"},
	)

	paymentsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_payments_completed_total",
		Help: "Flows that reached the success screen",
	})

	receiptsDownloaded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_receipts_downloaded_total",
		Help: "Receipt files handed to the client",
	})
)
