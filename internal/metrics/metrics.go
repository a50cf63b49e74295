package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	CallbacksReceivedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payment_callbacks_received_total",
			Help: "Total number of payment callbacks received",
		},
	)

	CallbacksAcknowledgedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payment_callbacks_acknowledged_total",
			Help: "Total number of payment callbacks acknowledged with a 2xx response",
		},
	)

	CallbacksRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_callbacks_rejected_total",
			Help: "Total number of payment callbacks rejected before persistence",
		},
		[]string{"reason"},
	)

	SignatureSkippedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "signature_verification_skipped_total",
			Help: "Total number of callbacks accepted without signature verification because no secret is configured",
		},
	)

	StoreWriteFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_store_write_failures_total",
			Help: "Total number of failed notification store writes",
		},
		[]string{"reason"},
	)

	PendingWritesDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_pending_writes_dropped_total",
			Help: "Total number of failed writes dropped because the retry queue was full",
		},
	)

	CallbackProcessingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "payment_callback_processing_duration_seconds",
			Help:    "Duration of payment callback processing",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func Register() {
	prometheus.MustRegister(CallbacksReceivedTotal)
	prometheus.MustRegister(CallbacksAcknowledgedTotal)
	prometheus.MustRegister(CallbacksRejectedTotal)
	prometheus.MustRegister(SignatureSkippedTotal)
	prometheus.MustRegister(StoreWriteFailuresTotal)
	prometheus.MustRegister(PendingWritesDroppedTotal)
	prometheus.MustRegister(CallbackProcessingDuration)
}
