package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders created",
	})

	OrdersCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_cancelled_total",
		Help: "Total number of cancelled orders",
	})

	CheckoutFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failed_total",
		Help: "Total number of failed checkout attempts",
	}, []string{"reason"})

	CheckoutLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_latency_seconds",
		Help:    "Latency of order creation",
		Buckets: prometheus.DefBuckets,
	})

	PaymentAttemptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_attempts_total",
		Help: "Total number of payment gateway attempts",
	})

	PaymentDeclinedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_declined_total",
		Help: "Total number of declined gateway payments",
	})

	SignatureMismatchTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_signature_mismatch_total",
		Help: "Total number of failed payment signature verifications",
	})

	WalletConnectsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wallet_connects_total",
		Help: "Total number of wallet connections",
	})

	WalletDebitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wallet_debits_total",
		Help: "Total number of completed wallet debits",
	})

	WalletDebitsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wallet_debits_failed_total",
		Help: "Total number of rejected wallet debits",
	})

	GeocodeFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geocode_failures_total",
		Help: "Total number of failed geocoding lookups",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
