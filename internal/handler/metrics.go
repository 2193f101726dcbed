package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	paymentsVerified = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "checkout_service",
		Subsystem: "payment",
		Name:      "verified_total",
		Help:      "Total number of successfully verified payment signatures",
	})

	paymentsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "checkout_service",
		Subsystem: "payment",
		Name:      "rejected_total",
		Help:      "Total number of rejected payment signatures",
	})

	webhooksApplied = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "checkout_service",
		Subsystem: "webhook",
		Name:      "applied_total",
		Help:      "Total number of carrier webhooks applied to an order",
	})

	webhooksIgnored = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "checkout_service",
		Subsystem: "webhook",
		Name:      "ignored_total",
		Help:      "Total number of carrier webhooks with no matching order",
	})

	webhooksMalformed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "checkout_service",
		Subsystem: "webhook",
		Name:      "malformed_total",
		Help:      "Total number of carrier webhooks rejected as malformed",
	})
)
