package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CheckoutsTotal counts checkout requests by final outcome
	// (ok, configuration, validation, storage, notification).
	CheckoutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_requests_total",
		Help: "Checkout requests by outcome.",
	}, []string{"outcome"})

	// NotificationSends counts individual channel sends by result.
	NotificationSends = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_sends_total",
		Help: "Notification channel sends by channel and result.",
	}, []string{"channel", "result"})

	// OrdersCreated counts durably persisted orders.
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders persisted with an assigned number.",
	})
)
