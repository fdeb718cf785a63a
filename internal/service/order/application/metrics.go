// internal/service/order/application/metrics.go
package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dispatchSuccessTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_dispatch_success_total",
		Help: "Orders successfully dispatched to the courier.",
	})
	dispatchFailureTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_dispatch_failure_total",
		Help: "Orders degraded to abnormal during courier dispatch.",
	})
	webhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_webhook_events_total",
		Help: "Carrier route pushes by handling result.",
	}, []string{"result"})
)
