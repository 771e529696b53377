// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultScheduled = "scheduled"
	resultIgnored   = "ignored"
	resultDropped   = "dropped"
	resultDelivered = "delivered"
	resultNoop      = "noop"
)

var notificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "mmsession_notifications_total",
		Help: "Arbiter notifications by kind (monitor/watch) and result",
	},
	[]string{"kind", "result"},
)

func countNotification(kind, result string) {
	notificationsTotal.WithLabelValues(kind, result).Inc()
}
