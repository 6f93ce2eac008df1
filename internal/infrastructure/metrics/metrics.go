package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skysend_messages_sent_total",
		Help: "Chat messages accepted and written to the store.",
	})

	NotificationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skysend_notifications_created_total",
		Help: "Inbox notification records written.",
	})

	PushDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skysend_push_deliveries_total",
		Help: "Push delivery attempts by outcome.",
	}, []string{"status"})

	ListenerGroups = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "skysend_listener_groups",
		Help: "Currently attached realtime listeners.",
	})

	WebsocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "skysend_websocket_clients",
		Help: "Currently connected websocket clients.",
	})
)
