// Package metrics exposes Prometheus instrumentation for the tracker daemon.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "fst"

var (
	slotsMerged = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "activity",
		Name:      "slots_merged_total",
		Help:      "Activity slots folded into sessions.",
	}, []string{"site"})
	activeMinutes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "activity",
		Name:      "active_minutes_total",
		Help:      "Active minutes recorded from activity slots.",
	}, []string{"site"})
	streakLength = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "streaks",
		Name:      "length_days",
		Help:      "Current streak length per site.",
	}, []string{"site"})
	lastSlotGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "activity",
		Name:      "last_slot_timestamp_seconds",
		Help:      "Unix timestamp of the most recent activity slot merged.",
	})
	notifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "notify",
		Name:      "notifications_total",
		Help:      "Notifications by kind and outcome.",
	}, []string{"kind", "outcome"})
	messages = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "server",
		Name:      "messages_total",
		Help:      "Host messages handled by type and result.",
	}, []string{"type", "result"})
)

func init() {
	prometheus.MustRegister(slotsMerged, activeMinutes, streakLength, lastSlotGauge, notifications, messages)
}

// RecordSlot counts a merged slot.
func RecordSlot(site string, minutes float64, ts time.Time) {
	slotsMerged.WithLabelValues(site).Inc()
	if minutes > 0 {
		activeMinutes.WithLabelValues(site).Add(minutes)
	}
	if !ts.IsZero() {
		lastSlotGauge.Set(float64(ts.Unix()))
	}
}

// RecordStreak publishes a site's current streak length.
func RecordStreak(site string, length int) {
	streakLength.WithLabelValues(site).Set(float64(length))
}

// RecordNotification counts a notification outcome.
func RecordNotification(kind, outcome string) {
	notifications.WithLabelValues(kind, outcome).Inc()
}

// RecordMessage counts a handled host message.
func RecordMessage(msgType, result string) {
	messages.WithLabelValues(msgType, result).Inc()
}
