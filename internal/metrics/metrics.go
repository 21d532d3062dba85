// Package metrics exposes Prometheus instrumentation for the notification stack,
// the page shell and host callbacks.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "toastd"

// Metrics holds every collector registered by toastd.
type Metrics struct {
	Registry *prometheus.Registry

	NotificationsAdmitted *prometheus.CounterVec   // by type
	NotificationsRemoved  *prometheus.CounterVec   // by reason
	ActiveNotifications   prometheus.Gauge
	PageVisible           prometheus.Gauge
	MessagesReceived      *prometheus.CounterVec   // by transport, message type
	HostCallbackFailures  *prometheus.CounterVec   // by event
	HostCallbackDuration  *prometheus.HistogramVec // by event, status
}

// New creates the collectors on a fresh registry that also carries the
// Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		NotificationsAdmitted: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_admitted_total",
				Help:      "Total number of notifications admitted to the stack",
			},
			[]string{"type"},
		),
		NotificationsRemoved: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_removed_total",
				Help:      "Total number of notifications removed from the stack",
			},
			[]string{"reason"}, // expired, dismissed, evicted, cleared
		),
		ActiveNotifications: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "notifications_active",
			Help:      "Number of notifications currently in the stack",
		}),
		PageVisible: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "page_visible",
			Help:      "1 while the page is visible, 0 otherwise",
		}),
		MessagesReceived: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "messages_received_total",
				Help:      "Total number of host messages received",
			},
			[]string{"transport", "type"},
		),
		HostCallbackFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "host_callback_failures_total",
				Help:      "Total number of failed host callbacks",
			},
			[]string{"event"},
		),
		HostCallbackDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "host_callback_duration_seconds",
				Help:      "Host callback duration in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
			},
			[]string{"event", "status"},
		),
	}
}

// RecordAdmitted counts an admission and updates the active gauge.
func (m *Metrics) RecordAdmitted(typ string, active int) {
	m.NotificationsAdmitted.WithLabelValues(typ).Inc()
	m.ActiveNotifications.Set(float64(active))
}

// RecordRemoved counts a removal and updates the active gauge.
func (m *Metrics) RecordRemoved(reason string, active int) {
	m.NotificationsRemoved.WithLabelValues(reason).Inc()
	m.ActiveNotifications.Set(float64(active))
}

// RecordVisibility updates the page visibility gauge.
func (m *Metrics) RecordVisibility(visible bool) {
	if visible {
		m.PageVisible.Set(1)
		return
	}
	m.PageVisible.Set(0)
}

// RecordMessage counts an inbound host message.
func (m *Metrics) RecordMessage(transport, typ string) {
	m.MessagesReceived.WithLabelValues(transport, typ).Inc()
}

// RecordCallback records the outcome of a host callback.
func (m *Metrics) RecordCallback(event string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
		m.HostCallbackFailures.WithLabelValues(event).Inc()
	}
	m.HostCallbackDuration.WithLabelValues(event, status).Observe(duration.Seconds())
}
