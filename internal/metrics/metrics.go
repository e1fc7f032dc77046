// Package metrics exposes Prometheus metrics for HTTP traffic and notification channels.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "order_notifier"

// Metrics owns its registry so tests can build as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	Requests        *prometheus.CounterVec
	LatencyMS       *prometheus.HistogramVec
	Notifications   *prometheus.CounterVec
	NotifyLatencyMS *prometheus.HistogramVec
	WebhookEvents   *prometheus.CounterVec
	Duplicates      prometheus.Counter
}

var latencyBuckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"route", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   latencyBuckets,
		}, []string{"route"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification attempts by channel and outcome.",
		}, []string{"channel", "status"}),
		NotifyLatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "notification_duration_ms",
			Help:      "Time spent in a channel send, in milliseconds.",
			Buckets:   latencyBuckets,
		}, []string{"channel"}),
		WebhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_events_total",
			Help:      "Webhook deliveries by event type and result.",
		}, []string{"type", "result"}),
		Duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_duplicate_sightings_total",
			Help:      "Webhook deliveries whose event id was probably seen before.",
		}),
	}

	m.registry.MustRegister(
		m.Requests, m.LatencyMS,
		m.Notifications, m.NotifyLatencyMS,
		m.WebhookEvents, m.Duplicates,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route string, status int, elapsed time.Duration) {
	m.Requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.LatencyMS.WithLabelValues(route).Observe(float64(elapsed.Milliseconds()))
}

// ObserveChannel records one channel send.
func (m *Metrics) ObserveChannel(channel, status string, elapsed time.Duration) {
	m.Notifications.WithLabelValues(channel, status).Inc()
	m.NotifyLatencyMS.WithLabelValues(channel).Observe(float64(elapsed.Milliseconds()))
}

// ObserveWebhook records a webhook delivery outcome, e.g. ("checkout.session.completed", "dispatched").
func (m *Metrics) ObserveWebhook(eventType, result string) {
	m.WebhookEvents.WithLabelValues(eventType, result).Inc()
}

func (m *Metrics) ObserveDuplicate() {
	m.Duplicates.Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
