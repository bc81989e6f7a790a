// Package observability registers prometheus metrics for the sync service.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	webhookEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wearsync",
		Subsystem: "webhook",
		Name:      "events_total",
		Help:      "Webhook events received, by event type and result.",
	}, []string{"event_type", "result"})

	gatewayRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wearsync",
		Subsystem: "gateway",
		Name:      "request_duration_seconds",
		Help:      "Latency of provider API calls, by call and outcome.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"call", "outcome"})

	usersProvisionedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wearsync",
		Subsystem: "provisioning",
		Name:      "users_total",
		Help:      "Provider identities created for local users.",
	})

	metricIngestGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "wearsync",
		Subsystem: "webhook",
		Name:      "last_metric_ingested_timestamp_seconds",
		Help:      "Unix timestamp of the most recent health metric written to Postgres.",
	})
)

func init() {
	prometheus.MustRegister(webhookEventsTotal, gatewayRequestDuration, usersProvisionedTotal, metricIngestGauge)
}

// RecordWebhookEvent counts one webhook delivery outcome.
func RecordWebhookEvent(eventType, result string) {
	webhookEventsTotal.WithLabelValues(eventType, result).Inc()
}

// ObserveGatewayRequest records the latency of one provider API call.
func ObserveGatewayRequest(call, outcome string, elapsed time.Duration) {
	gatewayRequestDuration.WithLabelValues(call, outcome).Observe(elapsed.Seconds())
}

// RecordUserProvisioned counts a newly created provider identity.
func RecordUserProvisioned() {
	usersProvisionedTotal.Inc()
}

// RecordMetricIngested updates the ingestion watermark gauge.
func RecordMetricIngested(ts time.Time) {
	if ts.IsZero() {
		return
	}
	metricIngestGauge.Set(float64(ts.Unix()))
}
