package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// This file is structured by package first, then by file.

	// /stream/manager.go, /stream/termination.go

	StreamsActive     = DefaultGaugeVec("stream_managers_active", "Number of stream managers that have not stopped or aborted", "role")
	PendingHandshakes = DefaultGauge("stream_pending_handshakes", "Handshakes sent and not yet acknowledged")
	StreamAborts      = DefaultCounterVec("stream_aborts_count", "Number of stream managers aborted", "role")
	PromisesDelivered = DefaultCounterVec("stream_promises_delivered_count", "Responses delivered to stream requesters", "outcome")

	// /stream/handlers.go

	OutboundPathsOpened  = DefaultCounter("stream_outbound_paths_opened_count", "Outbound paths materialized by an open-ack")
	OutboundPathsRemoved = DefaultCounterVec("stream_outbound_paths_removed_count", "Outbound paths removed by a consumer", "reason")

	// /stream/broadcast.go

	BatchesEmitted  = DefaultCounter("stream_batches_emitted_count", "Batches sent on outbound paths")
	ElementsEmitted = DefaultCounter("stream_elements_emitted_count", "Elements sent on outbound paths")

	// /actor/actor.go

	MailboxDepth     = DefaultGaugeVec("actor_mailbox_depth", "Messages waiting in an actor mailbox", "actor")
	InboundPathsOpen = DefaultGaugeVec("actor_inbound_paths_open", "Inbound paths in an actor's path table", "actor")
	DroppedEnvelopes = DefaultCounter("actor_dropped_envelopes_count", "Envelopes addressed to unknown or stopped actors")
	CreditWithheld   = DefaultCounterVec("actor_credit_withheld_count", "Times credit was withheld from a producer because its manager was congested", "actor")
)

const namespace = "s2s_streams"

func DefaultGauge(name string, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
}

func DefaultGaugeVec(name string, help string, labels ...string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help}, labels)
}

func DefaultCounter(name string, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
}

func DefaultCounterVec(name string, help string, labels ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help}, labels)
}

// SanitizeForPrometheus maps name onto the metric name alphabet [a-zA-Z0-9_:], which must not start with a digit.
func SanitizeForPrometheus(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == ':':
			sb.WriteRune(r)
		case r >= '0' && r <= '9' && i > 0:
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}

func init() {
	// Deregister the existing NewGoCollector https://pkg.go.dev/github.com/prometheus/client_golang@v1.22.0/prometheus/collectors#NewGoCollector
	prometheus.Unregister(collectors.NewGoCollector())
	// Re-register the go collector with all non-debug metrics. See: https://pkg.go.dev/runtime/metrics
	prometheus.MustRegister(collectors.NewGoCollector(collectors.WithGoCollectorRuntimeMetrics(collectors.MetricsAll),
		collectors.WithoutGoCollectorRuntimeMetrics(collectors.MetricsDebug.Matcher)))

	prometheus.MustRegister(StreamsActive)
	prometheus.MustRegister(PendingHandshakes)
	prometheus.MustRegister(StreamAborts)
	prometheus.MustRegister(PromisesDelivered)

	prometheus.MustRegister(OutboundPathsOpened)
	prometheus.MustRegister(OutboundPathsRemoved)

	prometheus.MustRegister(BatchesEmitted)
	prometheus.MustRegister(ElementsEmitted)

	prometheus.MustRegister(MailboxDepth)
	prometheus.MustRegister(InboundPathsOpen)
	prometheus.MustRegister(DroppedEnvelopes)
	prometheus.MustRegister(CreditWithheld)
}
