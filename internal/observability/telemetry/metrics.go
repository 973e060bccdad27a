package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Business metrics
	VoiceParseTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "merchant_voice_parse_total",
		Help: "Transcript parse attempts by outcome",
	}, []string{"status"})

	VoiceParseLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "merchant_voice_parse_latency_seconds",
		Help:    "Latency of transcript parsing including the model call",
		Buckets: prometheus.DefBuckets,
	})

	VoiceCommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "merchant_voice_commands_total",
		Help: "Voice transactions by action and final status",
	}, []string{"action", "status"})

	LedgerEntriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "merchant_ledger_entries_total",
		Help: "Ledger entries appended by type",
	}, []string{"type"})

	OrderStatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "merchant_order_status_changes_total",
		Help: "Order status transitions by new status",
	}, []string{"status"})

	StoreGenerateLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "merchant_store_generate_latency_seconds",
		Help:    "Latency of storefront generation model calls",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30},
	})

	// Infrastructure metrics
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "merchant_http_requests_total",
		Help: "HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})

	WebsocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "merchant_websocket_connections",
		Help: "Open dashboard websocket connections",
	})

	LLMRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "merchant_llm_requests_total",
		Help: "Requests sent to the language model by outcome",
	}, []string{"status"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "merchant_cache_lookups_total",
		Help: "Cache lookups by cache name and result",
	}, []string{"cache", "result"})

	GRPCRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "merchant_grpc_requests_total",
		Help: "gRPC requests by method and code",
	}, []string{"method", "code"})

	GRPCLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "merchant_grpc_latency_seconds",
		Help:    "gRPC request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)
