// Package metrics 定义了服务暴露给 Prometheus 的指标。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal 按方法、路由和状态码统计请求数。
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "brainbytes",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by method, route and status code",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration 记录请求耗时。
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "brainbytes",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"method", "path"},
	)

	// GatewayOutcomes 统计推理网关调用的结局。
	// Labels: outcome (success, timeout, error)
	GatewayOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "brainbytes",
			Subsystem: "gateway",
			Name:      "outcomes_total",
			Help:      "Inference gateway calls by outcome",
		},
		[]string{"outcome"},
	)

	// MessagesDeleted 统计按学科批量删除的消息数。
	MessagesDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "brainbytes",
			Subsystem: "messages",
			Name:      "deleted_total",
			Help:      "Messages removed by bulk subject deletion",
		},
		[]string{"subject"},
	)
)

// ObserveGatewayOutcome 适配 llm.Guard 的结局回调。
func ObserveGatewayOutcome(outcome string) {
	GatewayOutcomes.WithLabelValues(outcome).Inc()
}
