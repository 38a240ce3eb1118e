package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 监控指标
type Metrics struct {
	// HTTP 请求指标
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestSize     *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// 同步指标
	SyncRunsTotal   *prometheus.CounterVec
	SyncDuration    prometheus.Histogram
	SyncLastSuccess prometheus.Gauge

	// 邮件指标
	MessagesIngested prometheus.Counter
	MessagesSkipped  *prometheus.CounterVec
	MessagesTotal    prometheus.Gauge

	// 派生产物指标
	TasksGenerated       prometheus.Gauge
	AttachmentsGenerated prometheus.Gauge

	// 数据源指标
	GraphRequestDuration prometheus.Histogram

	// 错误指标
	ErrorsTotal *prometheus.CounterVec
	PanicsTotal prometheus.Counter

	// 限流指标
	RateLimitBlocks *prometheus.CounterVec
}

// NewMetrics 创建监控指标
func NewMetrics() *Metrics {
	return &Metrics{
		// HTTP 请求指标
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "actionhub_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "actionhub_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		HTTPRequestSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "actionhub_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 8),
			},
			[]string{"method", "endpoint"},
		),

		HTTPResponseSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "actionhub_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 8),
			},
			[]string{"method", "endpoint"},
		),

		// 同步指标
		SyncRunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "actionhub_sync_runs_total",
				Help: "Total number of sync runs by result",
			},
			[]string{"result"},
		),

		SyncDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "actionhub_sync_duration_seconds",
				Help:    "Sync run duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		SyncLastSuccess: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "actionhub_sync_last_success_timestamp_seconds",
				Help: "Unix timestamp of the last successful sync",
			},
		),

		// 邮件指标
		MessagesIngested: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "actionhub_messages_ingested_total",
				Help: "Total number of messages ingested",
			},
		),

		MessagesSkipped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "actionhub_messages_skipped_total",
				Help: "Total number of messages skipped by reason",
			},
			[]string{"reason"},
		),

		MessagesTotal: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "actionhub_messages_total",
				Help: "Total number of stored messages",
			},
		),

		// 派生产物指标
		TasksGenerated: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "actionhub_tasks_generated",
				Help: "Number of tasks generated by the last sync",
			},
		),

		AttachmentsGenerated: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "actionhub_attachments_generated",
				Help: "Number of attachment records generated by the last sync",
			},
		),

		// 数据源指标
		GraphRequestDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "actionhub_graph_request_duration_seconds",
				Help:    "Microsoft Graph request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		// 错误指标
		ErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "actionhub_errors_total",
				Help: "Total number of errors",
			},
			[]string{"type", "component"},
		),

		PanicsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "actionhub_panics_total",
				Help: "Total number of panics",
			},
		),

		// 限流指标
		RateLimitBlocks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "actionhub_rate_limit_blocks_total",
				Help: "Total number of rate limit blocks",
			},
			[]string{"endpoint"},
		),
	}
}

// RecordHTTPRequest 记录 HTTP 请求指标
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration, requestSize, responseSize int64) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	m.HTTPRequestSize.WithLabelValues(method, endpoint).Observe(float64(requestSize))
	m.HTTPResponseSize.WithLabelValues(method, endpoint).Observe(float64(responseSize))
}

// RecordSyncRun 记录一次同步及其结果
func (m *Metrics) RecordSyncRun(result string, duration time.Duration) {
	m.SyncRunsTotal.WithLabelValues(result).Inc()
	m.SyncDuration.Observe(duration.Seconds())
	if result == "success" {
		m.SyncLastSuccess.SetToCurrentTime()
	}
}

// RecordMessageIngested 记录邮件入库
func (m *Metrics) RecordMessageIngested() {
	m.MessagesIngested.Inc()
}

// RecordMessageSkipped 按原因记录邮件跳过
func (m *Metrics) RecordMessageSkipped(reason string) {
	m.MessagesSkipped.WithLabelValues(reason).Inc()
}

// RecordError 记录错误
func (m *Metrics) RecordError(errorType, component string) {
	m.ErrorsTotal.WithLabelValues(errorType, component).Inc()
}

// RecordPanic 记录 panic
func (m *Metrics) RecordPanic() {
	m.PanicsTotal.Inc()
}

// RecordRateLimitBlock 记录限流阻止
func (m *Metrics) RecordRateLimitBlock(endpoint string) {
	m.RateLimitBlocks.WithLabelValues(endpoint).Inc()
}

// RecordGraphRequest 记录一次 Graph 请求耗时
func (m *Metrics) RecordGraphRequest(duration time.Duration) {
	m.GraphRequestDuration.Observe(duration.Seconds())
}

// UpdateMessagesTotal 更新存储中的总邮件数
func (m *Metrics) UpdateMessagesTotal(count int) {
	m.MessagesTotal.Set(float64(count))
}

// UpdateTasksGenerated 更新最近一次同步生成的任务数
func (m *Metrics) UpdateTasksGenerated(count int) {
	m.TasksGenerated.Set(float64(count))
}

// UpdateAttachmentsGenerated 更新最近一次同步生成的附件数
func (m *Metrics) UpdateAttachmentsGenerated(count int) {
	m.AttachmentsGenerated.Set(float64(count))
}

// HTTPHandler 返回 Prometheus HTTP 处理器
func (m *Metrics) HTTPHandler() http.Handler {
	return promhttp.Handler()
}
