// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやサービス層から利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordHTTPDuration(duration time.Duration)
	RecordRecommendSuccess()
	RecordRecommendFailure(reason string)
	RecordRecommendLatency(duration time.Duration)
	RecordExerciseLogged()
	RecordBookingCreated()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus       *prometheus.CounterVec
	httpDuration     prometheus.Histogram
	recommendSuccess prometheus.Counter
	recommendFail    *prometheus.CounterVec
	recommendLatency prometheus.Histogram
	exercisesLogged  prometheus.Counter
	bookingsCreated  prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fityog_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		httpDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fityog_http_request_duration_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		recommendSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fityog_recommend_success_total",
			Help: "AIレコメンド成功の合計数",
		}),
		recommendFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fityog_recommend_fail_total",
			Help: "AIレコメンド失敗の合計数（理由別）",
		}, []string{"reason"}),
		recommendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fityog_recommend_latency_seconds",
			Help:    "AIレコメンドのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		exercisesLogged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fityog_exercises_logged_total",
			Help: "記録された運動ログの合計数",
		}),
		bookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fityog_bookings_created_total",
			Help: "作成されたセッション予約の合計数",
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.httpDuration,
		c.recommendSuccess,
		c.recommendFail,
		c.recommendLatency,
		c.exercisesLogged,
		c.bookingsCreated,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordHTTPDuration はHTTPリクエストの処理時間を記録する。
func (c *Collector) RecordHTTPDuration(duration time.Duration) {
	c.httpDuration.Observe(duration.Seconds())
}

// RecordRecommendSuccess はAIレコメンド成功を記録する。
func (c *Collector) RecordRecommendSuccess() {
	c.recommendSuccess.Inc()
}

// RecordRecommendFailure はAIレコメンド失敗を理由付きで記録する。
// reasonには"upstream"または"format"を渡す。
func (c *Collector) RecordRecommendFailure(reason string) {
	c.recommendFail.WithLabelValues(reason).Inc()
}

// RecordRecommendLatency はAIレコメンドのレイテンシを記録する。
func (c *Collector) RecordRecommendLatency(duration time.Duration) {
	c.recommendLatency.Observe(duration.Seconds())
}

// RecordExerciseLogged は運動ログの記録を計上する。
func (c *Collector) RecordExerciseLogged() {
	c.exercisesLogged.Inc()
}

// RecordBookingCreated はセッション予約の作成を計上する。
func (c *Collector) RecordBookingCreated() {
	c.bookingsCreated.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
