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
// ミドルウェアやサービス層から利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
	RecordRegistryChange(entity, operation string)
	RecordBookingCreated()
	RecordInspectionRecorded()
	RecordRateCacheLookup(hit bool)
	RecordDomainError(kind string)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus       *prometheus.CounterVec
	requestLatency   prometheus.Histogram
	registryChanges  *prometheus.CounterVec
	bookingsCreated  prometheus.Counter
	inspections      prometheus.Counter
	rateCacheLookups *prometheus.CounterVec
	domainErrors     *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "basic_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "basic_request_latency_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		registryChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "basic_registry_changes_total",
			Help: "ユーザー・物件の登録と削除の合計数",
		}, []string{"entity", "operation"}),
		bookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "basic_bookings_created_total",
			Help: "作成された予約の合計数",
		}),
		inspections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "basic_inspections_recorded_total",
			Help: "記録された点検レポートの合計数",
		}),
		rateCacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "basic_rate_cache_lookups_total",
			Help: "実効料金キャッシュの参照数（hit/miss別）",
		}, []string{"result"}),
		domainErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "basic_domain_errors_total",
			Help: "エラー分類別のドメインエラー数",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.registryChanges,
		c.bookingsCreated,
		c.inspections,
		c.rateCacheLookups,
		c.domainErrors,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエストの処理時間を記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordRegistryChange はユーザー・物件の登録または削除を記録する。
// entity は "user" または "property"、operation は "add" または "delete"。
func (c *Collector) RecordRegistryChange(entity, operation string) {
	c.registryChanges.WithLabelValues(entity, operation).Inc()
}

// RecordBookingCreated は予約の作成を記録する。
func (c *Collector) RecordBookingCreated() {
	c.bookingsCreated.Inc()
}

// RecordInspectionRecorded は点検レポートの記録を記録する。
func (c *Collector) RecordInspectionRecorded() {
	c.inspections.Inc()
}

// RecordRateCacheLookup は実効料金キャッシュの参照結果を記録する。
func (c *Collector) RecordRateCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.rateCacheLookups.WithLabelValues(result).Inc()
}

// RecordDomainError はドメインエラーを分類別に記録する。
func (c *Collector) RecordDomainError(kind string) {
	c.domainErrors.WithLabelValues(kind).Inc()
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

// Nop は何も記録しないMetricsCollector。
// テストやメトリクスを使わない構成で利用する。
type Nop struct{}

func (Nop) RecordHTTPStatus(int) {}
func (Nop) RecordRequestLatency(time.Duration) {}
func (Nop) RecordRegistryChange(string, string) {}
func (Nop) RecordBookingCreated() {}
func (Nop) RecordInspectionRecorded() {}
func (Nop) RecordRateCacheLookup(bool) {}
func (Nop) RecordDomainError(string) {}

var (
	_ MetricsCollector = (*Collector)(nil)
	_ MetricsCollector = Nop{}
)
