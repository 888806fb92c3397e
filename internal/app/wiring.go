package app

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/basic/internal/booking"
	"github.com/hitoshi/basic/internal/config"
	"github.com/hitoshi/basic/internal/discount"
	"github.com/hitoshi/basic/internal/handler"
	"github.com/hitoshi/basic/internal/inspection"
	"github.com/hitoshi/basic/internal/metrics"
	"github.com/hitoshi/basic/internal/middleware"
	"github.com/hitoshi/basic/internal/pricing"
	"github.com/hitoshi/basic/internal/registry"
	"github.com/hitoshi/basic/internal/repository"
	"github.com/hitoshi/basic/internal/security"
)

// repositories はバックエンドごとのリポジトリ実装をまとめる。
type repositories struct {
	users       repository.UserRepository
	properties  repository.PropertyRepository
	bookings    repository.BookingRepository
	inspections repository.InspectionRepository
}

func newMemoryRepositories() repositories {
	return repositories{
		users:       repository.NewMemoryUserRepo(),
		properties:  repository.NewMemoryPropertyRepo(),
		bookings:    repository.NewMemoryBookingRepo(),
		inspections: repository.NewMemoryInspectionRepo(),
	}
}

func newPostgresRepositories(db *sql.DB) repositories {
	return repositories{
		users:       repository.NewPostgresUserRepo(db),
		properties:  repository.NewPostgresPropertyRepo(db),
		bookings:    repository.NewPostgresBookingRepo(db),
		inspections: repository.NewPostgresInspectionRepo(db),
	}
}

// services はドメインサービスの組み立て結果。
type services struct {
	registry    *registry.Service
	bookings    *booking.Service
	rates       *pricing.Service
	discounts   *discount.Service
	inspections *inspection.Service
}

// newServices はリポジトリからドメインサービスを組み立てる。
// 料金サービスは物件削除時のキャッシュ破棄先としてレジストリに渡し、
// レジストリは予約作成と削除を排他するガードとして予約サービスに渡す。
func newServices(cfg *config.Config, repos repositories, collector metrics.MetricsCollector, now func() time.Time) *services {
	rates := pricing.NewService(repos.properties, pricing.CacheConfig{
		TTL:     cfg.PriceCacheTTL,
		MaxSize: cfg.PriceCacheSize,
	}, collector)

	reg := registry.NewService(
		repos.users, repos.properties, repos.bookings, repos.inspections, rates, collector,
	)

	return &services{
		registry:  reg,
		bookings:  booking.NewService(repos.users, repos.properties, repos.bookings, reg, now, collector),
		rates:     rates,
		discounts: discount.NewService(repos.users, now),
		inspections: inspection.NewService(
			repos.properties, repos.inspections, security.NewReportSanitizer(),
			inspection.Config{Now: now, Location: cfg.Location}, collector,
		),
	}
}

// close はサービスが保持するバックグラウンド処理を停止する。
func (s *services) close() {
	s.rates.Close()
}

// newRateLimiter は設定値（req/min）からレートリミッターを生成する。
func newRateLimiter(cfg *config.Config) *middleware.RateLimiter {
	return middleware.NewRateLimiter(
		middleware.PerMinuteRateLimiterConfig(cfg.RateLimitGeneral, cfg.RateLimitWrite),
	)
}

// newRouter はサービスとミドルウェア依存からHTTPルーターを構築する。
// db が nil の場合（インメモリ構成）はヘルスチェックで疎通確認をしない。
func newRouter(
	cfg *config.Config,
	svc *services,
	limiter *middleware.RateLimiter,
	collector metrics.MetricsCollector,
	gatherer prometheus.Gatherer,
	db *sql.DB,
	logger *slog.Logger,
) http.Handler {
	deps := &handler.RouterDeps{
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       limiter,
		Metrics:           collector,
		Gatherer:          gatherer,
		Logger:            logger,

		Registry:    svc.registry,
		Bookings:    svc.bookings,
		Rates:       svc.rates,
		Discounts:   svc.discounts,
		Inspections: svc.inspections,
	}
	if db != nil {
		deps.HealthChecker = db
	}
	return handler.NewRouter(deps)
}
