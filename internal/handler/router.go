package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/basic/internal/metrics"
	"github.com/hitoshi/basic/internal/middleware"
)

// HealthChecker はヘルスチェックで依存先の疎通を確認するインターフェース。
// *sql.DB が満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Metrics           metrics.MetricsCollector
	Gatherer          prometheus.Gatherer
	Logger            *slog.Logger

	// nil の場合は常に正常を返す（インメモリ構成）
	HealthChecker HealthChecker

	Registry    RegistryServiceInterface
	Bookings    BookingServiceInterface
	Rates       RateServiceInterface
	Discounts   DiscountServiceInterface
	Inspections InspectionServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RealIP → Metrics → Logging → Recovery → SecurityHeaders → CORS → RateLimit(General → Write)
//
// /health と /metrics はレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	collector := deps.Metrics
	if collector == nil {
		collector = metrics.Nop{}
	}
	reporter := newErrorReporter(collector)
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.NewMetricsMiddleware(collector))
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	userHandler := NewUserHandler(deps.Registry, deps.Bookings, deps.Discounts, reporter)
	propertyHandler := NewPropertyHandler(deps.Registry, deps.Rates, deps.Inspections, reporter)
	bookingHandler := NewBookingHandler(deps.Bookings, reporter)

	r.Get("/health", healthHandler(deps.HealthChecker))
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.SetupMetricsRoute(deps.Gatherer))
	}

	r.Route("/api", func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
			r.Use(deps.RateLimiter.WriteMiddleware())
		}

		// ユーザー
		r.Route("/users", func(r chi.Router) {
			r.Post("/", userHandler.AddUser)
			r.Get("/", userHandler.ListUsers)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", userHandler.GetUser)
				r.Delete("/", userHandler.DeleteUser)
				r.Get("/bookings", userHandler.ListBookings)
				r.Get("/bookings/cost", userHandler.GetBookingCost)
				r.Get("/discount", userHandler.GetDiscount)
			})
		})

		// 物件
		r.Route("/properties", func(r chi.Router) {
			r.Post("/", propertyHandler.AddProperty)
			r.Get("/", propertyHandler.ListProperties)
			r.Get("/compare", propertyHandler.Compare)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", propertyHandler.GetProperty)
				r.Delete("/", propertyHandler.DeleteProperty)
				r.Get("/rate", propertyHandler.GetRate)
				r.Get("/inspections", propertyHandler.ListInspections)
				r.Post("/inspections", propertyHandler.RecordInspection)
			})
		})

		// 予約
		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", bookingHandler.CreateBooking)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", bookingHandler.GetBooking)
				r.Get("/cost", bookingHandler.GetBookingCost)
			})
		})
	})

	return r
}

// healthHandler は依存先の疎通を確認し、200または503を返すハンドラーを生成する。
func healthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
