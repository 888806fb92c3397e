// Package booking は予約の作成・照会と予約費用の算出を提供する。
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/basic/internal/metrics"
	"github.com/hitoshi/basic/internal/model"
	"github.com/hitoshi/basic/internal/pricing"
	"github.com/hitoshi/basic/internal/repository"
)

// UserFinder はユーザーの取得インターフェース。
type UserFinder interface {
	FindByID(ctx context.Context, id int) (*model.User, error)
}

// PropertyFinder は物件の取得インターフェース。
type PropertyFinder interface {
	FindByID(ctx context.Context, id int) (*model.Property, error)
}

// ReferenceGuard はユーザー・物件の削除と排他して処理を実行するインターフェース。
// registry.Service が満たす。
type ReferenceGuard interface {
	Exclusive(fn func() error) error
}

// mutexGuard は予約作成どうしだけを直列化するReferenceGuard。
type mutexGuard struct {
	mu sync.Mutex
}

func (g *mutexGuard) Exclusive(fn func() error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn()
}

// Service は予約のサービス層。
type Service struct {
	users      UserFinder
	properties PropertyFinder
	bookings   repository.BookingRepository
	guard      ReferenceGuard
	now        func() time.Time
	metrics    metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
// guard にはユーザー・物件を削除するレジストリを渡す。nil の場合は予約作成どうしのみ直列化する。
// now が nil の場合は time.Now を使用する。
func NewService(
	users UserFinder,
	properties PropertyFinder,
	bookings repository.BookingRepository,
	guard ReferenceGuard,
	now func() time.Time,
	collector metrics.MetricsCollector,
) *Service {
	if guard == nil {
		guard = &mutexGuard{}
	}
	if now == nil {
		now = time.Now
	}
	if collector == nil {
		collector = metrics.Nop{}
	}
	return &Service{
		users:      users,
		properties: properties,
		bookings:   bookings,
		guard:      guard,
		now:        now,
		metrics:    collector,
	}
}

// CreateParams は予約作成の入力を保持する。
type CreateParams struct {
	UserID     int
	PropertyID int
	StartDate  time.Time
	EndDate    time.Time
	Paid       bool
}

// Create は予約を作成し、ユーザーの予約列の末尾に追加する。
// ユーザーまたは物件が存在しない場合は NotFound、期間が1日未満の場合は InvalidState を返す。
// 存在確認から書き込みまではユーザー・物件の削除と排他する。
func (s *Service) Create(ctx context.Context, params CreateParams) (*model.Booking, error) {
	start := model.CalendarDay(params.StartDate)
	end := model.CalendarDay(params.EndDate)

	booking := &model.Booking{
		ID:         uuid.New().String(),
		UserID:     params.UserID,
		PropertyID: params.PropertyID,
		StartDate:  start,
		EndDate:    end,
		Paid:       params.Paid,
	}

	err := s.guard.Exclusive(func() error {
		if _, err := s.findUser(ctx, params.UserID); err != nil {
			return err
		}
		if _, err := s.findProperty(ctx, params.PropertyID); err != nil {
			return err
		}
		if err := pricing.ValidateRange(start, end); err != nil {
			return err
		}

		booking.CreatedAt = s.now()
		return s.insert(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordBookingCreated()
	slog.Info("予約を作成しました",
		slog.String("booking_id", booking.ID),
		slog.Int("user_id", booking.UserID),
		slog.Int("property_id", booking.PropertyID),
		slog.Int("days", pricing.DayCount(start, end)),
	)
	return booking, nil
}

// insert は予約を保存する。
// 保存時に参照先が消えていた場合（外部キー違反）は、消えた方の NotFound を返す。
func (s *Service) insert(ctx context.Context, booking *model.Booking) error {
	err := s.bookings.Create(ctx, booking)
	if errors.Is(err, repository.ErrNotFound) {
		if _, ferr := s.findUser(ctx, booking.UserID); ferr != nil {
			return ferr
		}
		return model.NewPropertyNotFoundError(booking.PropertyID)
	}
	if err != nil {
		return fmt.Errorf("予約の作成に失敗しました: %w", err)
	}
	return nil
}

// Get は指定IDの予約を返す。存在しない場合は NotFound を返す。
func (s *Service) Get(ctx context.Context, bookingID string) (*model.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("予約の取得に失敗しました: %w", err)
	}
	if booking == nil {
		return nil, model.NewBookingNotFoundError(bookingID)
	}
	return booking, nil
}

// ListByUser はユーザーの予約を作成順に返す。
// ユーザーが存在しない場合は NotFound を返す。予約がない場合は空のスライスを返す。
func (s *Service) ListByUser(ctx context.Context, userID int) ([]*model.Booking, error) {
	if _, err := s.findUser(ctx, userID); err != nil {
		return nil, err
	}
	bookings, err := s.bookings.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("予約一覧の取得に失敗しました: %w", err)
	}
	if bookings == nil {
		bookings = []*model.Booking{}
	}
	return bookings, nil
}

// Cost は指定予約の合計費用を返す。
func (s *Service) Cost(ctx context.Context, bookingID string) (float64, error) {
	booking, err := s.Get(ctx, bookingID)
	if err != nil {
		return 0, err
	}
	return s.costOf(ctx, booking)
}

// CostForUserProperty はユーザーの予約のうち、指定物件を対象とする最初の予約の合計費用を返す。
// ユーザーまたは該当する予約が存在しない場合は NotFound を返す。
func (s *Service) CostForUserProperty(ctx context.Context, userID, propertyID int) (float64, error) {
	if _, err := s.findUser(ctx, userID); err != nil {
		return 0, err
	}
	booking, err := s.bookings.FindFirstByUserAndProperty(ctx, userID, propertyID)
	if err != nil {
		return 0, fmt.Errorf("予約の取得に失敗しました: %w", err)
	}
	if booking == nil {
		return 0, model.NewBookingNotFoundError(fmt.Sprintf("user=%d property=%d", userID, propertyID))
	}
	return s.costOf(ctx, booking)
}

func (s *Service) costOf(ctx context.Context, booking *model.Booking) (float64, error) {
	property, err := s.findProperty(ctx, booking.PropertyID)
	if err != nil {
		return 0, err
	}
	return pricing.TotalCost(*booking, *property)
}

func (s *Service) findUser(ctx context.Context, id int) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(id)
	}
	return user, nil
}

func (s *Service) findProperty(ctx context.Context, id int) (*model.Property, error) {
	property, err := s.properties.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("物件の取得に失敗しました: %w", err)
	}
	if property == nil {
		return nil, model.NewPropertyNotFoundError(id)
	}
	return property, nil
}
