// Package registry はユーザーと物件の登録・照会・削除を提供する。
// IDの一意性と、参照が残るエンティティの削除拒否をここで保証する。
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/hitoshi/basic/internal/metrics"
	"github.com/hitoshi/basic/internal/model"
	"github.com/hitoshi/basic/internal/repository"
)

// BookingStore は削除判定とユーザー削除時の予約削除に使う予約操作のインターフェース。
type BookingStore interface {
	CountByPropertyID(ctx context.Context, propertyID int) (int, error)
	DeleteByUserID(ctx context.Context, userID int) error
}

// InspectionDeleter は物件削除時の点検記録削除インターフェース。
type InspectionDeleter interface {
	DeleteByPropertyID(ctx context.Context, propertyID int) error
}

// RateInvalidator は物件削除時に実効料金キャッシュを破棄するインターフェース。
type RateInvalidator interface {
	Invalidate(propertyID int)
}

// Service はユーザー・物件レジストリのサービス層。
// 登録と削除は mu で直列化し、存在確認から更新までの間に他の更新が割り込まないようにする。
type Service struct {
	mu sync.Mutex

	users       repository.UserRepository
	properties  repository.PropertyRepository
	bookings    BookingStore
	inspections InspectionDeleter
	rates       RateInvalidator
	metrics     metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
// rates と collector は nil でもよい。
func NewService(
	users repository.UserRepository,
	properties repository.PropertyRepository,
	bookings BookingStore,
	inspections InspectionDeleter,
	rates RateInvalidator,
	collector metrics.MetricsCollector,
) *Service {
	if collector == nil {
		collector = metrics.Nop{}
	}
	return &Service{
		users:       users,
		properties:  properties,
		bookings:    bookings,
		inspections: inspections,
		rates:       rates,
		metrics:     collector,
	}
}

// AddUser はユーザーを登録する。
// 種別に該当しない項目は破棄し、日付は暦日に正規化して保存する。
// 同じIDのユーザーが既に存在する場合は DuplicateIdentifier を返し、既存ユーザーは変更しない。
func (s *Service) AddUser(ctx context.Context, u model.User) (*model.User, error) {
	user, err := normalizeUser(u)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, model.NewDuplicateUserError(user.ID)
		}
		return nil, fmt.Errorf("ユーザーの登録に失敗しました: %w", err)
	}

	s.metrics.RecordRegistryChange("user", "add")
	slog.Info("ユーザーを登録しました",
		slog.Int("user_id", user.ID),
		slog.String("kind", string(user.Kind)),
	)
	return &user, nil
}

// AddProperty は物件を登録する。
// 所有ホストが存在しない場合は NotFound、ホストでないユーザーの場合は InvalidInput を返す。
// 寝室数0の共有物件は登録できるが、料金計算時に InvalidState になる。
func (s *Service) AddProperty(ctx context.Context, p model.Property) (*model.Property, error) {
	property, err := normalizeProperty(p)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	host, err := s.users.FindByID(ctx, property.HostID)
	if err != nil {
		return nil, fmt.Errorf("ホストの取得に失敗しました: %w", err)
	}
	if host == nil {
		return nil, model.NewUserNotFoundError(property.HostID)
	}
	if !host.IsHost() {
		return nil, model.NewNotAHostError(property.HostID)
	}

	if err := s.properties.Create(ctx, &property); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, model.NewDuplicatePropertyError(property.ID)
		}
		return nil, fmt.Errorf("物件の登録に失敗しました: %w", err)
	}

	s.metrics.RecordRegistryChange("property", "add")
	slog.Info("物件を登録しました",
		slog.Int("property_id", property.ID),
		slog.Int("host_id", property.HostID),
		slog.String("kind", string(property.Kind)),
	)
	return &property, nil
}

// Exclusive はユーザー・物件の登録や削除と排他した状態で fn を実行する。
// 予約作成のように、参照先の存在確認から書き込みまでの間に削除を挟ませたくない処理で使う。
// fn の中からこのServiceの登録・削除メソッドを呼んではならない。
func (s *Service) Exclusive(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// FindUser は指定IDのユーザーを返す。存在しない場合は NotFound を返す。
func (s *Service) FindUser(ctx context.Context, id int) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(id)
	}
	return user, nil
}

// FindProperty は指定IDの物件を返す。存在しない場合は NotFound を返す。
func (s *Service) FindProperty(ctx context.Context, id int) (*model.Property, error) {
	property, err := s.properties.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("物件の取得に失敗しました: %w", err)
	}
	if property == nil {
		return nil, model.NewPropertyNotFoundError(id)
	}
	return property, nil
}

// ListUsers は登録順のユーザー一覧を返す。
func (s *Service) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ユーザー一覧の取得に失敗しました: %w", err)
	}
	return users, nil
}

// ListProperties は登録順の物件一覧を返す。
func (s *Service) ListProperties(ctx context.Context) ([]*model.Property, error) {
	properties, err := s.properties.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("物件一覧の取得に失敗しました: %w", err)
	}
	return properties, nil
}

// DeleteUser はユーザーを削除する。
// 物件を所有しているホストは削除できない（InvalidState）。
// ユーザーの予約はユーザーと一緒に削除する。
func (s *Service) DeleteUser(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.FindUser(ctx, id)
	if err != nil {
		return err
	}

	if user.IsHost() {
		count, err := s.properties.CountByHostID(ctx, id)
		if err != nil {
			return fmt.Errorf("所有物件数の取得に失敗しました: %w", err)
		}
		if count > 0 {
			return model.NewHostHasPropertiesError(id, count)
		}
	}

	if err := s.bookings.DeleteByUserID(ctx, id); err != nil {
		return fmt.Errorf("予約の削除に失敗しました: %w", err)
	}
	if err := s.users.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.NewUserNotFoundError(id)
		}
		return fmt.Errorf("ユーザーの削除に失敗しました: %w", err)
	}

	s.metrics.RecordRegistryChange("user", "delete")
	slog.Info("ユーザーを削除しました", slog.Int("user_id", id))
	return nil
}

// DeleteProperty は物件を削除する。
// 予約から参照されている物件は削除できない（InvalidState）。
// 点検記録と実効料金キャッシュも破棄する。
func (s *Service) DeleteProperty(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.FindProperty(ctx, id); err != nil {
		return err
	}

	count, err := s.bookings.CountByPropertyID(ctx, id)
	if err != nil {
		return fmt.Errorf("予約数の取得に失敗しました: %w", err)
	}
	if count > 0 {
		return model.NewPropertyHasBookingsError(id, count)
	}

	if err := s.inspections.DeleteByPropertyID(ctx, id); err != nil {
		return fmt.Errorf("点検記録の削除に失敗しました: %w", err)
	}
	if err := s.properties.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.NewPropertyNotFoundError(id)
		}
		return fmt.Errorf("物件の削除に失敗しました: %w", err)
	}
	if s.rates != nil {
		s.rates.Invalidate(id)
	}

	s.metrics.RecordRegistryChange("property", "delete")
	slog.Info("物件を削除しました", slog.Int("property_id", id))
	return nil
}

// normalizeUser はユーザーの入力値を検証し、保存用に正規化した値を返す。
func normalizeUser(u model.User) (model.User, error) {
	kind, err := model.ParseUserKind(string(u.Kind))
	if err != nil {
		return model.User{}, err
	}
	if u.ID <= 0 {
		return model.User{}, model.NewInvalidRequestError("ユーザーIDは1以上の整数で指定してください")
	}
	u.FirstName = strings.TrimSpace(u.FirstName)
	u.LastName = strings.TrimSpace(u.LastName)
	if u.FirstName == "" || u.LastName == "" {
		return model.User{}, model.NewInvalidRequestError("氏名は必須です")
	}
	if u.DateOfBirth.IsZero() {
		return model.User{}, model.NewInvalidDateError("date_of_birth", "")
	}
	if u.RegistrationDate.IsZero() {
		return model.User{}, model.NewInvalidDateError("registration_date", "")
	}

	normalized := model.User{
		ID:               u.ID,
		Kind:             kind,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		DateOfBirth:      model.CalendarDay(u.DateOfBirth),
		RegistrationDate: model.CalendarDay(u.RegistrationDate),
	}

	switch kind {
	case model.UserKindHost:
		normalized.TaxNumber = u.TaxNumber
	case model.UserKindGold:
		if u.GoldLevel < model.MinGoldLevel || u.GoldLevel > model.MaxGoldLevel {
			return model.User{}, model.NewInvalidGoldLevelError(u.GoldLevel)
		}
		normalized.GoldLevel = u.GoldLevel
		normalized.PaymentMethod = strings.TrimSpace(u.PaymentMethod)
	case model.UserKindStandard:
		normalized.PaymentMethod = strings.TrimSpace(u.PaymentMethod)
	}
	return normalized, nil
}

// normalizeProperty は物件の入力値を検証し、保存用に正規化した値を返す。
func normalizeProperty(p model.Property) (model.Property, error) {
	kind, err := model.ParsePropertyKind(string(p.Kind))
	if err != nil {
		return model.Property{}, err
	}
	if p.ID <= 0 {
		return model.Property{}, model.NewInvalidRequestError("物件IDは1以上の整数で指定してください")
	}
	switch {
	case p.Bedrooms < 0:
		return model.Property{}, model.NewInvalidPropertyFigureError("bedrooms")
	case p.Rooms < 0:
		return model.Property{}, model.NewInvalidPropertyFigureError("rooms")
	case p.PricePerDay < 0:
		return model.Property{}, model.NewInvalidPropertyFigureError("price_per_day")
	case p.SizeSqm < 0:
		return model.Property{}, model.NewInvalidPropertyFigureError("size_sqm")
	}

	p.Kind = kind
	p.City = strings.TrimSpace(p.City)
	if kind == model.PropertyKindShared {
		p.SizeSqm = 0
	}
	return p, nil
}
