// Package inspection は物件ごとの点検記録（1日1件、後勝ち）を提供する。
package inspection

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/basic/internal/metrics"
	"github.com/hitoshi/basic/internal/model"
	"github.com/hitoshi/basic/internal/repository"
	"github.com/hitoshi/basic/internal/security"
)

// PropertyFinder は物件の取得インターフェース。
type PropertyFinder interface {
	FindByID(ctx context.Context, id int) (*model.Property, error)
}

// Service は点検記録のサービス層。
// 記録日は注入された時計の現在時刻を loc の暦日に切り捨てて決める。
type Service struct {
	properties  PropertyFinder
	inspections repository.InspectionRepository
	sanitizer   security.ReportSanitizerService
	now         func() time.Time
	loc         *time.Location
	metrics     metrics.MetricsCollector
}

// Config は点検記録サービスの設定パラメータ。
type Config struct {
	// Now は現在時刻の取得元（デフォルト: time.Now）。
	Now func() time.Time
	// Location は記録日を決めるタイムゾーン（デフォルト: UTC）。
	Location *time.Location
}

// DefaultConfig はデフォルトの設定を返す。
func DefaultConfig() Config {
	return Config{Now: time.Now, Location: time.UTC}
}

// NewService はServiceの新しいインスタンスを生成する。
// config の未設定項目はデフォルト値で補う。
func NewService(
	properties PropertyFinder,
	inspections repository.InspectionRepository,
	sanitizer security.ReportSanitizerService,
	config Config,
	collector metrics.MetricsCollector,
) *Service {
	defaults := DefaultConfig()
	if config.Now == nil {
		config.Now = defaults.Now
	}
	if config.Location == nil {
		config.Location = defaults.Location
	}
	if collector == nil {
		collector = metrics.Nop{}
	}
	return &Service{
		properties:  properties,
		inspections: inspections,
		sanitizer:   sanitizer,
		now:         config.Now,
		loc:         config.Location,
		metrics:     collector,
	}
}

// Record は本日の点検レポートを記録する。
// 同じ日に既に記録がある場合は上書きする。
// 物件が存在しない場合は NotFound、サニタイズ後のレポートが空の場合は InvalidInput を返す。
func (s *Service) Record(ctx context.Context, propertyID int, report string) (*model.Inspection, error) {
	if err := s.ensureProperty(ctx, propertyID); err != nil {
		return nil, err
	}

	text := s.sanitizer.Sanitize(report)
	if text == "" {
		return nil, model.NewEmptyReportError()
	}

	now := s.now()
	inspection := &model.Inspection{
		PropertyID: propertyID,
		Day:        model.CalendarDay(now.In(s.loc)),
		Report:     text,
		RecordedAt: now,
	}
	if err := s.inspections.Upsert(ctx, inspection); err != nil {
		return nil, fmt.Errorf("点検記録の保存に失敗しました: %w", err)
	}

	s.metrics.RecordInspectionRecorded()
	slog.Info("点検記録を保存しました",
		slog.Int("property_id", propertyID),
		slog.String("day", model.FormatDate(inspection.Day)),
	)
	return inspection, nil
}

// List は物件の点検記録を日付順に返す。
// 物件が存在しない場合は NotFound を返す。
func (s *Service) List(ctx context.Context, propertyID int) ([]*model.Inspection, error) {
	if err := s.ensureProperty(ctx, propertyID); err != nil {
		return nil, err
	}
	inspections, err := s.inspections.ListByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("点検記録の取得に失敗しました: %w", err)
	}
	if inspections == nil {
		inspections = []*model.Inspection{}
	}
	return inspections, nil
}

// Lookup は指定日の点検記録を返す。記録がない場合は nil を返す。
func (s *Service) Lookup(ctx context.Context, propertyID int, day time.Time) (*model.Inspection, error) {
	if err := s.ensureProperty(ctx, propertyID); err != nil {
		return nil, err
	}
	inspection, err := s.inspections.FindByPropertyAndDay(ctx, propertyID, model.CalendarDay(day))
	if err != nil {
		return nil, fmt.Errorf("点検記録の取得に失敗しました: %w", err)
	}
	return inspection, nil
}

// Today は設定されたタイムゾーンでの本日の暦日を返す。
func (s *Service) Today() time.Time {
	return model.CalendarDay(s.now().In(s.loc))
}

func (s *Service) ensureProperty(ctx context.Context, propertyID int) error {
	property, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return fmt.Errorf("物件の取得に失敗しました: %w", err)
	}
	if property == nil {
		return model.NewPropertyNotFoundError(propertyID)
	}
	return nil
}
