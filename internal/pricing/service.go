package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/karlseguin/ccache/v3"

	"github.com/hitoshi/basic/internal/metrics"
	"github.com/hitoshi/basic/internal/model"
)

// PropertyFinder は物件の取得インターフェース。
type PropertyFinder interface {
	FindByID(ctx context.Context, id int) (*model.Property, error)
}

// CacheConfig は実効料金キャッシュの設定を保持する。
// TTL が0以下の場合はキャッシュを使用しない。
type CacheConfig struct {
	TTL     time.Duration
	MaxSize int64
}

// Service は物件IDを指定した料金照会・比較のサービス層。
// 物件は登録後に変更されないため、計算済みの実効料金を削除までキャッシュできる。
type Service struct {
	properties PropertyFinder
	cache      *ccache.Cache[float64]
	ttl        time.Duration
	metrics    metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(properties PropertyFinder, cfg CacheConfig, collector metrics.MetricsCollector) *Service {
	if collector == nil {
		collector = metrics.Nop{}
	}
	s := &Service{
		properties: properties,
		ttl:        cfg.TTL,
		metrics:    collector,
	}
	if cfg.TTL > 0 {
		size := cfg.MaxSize
		if size <= 0 {
			size = 1000
		}
		s.cache = ccache.New(ccache.Configure[float64]().MaxSize(size))
	}
	return s
}

// Close はキャッシュのバックグラウンド処理を停止する。
func (s *Service) Close() {
	if s.cache != nil {
		s.cache.Stop()
	}
}

// EffectiveRate は指定物件の1日あたりの実効料金を返す。
// 物件が存在しない場合は NotFound を返す。
func (s *Service) EffectiveRate(ctx context.Context, propertyID int) (float64, error) {
	if rate, ok := s.cachedRate(propertyID); ok {
		return rate, nil
	}

	property, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return 0, fmt.Errorf("物件の取得に失敗しました: %w", err)
	}
	if property == nil {
		return 0, model.NewPropertyNotFoundError(propertyID)
	}
	return s.computeRate(*property)
}

// Comparison は2物件の料金比較結果を表す。
type Comparison struct {
	A        model.Property
	B        model.Property
	RateA    float64
	RateB    float64
	Ordering Ordering
}

// Cheaper は安い方の物件IDを返す。同額の場合は0を返す。
func (c *Comparison) Cheaper() int {
	switch c.Ordering {
	case Less:
		return c.A.ID
	case Greater:
		return c.B.ID
	default:
		return 0
	}
}

// Verdict は比較結果を表示用の文に整形する。
func (c *Comparison) Verdict() string {
	if id := c.Cheaper(); id != 0 {
		return fmt.Sprintf("物件 %d の方が安いです。", id)
	}
	return "2つの物件は同じ料金です。"
}

// Compare は2つの物件を実効料金で比較する。
// 存在しない物件があれば、見つからないIDをすべて含む NotFound を返す。
func (s *Service) Compare(ctx context.Context, idA, idB int) (*Comparison, error) {
	a, err := s.properties.FindByID(ctx, idA)
	if err != nil {
		return nil, fmt.Errorf("物件の取得に失敗しました: %w", err)
	}
	b, err := s.properties.FindByID(ctx, idB)
	if err != nil {
		return nil, fmt.Errorf("物件の取得に失敗しました: %w", err)
	}

	var missing []int
	if a == nil {
		missing = append(missing, idA)
	}
	if b == nil {
		missing = append(missing, idB)
	}
	if len(missing) > 0 {
		return nil, model.NewPropertyNotFoundError(missing...)
	}

	rateA, err := s.rateOf(*a)
	if err != nil {
		return nil, err
	}
	rateB, err := s.rateOf(*b)
	if err != nil {
		return nil, err
	}

	return &Comparison{
		A:        *a,
		B:        *b,
		RateA:    rateA,
		RateB:    rateB,
		Ordering: compareRates(rateA, rateB),
	}, nil
}

// Invalidate は物件のキャッシュ済み実効料金を破棄する。
// 物件の削除時に呼び出す。
func (s *Service) Invalidate(propertyID int) {
	if s.cache == nil {
		return
	}
	if s.cache.Delete(cacheKey(propertyID)) {
		slog.Debug("実効料金キャッシュを破棄しました", slog.Int("property_id", propertyID))
	}
}

// rateOf はキャッシュ済みの実効料金を返し、なければ計算する。
func (s *Service) rateOf(p model.Property) (float64, error) {
	if rate, ok := s.cachedRate(p.ID); ok {
		return rate, nil
	}
	return s.computeRate(p)
}

// computeRate は実効料金を計算し、成功した場合のみキャッシュに保存する。
func (s *Service) computeRate(p model.Property) (float64, error) {
	rate, err := EffectiveDailyRate(p)
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		s.cache.Set(cacheKey(p.ID), rate, s.ttl)
	}
	return rate, nil
}

func (s *Service) cachedRate(propertyID int) (float64, bool) {
	if s.cache == nil {
		return 0, false
	}
	item := s.cache.Get(cacheKey(propertyID))
	if item != nil && !item.Expired() {
		s.metrics.RecordRateCacheLookup(true)
		return item.Value(), true
	}
	s.metrics.RecordRateCacheLookup(false)
	return 0, false
}

func cacheKey(propertyID int) string {
	return strconv.Itoa(propertyID)
}
