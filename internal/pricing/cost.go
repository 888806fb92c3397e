package pricing

import (
	"time"

	"github.com/hitoshi/basic/internal/model"
)

const day = 24 * time.Hour

// DayCount は開始日から終了日までの暦日数を返す。
// 時刻は切り捨てて日付のみで数える。終了日が開始日以前なら0以下になる。
func DayCount(start, end time.Time) int {
	return int(model.CalendarDay(end).Sub(model.CalendarDay(start)) / day)
}

// ValidateRange は予約期間が1日以上であることを検証する。
func ValidateRange(start, end time.Time) error {
	if DayCount(start, end) < 1 {
		return model.NewInvalidDateRangeError(model.FormatDate(start), model.FormatDate(end))
	}
	return nil
}

// TotalCost は予約の合計金額（実効料金 × 日数）を返す。
// 予約期間が1日未満の場合は InvalidState を返す。
func TotalCost(b model.Booking, p model.Property) (float64, error) {
	if err := ValidateRange(b.StartDate, b.EndDate); err != nil {
		return 0, err
	}
	rate, err := EffectiveDailyRate(p)
	if err != nil {
		return 0, err
	}
	return rate * float64(DayCount(b.StartDate, b.EndDate)), nil
}
