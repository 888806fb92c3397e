package model

import (
	"strings"
	"time"
)

// DateLayout はAPIで受け渡す日付の形式。
const DateLayout = "2006-01-02"

// ParseDate は YYYY-MM-DD 形式の日付を解析し、UTCの暦日として返す。
// field はエラーメッセージに含める項目名。
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, NewInvalidDateError(field, value)
	}
	return t, nil
}

// CalendarDay は時刻を切り捨て、同じ年月日のUTC 0時を返す。
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate は日付を YYYY-MM-DD 形式で返す。
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
