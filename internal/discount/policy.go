// Package discount は利用者の種別と会員歴に応じた割引率を計算する。
package discount

import (
	"time"

	"github.com/hitoshi/basic/internal/model"
)

// 通常会員の長期割引の条件と割引率
const (
	LoyaltyYears = 10
	LoyaltyRate  = 2.0
)

// Rate はユーザー種別に応じた割引率を返す。
//   - ホスト: 0
//   - ゴールド会員: ゴールドレベルの値そのもの（1〜3）
//   - 通常会員: 登録から now までの満年数が10年以上なら 2.0、それ以外は 0
//
// now は呼び出し側が時計から取得して渡す。
func Rate(u model.User, now time.Time) (float64, error) {
	switch u.Kind {
	case model.UserKindHost:
		return 0, nil
	case model.UserKindGold:
		if u.GoldLevel < model.MinGoldLevel || u.GoldLevel > model.MaxGoldLevel {
			return 0, model.NewInvalidGoldLevelError(u.GoldLevel)
		}
		return float64(u.GoldLevel), nil
	case model.UserKindStandard:
		if ElapsedYears(u.RegistrationDate, now) >= LoyaltyYears {
			return LoyaltyRate, nil
		}
		return 0, nil
	default:
		return 0, model.NewUnknownUserKindError(string(u.Kind))
	}
}

// ElapsedYears は from から now までの満年数を返す。
// now の年の記念日（月日）にまだ達していなければ1年減らす。
// 2月29日登録の場合、平年は3月1日に達した時点で1年とする。
func ElapsedYears(from, now time.Time) int {
	years := now.Year() - from.Year()
	if now.Month() < from.Month() || (now.Month() == from.Month() && now.Day() < from.Day()) {
		years--
	}
	return years
}
