// Package pricing は物件の1日あたりの実効料金、料金比較、予約の合計金額を計算する。
package pricing

import "github.com/hitoshi/basic/internal/model"

// 一棟貸し物件の面積区分（平方メートル）。下限側を含む。
const (
	smallSizeLimit  = 200
	mediumSizeLimit = 300
)

// TaxRate は一棟貸し物件の面積に応じた税率を返す。
//   - 200㎡以下: 1%
//   - 300㎡以下: 3%
//   - それ以上: 4%
func TaxRate(sizeSqm float64) float64 {
	switch {
	case sizeSqm <= smallSizeLimit:
		return 0.01
	case sizeSqm <= mediumSizeLimit:
		return 0.03
	default:
		return 0.04
	}
}

// EffectiveDailyRate は物件種別に応じた1日あたりの実効料金を返す。
// 共有物件は基本料金を寝室数で割り、一棟貸し物件は面積に応じた税を加算する。
// 寝室数が0以下の共有物件は InvalidState を返す。
func EffectiveDailyRate(p model.Property) (float64, error) {
	switch p.Kind {
	case model.PropertyKindShared:
		if p.Bedrooms <= 0 {
			return 0, model.NewZeroBedroomsError(p.ID)
		}
		return p.PricePerDay / float64(p.Bedrooms), nil
	case model.PropertyKindFull:
		return p.PricePerDay * (1 + TaxRate(p.SizeSqm)), nil
	default:
		return 0, model.NewUnknownPropertyKindError(string(p.Kind))
	}
}
