package pricing

import "github.com/hitoshi/basic/internal/model"

// Ordering は2つの物件の料金比較結果を表す。
type Ordering int

const (
	// Less は左辺の実効料金が安いことを表す。
	Less Ordering = -1
	// Equal は実効料金が等しいことを表す。
	Equal Ordering = 0
	// Greater は左辺の実効料金が高いことを表す。
	Greater Ordering = 1
)

// String は比較結果の文字列表現を返す。
func (o Ordering) String() string {
	switch o {
	case Less:
		return "less"
	case Greater:
		return "greater"
	default:
		return "equal"
	}
}

// Compare は2つの物件を実効料金で比較する。
// 料金が同じ場合は Equal を返し、エラーにはしない。
func Compare(a, b model.Property) (Ordering, error) {
	rateA, err := EffectiveDailyRate(a)
	if err != nil {
		return Equal, err
	}
	rateB, err := EffectiveDailyRate(b)
	if err != nil {
		return Equal, err
	}
	return compareRates(rateA, rateB), nil
}

func compareRates(a, b float64) Ordering {
	switch {
	case a < b:
		return Less
	case a > b:
		return Greater
	default:
		return Equal
	}
}
