package pricing

import (
	"testing"

	"github.com/hitoshi/basic/internal/model"
)

// TestCompare は実効料金による大小比較を検証する。
func TestCompare(t *testing.T) {
	cheap := shared(1, 2, 100)      // 50
	pricey := full(2, 150, 250)     // 252.5
	sameAsCheap := shared(3, 1, 50) // 50

	tests := []struct {
		name string
		a, b model.Property
		want Ordering
	}{
		{"安い方が左辺", cheap, pricey, Less},
		{"高い方が左辺", pricey, cheap, Greater},
		{"同額", cheap, sameAsCheap, Equal},
		{"同一物件", pricey, pricey, Equal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compare(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Compare = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestCompare_Antisymmetric は compare(a,b) == -compare(b,a) を検証する。
func TestCompare_Antisymmetric(t *testing.T) {
	properties := []model.Property{
		shared(1, 2, 100),
		shared(2, 4, 200),
		shared(3, 3, 90),
		full(4, 150, 49.5),
		full(5, 250, 50),
		full(6, 400, 1000),
	}
	for _, a := range properties {
		for _, b := range properties {
			ab, err := Compare(a, b)
			if err != nil {
				t.Fatalf("Compare(%d,%d): %v", a.ID, b.ID, err)
			}
			ba, _ := Compare(b, a)
			if ab != -ba {
				t.Errorf("Compare(%d,%d) = %v but Compare(%d,%d) = %v", a.ID, b.ID, ab, b.ID, a.ID, ba)
			}
		}
	}
}

// TestCompare_Transitive は a<b かつ b<c なら a<c であることを検証する。
func TestCompare_Transitive(t *testing.T) {
	a, b, c := shared(1, 4, 100), shared(2, 2, 100), full(3, 320, 100)

	ab, _ := Compare(a, b)
	bc, _ := Compare(b, c)
	ac, _ := Compare(a, c)
	if ab != Less || bc != Less || ac != Less {
		t.Errorf("expected a < b < c, got ab=%v bc=%v ac=%v", ab, bc, ac)
	}
}

// TestCompare_PropagatesPricingError は料金を計算できない物件との比較がエラーになることを検証する。
func TestCompare_PropagatesPricingError(t *testing.T) {
	_, err := Compare(shared(1, 2, 100), shared(2, 0, 100))
	if model.KindOf(err) != model.KindInvalidState {
		t.Errorf("err = %v, want invalid_state", err)
	}
}

// TestOrdering_String は比較結果の文字列表現を検証する。
func TestOrdering_String(t *testing.T) {
	if Less.String() != "less" || Equal.String() != "equal" || Greater.String() != "greater" {
		t.Errorf("unexpected strings: %s %s %s", Less, Equal, Greater)
	}
}
