package model

// PropertyKind は物件種別を表す。
type PropertyKind string

const (
	// PropertyKindShared は寝室単位で貸し出す共有物件。
	PropertyKindShared PropertyKind = "shared"
	// PropertyKindFull は一棟貸しの物件。
	PropertyKindFull PropertyKind = "full"
)

// ParsePropertyKind は文字列を物件種別に変換する。
func ParsePropertyKind(s string) (PropertyKind, error) {
	switch k := PropertyKind(s); k {
	case PropertyKindShared, PropertyKindFull:
		return k, nil
	default:
		return "", NewUnknownPropertyKindError(s)
	}
}

// Property は貸し出し物件を表す。
// 所有ホストはIDで参照し、利用時にレジストリ経由で解決する。
type Property struct {
	ID          int
	Kind        PropertyKind
	HostID      int
	Bedrooms    int
	Rooms       int
	City        string
	PricePerDay float64
	SizeSqm     float64 // full のみ
}
