// Package model はドメインモデルを定義する。
package model

import "time"

// UserKind はユーザー種別を表す。
type UserKind string

const (
	// UserKindHost は物件を所有するホスト。
	UserKindHost UserKind = "host"
	// UserKindStandard は通常会員の顧客。
	UserKindStandard UserKind = "standard"
	// UserKindGold はゴールド会員の顧客。
	UserKindGold UserKind = "gold"
)

// ゴールドレベルの有効範囲
const (
	MinGoldLevel = 1
	MaxGoldLevel = 3
)

// ParseUserKind は文字列をユーザー種別に変換する。
func ParseUserKind(s string) (UserKind, error) {
	switch k := UserKind(s); k {
	case UserKindHost, UserKindStandard, UserKindGold:
		return k, nil
	default:
		return "", NewUnknownUserKindError(s)
	}
}

// User はサービスの利用者（ホストまたは顧客）を表す。
// 種別ごとの項目は Kind に応じて使い分ける。
type User struct {
	ID               int
	Kind             UserKind
	FirstName        string
	LastName         string
	DateOfBirth      time.Time
	RegistrationDate time.Time
	TaxNumber        int64  // host のみ
	PaymentMethod    string // standard, gold のみ
	GoldLevel        int    // gold のみ
}

// IsHost はユーザーがホストかどうかを返す。
func (u User) IsHost() bool {
	return u.Kind == UserKindHost
}

// IsCustomer はユーザーが顧客（通常会員またはゴールド会員）かどうかを返す。
func (u User) IsCustomer() bool {
	return u.Kind == UserKindStandard || u.Kind == UserKindGold
}

// FullName は表示用の氏名を返す。
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
