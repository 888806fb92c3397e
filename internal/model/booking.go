package model

import "time"

// Booking はユーザーによる物件の予約を表す。
// ユーザーと物件はIDで参照する。StartDate と EndDate は暦日として扱う。
type Booking struct {
	ID         string
	UserID     int
	PropertyID int
	StartDate  time.Time
	EndDate    time.Time
	Paid       bool
	CreatedAt  time.Time
}
