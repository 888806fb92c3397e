// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/hitoshi/basic/internal/model"
)

// ErrDuplicate は主キーが既に存在する場合に返される。
var ErrDuplicate = errors.New("duplicate identifier")

// ErrNotFound は削除対象が存在しない場合に返される。
var ErrNotFound = errors.New("record not found")

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。IDが既に存在する場合は ErrDuplicate を返す。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int) (*model.User, error)

	// List は登録順にユーザー一覧を返す。
	List(ctx context.Context) ([]*model.User, error)

	// DeleteByID は指定IDのユーザーを削除する。存在しない場合は ErrNotFound を返す。
	DeleteByID(ctx context.Context, id int) error
}

// PropertyRepository は物件データの永続化インターフェース。
type PropertyRepository interface {
	// Create は物件を作成する。IDが既に存在する場合は ErrDuplicate を返す。
	Create(ctx context.Context, property *model.Property) error

	// FindByID は指定IDの物件を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int) (*model.Property, error)

	// List は登録順に物件一覧を返す。
	List(ctx context.Context) ([]*model.Property, error)

	// CountByHostID はホストが所有する物件数を返す。
	CountByHostID(ctx context.Context, hostID int) (int, error)

	// DeleteByID は指定IDの物件を削除する。存在しない場合は ErrNotFound を返す。
	DeleteByID(ctx context.Context, id int) error
}

// BookingRepository は予約データの永続化インターフェース。
// 予約はユーザーごとに作成順の列として扱う。
type BookingRepository interface {
	// Create は予約を作成する。参照先のユーザーまたは物件が存在しない場合は ErrNotFound を返す。
	Create(ctx context.Context, booking *model.Booking) error

	// FindByID は指定IDの予約を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Booking, error)

	// ListByUserID はユーザーの予約を作成順に返す。
	ListByUserID(ctx context.Context, userID int) ([]*model.Booking, error)

	// FindFirstByUserAndProperty はユーザーの予約のうち、指定物件を対象とする最初の予約を返す。
	// 見つからない場合はnilを返す。
	FindFirstByUserAndProperty(ctx context.Context, userID, propertyID int) (*model.Booking, error)

	// CountByPropertyID は物件を参照している予約数を返す。
	CountByPropertyID(ctx context.Context, propertyID int) (int, error)

	// DeleteByUserID はユーザーの全予約を削除する。
	DeleteByUserID(ctx context.Context, userID int) error
}

// InspectionRepository は点検記録の永続化インターフェース。
type InspectionRepository interface {
	// Upsert は物件と日付をキーに点検記録を保存する。同じキーの記録は上書きする。
	Upsert(ctx context.Context, inspection *model.Inspection) error

	// ListByPropertyID は物件の点検記録を日付順に返す。
	ListByPropertyID(ctx context.Context, propertyID int) ([]*model.Inspection, error)

	// FindByPropertyAndDay は指定日の点検記録を返す。見つからない場合はnilを返す。
	FindByPropertyAndDay(ctx context.Context, propertyID int, day time.Time) (*model.Inspection, error)

	// DeleteByPropertyID は物件の点検記録を全て削除する。
	DeleteByPropertyID(ctx context.Context, propertyID int) error
}
