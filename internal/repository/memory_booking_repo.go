package repository

import (
	"context"
	"sync"

	"github.com/hitoshi/basic/internal/model"
)

// MemoryBookingRepo はプロセス内メモリを使用した予約リポジトリ。
// 予約は作成順のスライスで保持する。
type MemoryBookingRepo struct {
	mu       sync.RWMutex
	bookings []model.Booking
}

// NewMemoryBookingRepo はMemoryBookingRepoを生成する。
func NewMemoryBookingRepo() *MemoryBookingRepo {
	return &MemoryBookingRepo{}
}

// Create は予約を作成する。
func (r *MemoryBookingRepo) Create(_ context.Context, booking *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.bookings {
		if b.ID == booking.ID {
			return ErrDuplicate
		}
	}
	r.bookings = append(r.bookings, *booking)
	return nil
}

// FindByID は指定IDの予約を取得する。見つからない場合はnilを返す。
func (r *MemoryBookingRepo) FindByID(_ context.Context, id string) (*model.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.bookings {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, nil
}

// ListByUserID はユーザーの予約を作成順に返す。
func (r *MemoryBookingRepo) ListByUserID(_ context.Context, userID int) ([]*model.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bookings := []*model.Booking{}
	for _, b := range r.bookings {
		if b.UserID == userID {
			bookings = append(bookings, &b)
		}
	}
	return bookings, nil
}

// FindFirstByUserAndProperty はユーザーの予約のうち指定物件を対象とする最初の予約を返す。
func (r *MemoryBookingRepo) FindFirstByUserAndProperty(_ context.Context, userID, propertyID int) (*model.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.bookings {
		if b.UserID == userID && b.PropertyID == propertyID {
			return &b, nil
		}
	}
	return nil, nil
}

// CountByPropertyID は物件を参照している予約数を返す。
func (r *MemoryBookingRepo) CountByPropertyID(_ context.Context, propertyID int) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, b := range r.bookings {
		if b.PropertyID == propertyID {
			count++
		}
	}
	return count, nil
}

// DeleteByUserID はユーザーの全予約を削除する。
func (r *MemoryBookingRepo) DeleteByUserID(_ context.Context, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.bookings[:0]
	for _, b := range r.bookings {
		if b.UserID != userID {
			kept = append(kept, b)
		}
	}
	r.bookings = kept
	return nil
}

var _ BookingRepository = (*MemoryBookingRepo)(nil)
