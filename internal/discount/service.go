package discount

import (
	"context"
	"fmt"
	"time"

	"github.com/hitoshi/basic/internal/model"
)

// UserFinder はユーザーの取得インターフェース。
type UserFinder interface {
	FindByID(ctx context.Context, id int) (*model.User, error)
}

// Service は割引率照会のサービス層。
// 現在時刻は注入された時計から取得する。
type Service struct {
	users UserFinder
	now   func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
// now が nil の場合は time.Now を使用する。
func NewService(users UserFinder, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{users: users, now: now}
}

// Rate は指定ユーザーの現在の割引率を返す。
// ユーザーが存在しない場合は NotFound を返す。
func (s *Service) Rate(ctx context.Context, userID int) (float64, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return 0, model.NewUserNotFoundError(userID)
	}
	return Rate(*user, s.now())
}
