package repository

import (
	"context"
	"sync"

	"github.com/hitoshi/basic/internal/model"
)

// MemoryUserRepo はプロセス内メモリを使用したユーザーリポジトリ。
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[int]model.User
	order []int
}

// NewMemoryUserRepo はMemoryUserRepoを生成する。
func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[int]model.User)}
}

// Create はユーザーを作成する。IDが既に存在する場合は ErrDuplicate を返す。
func (r *MemoryUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; ok {
		return ErrDuplicate
	}
	r.users[user.ID] = *user
	r.order = append(r.order, user.ID)
	return nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *MemoryUserRepo) FindByID(_ context.Context, id int) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// List は登録順にユーザー一覧を返す。
func (r *MemoryUserRepo) List(_ context.Context) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*model.User, 0, len(r.order))
	for _, id := range r.order {
		u := r.users[id]
		users = append(users, &u)
	}
	return users, nil
}

// DeleteByID は指定IDのユーザーを削除する。
func (r *MemoryUserRepo) DeleteByID(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.users, id)
	r.order = removeID(r.order, id)
	return nil
}

// removeID は順序を保ったままスライスから id を取り除く。
func removeID(ids []int, id int) []int {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

var _ UserRepository = (*MemoryUserRepo)(nil)
