package repository

import (
	"context"
	"sync"

	"github.com/hitoshi/basic/internal/model"
)

// MemoryPropertyRepo はプロセス内メモリを使用した物件リポジトリ。
type MemoryPropertyRepo struct {
	mu         sync.RWMutex
	properties map[int]model.Property
	order      []int
}

// NewMemoryPropertyRepo はMemoryPropertyRepoを生成する。
func NewMemoryPropertyRepo() *MemoryPropertyRepo {
	return &MemoryPropertyRepo{properties: make(map[int]model.Property)}
}

// Create は物件を作成する。IDが既に存在する場合は ErrDuplicate を返す。
func (r *MemoryPropertyRepo) Create(_ context.Context, property *model.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.properties[property.ID]; ok {
		return ErrDuplicate
	}
	r.properties[property.ID] = *property
	r.order = append(r.order, property.ID)
	return nil
}

// FindByID は指定IDの物件を取得する。見つからない場合はnilを返す。
func (r *MemoryPropertyRepo) FindByID(_ context.Context, id int) (*model.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.properties[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// List は登録順に物件一覧を返す。
func (r *MemoryPropertyRepo) List(_ context.Context) ([]*model.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	properties := make([]*model.Property, 0, len(r.order))
	for _, id := range r.order {
		p := r.properties[id]
		properties = append(properties, &p)
	}
	return properties, nil
}

// CountByHostID はホストが所有する物件数を返す。
func (r *MemoryPropertyRepo) CountByHostID(_ context.Context, hostID int) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, p := range r.properties {
		if p.HostID == hostID {
			count++
		}
	}
	return count, nil
}

// DeleteByID は指定IDの物件を削除する。
func (r *MemoryPropertyRepo) DeleteByID(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.properties[id]; !ok {
		return ErrNotFound
	}
	delete(r.properties, id)
	r.order = removeID(r.order, id)
	return nil
}

var _ PropertyRepository = (*MemoryPropertyRepo)(nil)
