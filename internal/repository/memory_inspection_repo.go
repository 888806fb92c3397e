package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hitoshi/basic/internal/model"
)

// MemoryInspectionRepo はプロセス内メモリを使用した点検記録リポジトリ。
// 物件IDごとに日付をキーとしたマップで保持する。
type MemoryInspectionRepo struct {
	mu   sync.RWMutex
	logs map[int]map[time.Time]model.Inspection
}

// NewMemoryInspectionRepo はMemoryInspectionRepoを生成する。
func NewMemoryInspectionRepo() *MemoryInspectionRepo {
	return &MemoryInspectionRepo{logs: make(map[int]map[time.Time]model.Inspection)}
}

// Upsert は物件と日付をキーに点検記録を保存する。同じ日の記録は上書きする。
func (r *MemoryInspectionRepo) Upsert(_ context.Context, inspection *model.Inspection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	log, ok := r.logs[inspection.PropertyID]
	if !ok {
		log = make(map[time.Time]model.Inspection)
		r.logs[inspection.PropertyID] = log
	}
	log[model.CalendarDay(inspection.Day)] = *inspection
	return nil
}

// ListByPropertyID は物件の点検記録を日付順に返す。
func (r *MemoryInspectionRepo) ListByPropertyID(_ context.Context, propertyID int) ([]*model.Inspection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inspections := []*model.Inspection{}
	for _, in := range r.logs[propertyID] {
		inspections = append(inspections, &in)
	}
	sort.Slice(inspections, func(i, j int) bool {
		return inspections[i].Day.Before(inspections[j].Day)
	})
	return inspections, nil
}

// FindByPropertyAndDay は指定日の点検記録を返す。見つからない場合はnilを返す。
func (r *MemoryInspectionRepo) FindByPropertyAndDay(_ context.Context, propertyID int, day time.Time) (*model.Inspection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	in, ok := r.logs[propertyID][model.CalendarDay(day)]
	if !ok {
		return nil, nil
	}
	return &in, nil
}

// DeleteByPropertyID は物件の点検記録を全て削除する。
func (r *MemoryInspectionRepo) DeleteByPropertyID(_ context.Context, propertyID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.logs, propertyID)
	return nil
}

var _ InspectionRepository = (*MemoryInspectionRepo)(nil)
