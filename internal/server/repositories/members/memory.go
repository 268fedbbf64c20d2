package members

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/entrust/internal/common"
	domain "github.com/dmitrijs2005/entrust/internal/members"
)

// MemoryRepository keeps records in a map keyed by id plus a slice that
// preserves insertion order. Records are copied on the way in and out.
type MemoryRepository struct {
	mu    sync.RWMutex
	byID  map[string]*domain.Member
	order []string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]*domain.Member)}
}

func (r *MemoryRepository) List(_ context.Context) ([]*domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Member, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].Clone())
	}
	return out, nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return m.Clone(), nil
}

func (r *MemoryRepository) FindByLogin(_ context.Context, identifier string) ([]*domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Member, 0)
	for _, id := range r.order {
		m := r.byID[id]
		if m.ID == identifier || m.Phone == identifier {
			out = append(out, m.Clone())
		}
	}
	return out, nil
}

func (r *MemoryRepository) FindByPhone(_ context.Context, phone string) (*domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		m := r.byID[id]
		if m.Phone == phone || m.Emergency == phone {
			return m.Clone(), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) Create(_ context.Context, m *domain.Member) (*domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[m.ID]; ok {
		return nil, common.ErrorAlreadyExists
	}
	stored := m.Clone()
	stored.Password = ""
	stored.Version = 1
	r.byID[m.ID] = stored
	r.order = append(r.order, m.ID)
	return stored.Clone(), nil
}

func (r *MemoryRepository) Replace(_ context.Context, m *domain.Member, expectedVersion int64) (*domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[m.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if expectedVersion != 0 && cur.Version != expectedVersion {
		return nil, common.ErrVersionConflict
	}
	stored := m.Clone()
	stored.Password = ""
	stored.Version = cur.Version + 1
	r.byID[m.ID] = stored
	return stored.Clone(), nil
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, id string, status domain.Status) (*domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cur.Status = status
	cur.Version++
	return cur.Clone(), nil
}
