package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/entrust/internal/logging"
	domain "github.com/dmitrijs2005/entrust/internal/members"
)

// MemberAPI is the remote collection resource.
type MemberAPI interface {
	ListMembers(ctx context.Context) ([]*domain.Member, error)
	GetMember(ctx context.Context, id string) (*domain.Member, error)
	CreateMember(ctx context.Context, m *domain.Member) (*domain.Member, error)
	UpdateMember(ctx context.Context, m *domain.Member) (*domain.Member, error)
	SetStatus(ctx context.Context, id string, status domain.Status) (*domain.Member, error)
}

// MemberStore mirrors the server collection in a map keyed by identifier.
// The server stays authoritative; the map is refreshed by every call.
type MemberStore struct {
	api    MemberAPI
	logger logging.Logger

	mu    sync.RWMutex
	cache map[string]*domain.Member
}

func NewMemberStore(api MemberAPI, logger logging.Logger) *MemberStore {
	return &MemberStore{api: api, logger: logger.With("module", "member_store"), cache: map[string]*domain.Member{}}
}

// ListMembers returns the current collection. A remote failure is logged and
// yields an empty collection.
func (s *MemberStore) ListMembers(ctx context.Context) []*domain.Member {
	list, err := s.api.ListMembers(ctx)
	if err != nil {
		s.logger.Warn(ctx, "list members failed", "error", err)
		return []*domain.Member{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*domain.Member, len(list))
	for _, m := range list {
		s.cache[m.ID] = m.Clone()
	}
	return list
}

// Fetch reloads one record from the server.
func (s *MemberStore) Fetch(ctx context.Context, id string) (*domain.Member, error) {
	m, err := s.api.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}
	s.remember(m)
	return m, nil
}

func (s *MemberStore) CreateMember(ctx context.Context, m *domain.Member) (*domain.Member, error) {
	created, err := s.api.CreateMember(ctx, m)
	if err != nil {
		return nil, err
	}
	s.remember(created)
	return created, nil
}

func (s *MemberStore) UpdateMember(ctx context.Context, m *domain.Member) (*domain.Member, error) {
	updated, err := s.api.UpdateMember(ctx, m)
	if err != nil {
		return nil, err
	}
	s.remember(updated)
	return updated, nil
}

// SetStatus is the admin verification step.
func (s *MemberStore) SetStatus(ctx context.Context, id string, status domain.Status) (*domain.Member, error) {
	updated, err := s.api.SetStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.remember(updated)
	return updated, nil
}

// Get is a lookup in the local copy only.
func (s *MemberStore) Get(id string) (*domain.Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.cache[id]
	if !ok {
		return nil, false
	}
	return m.Clone(), true
}

func (s *MemberStore) remember(m *domain.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[m.ID] = m.Clone()
}
