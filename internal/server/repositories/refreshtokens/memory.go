package refreshtokens

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/entrust/internal/common"
	"github.com/dmitrijs2005/entrust/internal/server/models"
	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu     sync.Mutex
	tokens map[string]models.RefreshToken
	now    func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{tokens: make(map[string]models.RefreshToken), now: time.Now}
}

func (r *MemoryRepository) Create(_ context.Context, memberID string, token string, validity time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.tokens[token] = models.RefreshToken{
		ID:        uuid.NewString(),
		MemberID:  memberID,
		Token:     token,
		Expires:   now.Add(validity),
		CreatedAt: now,
	}
	return nil
}

func (r *MemoryRepository) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &t, nil
}

func (r *MemoryRepository) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}
