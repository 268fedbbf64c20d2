package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/entrust/internal/dbx"
	"github.com/dmitrijs2005/entrust/internal/server/repositories/members"
	"github.com/dmitrijs2005/entrust/internal/server/repositories/refreshtokens"
)

// MemoryRepositoryManager hands out the same in-memory repositories
// regardless of the DBTX passed in. Units of work are serialized.
type MemoryRepositoryManager struct {
	members       *members.MemoryRepository
	refreshTokens *refreshtokens.MemoryRepository
	tx            *memoryTransactor
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		members:       members.NewMemoryRepository(),
		refreshTokens: refreshtokens.NewMemoryRepository(),
		tx:            &memoryTransactor{},
	}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Conn() dbx.DBTX { return nil }

func (m *MemoryRepositoryManager) Transactor() dbx.Transactor { return m.tx }

func (m *MemoryRepositoryManager) Members(dbx.DBTX) members.Repository { return m.members }

func (m *MemoryRepositoryManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return m.refreshTokens
}

func (m *MemoryRepositoryManager) Ping(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Close() error { return nil }

// memoryTransactor gives no rollback; it only keeps units of work from
// interleaving.
type memoryTransactor struct {
	mu sync.Mutex
}

func (t *memoryTransactor) WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx, nil)
}
