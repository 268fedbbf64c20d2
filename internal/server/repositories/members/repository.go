// Package members stores member records. The SQL implementation runs on
// PostgreSQL (pgx) and SQLite; the in-memory one backs memory:// DSNs and tests.
package members

import (
	"context"

	domain "github.com/dmitrijs2005/entrust/internal/members"
)

// Repository is the persistence contract for member records. Every method
// returns records in insertion order and never mutates its arguments.
type Repository interface {
	List(ctx context.Context) ([]*domain.Member, error)
	Get(ctx context.Context, id string) (*domain.Member, error)
	// FindByLogin returns all records whose id or phone equals identifier.
	FindByLogin(ctx context.Context, identifier string) ([]*domain.Member, error)
	// FindByPhone returns the first record whose phone or emergency phone equals phone.
	FindByPhone(ctx context.Context, phone string) (*domain.Member, error)
	// Create stores m with version 1. A taken id yields common.ErrorAlreadyExists.
	Create(ctx context.Context, m *domain.Member) (*domain.Member, error)
	// Replace overwrites the record with m.ID and bumps its version. When
	// expectedVersion is non-zero it must match the stored version, otherwise
	// common.ErrVersionConflict is returned.
	Replace(ctx context.Context, m *domain.Member, expectedVersion int64) (*domain.Member, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Member, error)
}
