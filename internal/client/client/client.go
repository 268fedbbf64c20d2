package client

import (
	"context"

	"github.com/dmitrijs2005/entrust/internal/card"
	domain "github.com/dmitrijs2005/entrust/internal/members"
)

// Client is the server API as seen by the terminal tools.
type Client interface {
	Login(ctx context.Context, identifier, password string) (*domain.Member, error)
	Logout()
	RecoverID(ctx context.Context, phone string) (string, error)

	ListMembers(ctx context.Context) ([]*domain.Member, error)
	GetMember(ctx context.Context, id string) (*domain.Member, error)
	CreateMember(ctx context.Context, m *domain.Member) (*domain.Member, error)
	UpdateMember(ctx context.Context, m *domain.Member) (*domain.Member, error)
	SetStatus(ctx context.Context, id string, status domain.Status) (*domain.Member, error)

	Card(ctx context.Context, id string, f card.Format) ([]byte, error)
	Ask(ctx context.Context, topic string) (string, error)
}
