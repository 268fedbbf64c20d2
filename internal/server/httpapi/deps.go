// Package httpapi exposes the member collection resource, authentication,
// card export and the devotional assistant over JSON/HTTP using chi.
package httpapi

import (
	"context"

	"github.com/dmitrijs2005/entrust/internal/card"
	domain "github.com/dmitrijs2005/entrust/internal/members"
	"github.com/dmitrijs2005/entrust/internal/server/services"
)

type MemberService interface {
	List(ctx context.Context, caller *domain.Member) ([]*domain.Member, error)
	Get(ctx context.Context, caller *domain.Member, id string) (*domain.Member, error)
	Create(ctx context.Context, m *domain.Member) (*domain.Member, error)
	Replace(ctx context.Context, caller *domain.Member, id string, m *domain.Member) (*domain.Member, error)
	SetStatus(ctx context.Context, caller *domain.Member, id string, status domain.Status) (*domain.Member, error)
}

type AuthService interface {
	Login(ctx context.Context, identifier, password string) (*domain.Member, *services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Authenticate(ctx context.Context, accessToken string) (*domain.Member, error)
	RecoverID(ctx context.Context, phone string) error
}

type CardService interface {
	Export(ctx context.Context, caller *domain.Member, id string, f card.Format) (*services.Artifact, error)
	Publish(ctx context.Context, caller *domain.Member, id string) (*services.Publication, error)
}

type Assistant interface {
	Ask(ctx context.Context, topic string) string
}
