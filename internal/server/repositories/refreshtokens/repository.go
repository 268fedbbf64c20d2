// Package refreshtokens stores the opaque refresh tokens issued on login.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/entrust/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking refresh tokens.
type Repository interface {
	// Create stores a new refresh token for memberID with an expiry of now+validity.
	Create(ctx context.Context, memberID string, token string, validity time.Duration) error

	// Find returns the token metadata or common.ErrorNotFound.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes a token. Deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error
}
