package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/entrust/internal/common"
	"github.com/dmitrijs2005/entrust/internal/cryptox"
	"github.com/dmitrijs2005/entrust/internal/dbx"
	"github.com/dmitrijs2005/entrust/internal/logging"
	domain "github.com/dmitrijs2005/entrust/internal/members"
	"github.com/dmitrijs2005/entrust/internal/server/auth"
	"github.com/dmitrijs2005/entrust/internal/server/config"
	"github.com/dmitrijs2005/entrust/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Notifier delivers a recovered identifier out of band (SMS, email). The
// HTTP response never carries it.
type Notifier interface {
	NotifyRecoveredID(ctx context.Context, phone, memberID string) error
}

// LogNotifier stands in for an SMS gateway by logging the delivery.
type LogNotifier struct {
	Logger logging.Logger
}

func (n LogNotifier) NotifyRecoveredID(ctx context.Context, phone, memberID string) error {
	n.Logger.Info(ctx, "recovered identifier sent", "phone", phone, "id", memberID)
	return nil
}

// AuthService verifies credentials server-side and mints tokens.
type AuthService struct {
	repomanager                  repomanager.RepositoryManager
	notifier                     Notifier
	logger                       logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewAuthService(m repomanager.RepositoryManager, notifier Notifier, logger logging.Logger, cfg *config.Config) *AuthService {
	return &AuthService{
		repomanager:                  m,
		notifier:                     notifier,
		logger:                       logger.With("module", "auth"),
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Login finds the records whose id or phone equals identifier, in insertion
// order, and signs in the first one whose password verifies. Every failure
// is reported as common.ErrorUnauthorized.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*domain.Member, *TokenPair, error) {
	repo := s.repomanager.Members(s.repomanager.Conn())

	candidates, err := repo.FindByLogin(ctx, identifier)
	if err != nil {
		s.logger.Error(ctx, "login lookup failed", "error", err)
		return nil, nil, common.ErrorInternal
	}

	for _, m := range candidates {
		ok, err := cryptox.VerifyPassword(m.PasswordHash, password)
		if err != nil {
			s.logger.Warn(ctx, "stored hash unreadable", "id", m.ID, "error", err)
			continue
		}
		if !ok {
			continue
		}
		pair, err := s.generateTokenPair(ctx, m.ID, s.repomanager.Conn())
		if err != nil {
			return nil, nil, err
		}
		s.logger.Info(ctx, "member signed in", "id", m.ID)
		return m.Sanitized(), pair, nil
	}

	return nil, nil, common.ErrorUnauthorized
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.repomanager.Conn())

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expired(time.Now()) {
		if err := repo.Delete(ctx, refreshToken); err != nil {
			s.logger.Warn(ctx, "expired refresh token not removed", "member", token.MemberID, "error", err)
		}
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	err = s.repomanager.Transactor().WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.MemberID, tx)
		return genErr
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Authenticate resolves an access token to the current member record.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*domain.Member, error) {
	id, err := auth.GetMemberIDFromToken(accessToken, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	m, err := s.repomanager.Members(s.repomanager.Conn()).Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, err
	}
	return m.Sanitized(), nil
}

// FindID returns the identifier of the first record whose phone or emergency
// phone equals phone.
func (s *AuthService) FindID(ctx context.Context, phone string) (string, error) {
	m, err := s.repomanager.Members(s.repomanager.Conn()).FindByPhone(ctx, phone)
	if err != nil {
		return "", err
	}
	return m.ID, nil
}

// RecoverID looks phone up and, on a match, hands the identifier to the
// notifier. The result is the same whether or not a record matched.
func (s *AuthService) RecoverID(ctx context.Context, phone string) error {
	id, err := s.FindID(ctx, phone)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		s.logger.Info(ctx, "recovery requested for unknown phone")
		return nil
	case err != nil:
		return err
	}

	if err := s.notifier.NotifyRecoveredID(ctx, phone, id); err != nil {
		s.logger.Error(ctx, "recovery notification failed", "error", err)
	}
	return nil
}

// --- helpers below ---

func (s *AuthService) generateAccessToken(memberID string) (string, error) {
	return auth.GenerateToken(memberID, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *AuthService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *AuthService) generateTokenPair(ctx context.Context, memberID string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(memberID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, memberID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
