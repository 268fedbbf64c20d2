package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dmitrijs2005/entrust/internal/client/client"
	"github.com/dmitrijs2005/entrust/internal/client/notice"
	"github.com/dmitrijs2005/entrust/internal/logging"
	domain "github.com/dmitrijs2005/entrust/internal/members"
)

// AuthAPI is the server's authentication gate.
type AuthAPI interface {
	Login(ctx context.Context, identifier, password string) (*domain.Member, error)
	Logout()
	RecoverID(ctx context.Context, phone string) (string, error)
}

// Session holds the signed-in member. Tokens live in the API client.
type Session struct {
	api    AuthAPI
	logger logging.Logger

	mu      sync.RWMutex
	current *domain.Member
}

func NewSession(api AuthAPI, logger logging.Logger) *Session {
	return &Session{api: api, logger: logger.With("module", "session")}
}

// Login signs in with an identifier or phone number.
func (s *Session) Login(ctx context.Context, identifier, password string) notice.Notice {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return notice.Warningf("Enter your member ID or phone and your password.")
	}

	m, err := s.api.Login(ctx, identifier, password)
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		return notice.Errorf("Invalid credentials.")
	case errors.Is(err, client.ErrUnavailable):
		return notice.Errorf("The server is unreachable, try again later.")
	case err != nil:
		s.logger.Error(ctx, "login failed", "error", err)
		return notice.Errorf("Sign-in failed.")
	}

	s.set(m)
	return notice.Successf("Welcome back, %s.", m.Name)
}

func (s *Session) Logout() notice.Notice {
	s.api.Logout()
	s.set(nil)
	return notice.Infof("Signed out.")
}

// RecoverID asks for the identifier to be sent to phone. The answer is the
// same whether or not the phone is registered.
func (s *Session) RecoverID(ctx context.Context, phone string) notice.Notice {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return notice.Warningf("Enter the phone number you registered with.")
	}
	msg, err := s.api.RecoverID(ctx, phone)
	if err != nil {
		s.logger.Warn(ctx, "recover id failed", "error", err)
		return notice.Errorf("Could not request your member ID: %v", err)
	}
	return notice.Infof("%s", msg)
}

// Current returns a copy of the signed-in member, or nil.
func (s *Session) Current() *domain.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

func (s *Session) SignedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil && s.current.IsAdmin()
}

// Update swaps in a fresher copy of the signed-in record.
func (s *Session) Update(m *domain.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil && m != nil && s.current.ID == m.ID {
		s.current = m.Clone()
	}
}

func (s *Session) set(m *domain.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = m.Clone()
}
