// Package services contains server-side business logic: the member
// collection, authentication and card export/publishing.
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
	"github.com/dmitrijs2005/entrust/internal/server/repositories/repomanager"
)

var hashPassword = cryptox.HashPassword

// MemberService owns the member collection resource. Every record it returns
// is sanitized (no password material).
type MemberService struct {
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

func NewMemberService(m repomanager.RepositoryManager, logger logging.Logger) *MemberService {
	return &MemberService{repomanager: m, logger: logger.With("module", "members"), now: time.Now}
}

func sanitizeAll(list []*domain.Member) []*domain.Member {
	out := make([]*domain.Member, len(list))
	for i, m := range list {
		out[i] = m.Sanitized()
	}
	return out
}

// List returns the whole collection to admins and a one-element collection
// holding the caller's own record to everyone else.
func (s *MemberService) List(ctx context.Context, caller *domain.Member) ([]*domain.Member, error) {
	repo := s.repomanager.Members(s.repomanager.Conn())

	if !caller.IsAdmin() {
		m, err := repo.Get(ctx, caller.ID)
		if err != nil {
			return nil, err
		}
		return []*domain.Member{m.Sanitized()}, nil
	}

	list, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return sanitizeAll(list), nil
}

// Get returns one record; callers may read only themselves unless admin.
func (s *MemberService) Get(ctx context.Context, caller *domain.Member, id string) (*domain.Member, error) {
	if !caller.IsAdmin() && caller.ID != id {
		return nil, common.ErrorForbidden
	}
	m, err := s.repomanager.Members(s.repomanager.Conn()).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.Sanitized(), nil
}

// Create stores a self-registration. The caller-chosen identifier is kept;
// status always starts pending and admin cannot be self-assigned.
func (s *MemberService) Create(ctx context.Context, m *domain.Member) (*domain.Member, error) {
	rec := m.Clone()
	if rec.Role == domain.RoleAdmin {
		return nil, fmt.Errorf("%w: admin role cannot be self-assigned", common.ErrorForbidden)
	}
	rec.ApplyRegistrationDefaults(s.now())
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	hash, err := hashPassword(rec.Password)
	if err != nil {
		return nil, common.ErrorInternal
	}
	rec.Password = ""
	rec.PasswordHash = hash
	rec.Version = 0

	created, err := s.repomanager.Members(s.repomanager.Conn()).Create(ctx, rec)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "member registered", "id", created.ID)
	return created.Sanitized(), nil
}

// Replace overwrites the record at id with m. Non-admins may replace only
// their own record and cannot change status or role. An empty password
// keeps the stored hash. m.Version, when non-zero, must match the stored one.
func (s *MemberService) Replace(ctx context.Context, caller *domain.Member, id string, m *domain.Member) (*domain.Member, error) {
	if !caller.IsAdmin() && caller.ID != id {
		return nil, common.ErrorForbidden
	}
	if m.ID != "" && m.ID != id {
		return nil, fmt.Errorf("%w: identifier cannot change", common.ErrorValidation)
	}

	var out *domain.Member
	err := s.repomanager.Transactor().WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Members(tx)

		cur, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}

		if m.Version != 0 && m.Version != cur.Version {
			return common.ErrVersionConflict
		}

		rec := m.Clone()
		rec.ID = id
		if rec.Status == "" {
			rec.Status = cur.Status
		}
		if rec.Role == "" {
			rec.Role = cur.Role
		}
		if !caller.IsAdmin() && (rec.Status != cur.Status || rec.Role != cur.Role) {
			return fmt.Errorf("%w: only an admin can change status or role", common.ErrorForbidden)
		}
		if err := rec.Validate(); err != nil {
			return err
		}

		if rec.Password == "" {
			rec.PasswordHash = cur.PasswordHash
		} else {
			hash, err := hashPassword(rec.Password)
			if err != nil {
				return common.ErrorInternal
			}
			rec.PasswordHash = hash
			rec.Password = ""
		}

		out, err = repo.Replace(ctx, rec, m.Version)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "member replaced", "id", id, "by", caller.ID, "version", out.Version)
	return out.Sanitized(), nil
}

// SetStatus is the administrative verification step.
func (s *MemberService) SetStatus(ctx context.Context, caller *domain.Member, id string, status domain.Status) (*domain.Member, error) {
	if !caller.IsAdmin() {
		return nil, common.ErrorForbidden
	}
	if _, err := domain.ParseStatus(string(status)); err != nil {
		return nil, err
	}
	m, err := s.repomanager.Members(s.repomanager.Conn()).UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "member status changed", "id", id, "status", status, "by", caller.ID)
	return m.Sanitized(), nil
}

// EnsureAdmin creates an active admin account with id and password unless a
// record with that id already exists. An empty password skips bootstrapping.
func (s *MemberService) EnsureAdmin(ctx context.Context, id, password string) error {
	if password == "" {
		return nil
	}
	repo := s.repomanager.Members(s.repomanager.Conn())

	if _, err := repo.Get(ctx, id); err == nil {
		return nil
	} else if !errors.Is(err, common.ErrorNotFound) {
		return err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return common.ErrorInternal
	}
	now := s.now()
	admin := &domain.Member{
		ID:           id,
		Name:         "Administrator",
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Status:       domain.StatusActive,
		MemberSince:  now.Format("2006"),
		JoinedDate:   now.Format(time.DateOnly),
	}
	if err := admin.Validate(); err != nil {
		return err
	}
	if _, err := repo.Create(ctx, admin); err != nil && !errors.Is(err, common.ErrorAlreadyExists) {
		return err
	}
	s.logger.Info(ctx, "bootstrap admin created", "id", id)
	return nil
}
