package members

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/entrust/internal/common"
	"github.com/dmitrijs2005/entrust/internal/dbx"
	domain "github.com/dmitrijs2005/entrust/internal/members"
)

const memberColumns = `id, phone, password_hash, name, email, dob, location, gender, blood_group,
		member_since, emergency, role, status, photo, joined_date, version`

// SQLRepository implements Repository over dbx.DBTX (satisfied by *sql.DB or
// *sql.Tx). Queries use $n placeholders understood by both pgx and sqlite.
type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (*domain.Member, error) {
	m := &domain.Member{}
	var role, status string
	err := row.Scan(&m.ID, &m.Phone, &m.PasswordHash, &m.Name, &m.Email, &m.DOB, &m.Location, &m.Gender,
		&m.BloodGroup, &m.MemberSince, &m.Emergency, &role, &status, &m.Photo, &m.JoinedDate, &m.Version)
	if err != nil {
		return nil, err
	}
	m.Role = domain.Role(role)
	m.Status = domain.Status(status)
	return m, nil
}

func (r *SQLRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Member, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *SQLRepository) queryOne(ctx context.Context, query string, args ...any) (*domain.Member, error) {
	m, err := scanMember(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

func (r *SQLRepository) List(ctx context.Context) ([]*domain.Member, error) {
	query := `SELECT ` + memberColumns + `
		FROM members
		ORDER BY seq`
	return r.query(ctx, query)
}

func (r *SQLRepository) Get(ctx context.Context, id string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + `
		FROM members
		WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

func (r *SQLRepository) FindByLogin(ctx context.Context, identifier string) ([]*domain.Member, error) {
	query := `SELECT ` + memberColumns + `
		FROM members
		WHERE id = $1 OR phone = $1
		ORDER BY seq`
	return r.query(ctx, query, identifier)
}

func (r *SQLRepository) FindByPhone(ctx context.Context, phone string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + `
		FROM members
		WHERE phone = $1 OR emergency = $1
		ORDER BY seq
		LIMIT 1`
	return r.queryOne(ctx, query, phone)
}

func (r *SQLRepository) Create(ctx context.Context, m *domain.Member) (*domain.Member, error) {
	query := `INSERT INTO members (` + memberColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, 1)
		ON CONFLICT (id) DO NOTHING
		RETURNING version`

	out := m.Clone()
	out.Password = ""
	err := r.db.QueryRowContext(ctx, query,
		m.ID, m.Phone, m.PasswordHash, m.Name, m.Email, m.DOB, m.Location, m.Gender, m.BloodGroup,
		m.MemberSince, m.Emergency, string(m.Role), string(m.Status), m.Photo, m.JoinedDate,
	).Scan(&out.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *SQLRepository) Replace(ctx context.Context, m *domain.Member, expectedVersion int64) (*domain.Member, error) {
	query := `UPDATE members SET
		phone = $2, password_hash = $3, name = $4, email = $5, dob = $6, location = $7, gender = $8,
		blood_group = $9, member_since = $10, emergency = $11, role = $12, status = $13, photo = $14,
		joined_date = $15, version = version + 1
		WHERE id = $1 AND ($16 = 0 OR version = $16)
		RETURNING version`

	out := m.Clone()
	out.Password = ""
	err := r.db.QueryRowContext(ctx, query,
		m.ID, m.Phone, m.PasswordHash, m.Name, m.Email, m.DOB, m.Location, m.Gender, m.BloodGroup,
		m.MemberSince, m.Emergency, string(m.Role), string(m.Status), m.Photo, m.JoinedDate, expectedVersion,
	).Scan(&out.Version)
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("db error: %w", err)
	}

	// nothing updated: either the record is gone or the version moved on
	if _, getErr := r.Get(ctx, m.ID); getErr != nil {
		return nil, getErr
	}
	return nil, common.ErrVersionConflict
}

func (r *SQLRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Member, error) {
	query := `UPDATE members SET status = $2, version = version + 1
		WHERE id = $1
		RETURNING ` + memberColumns
	return r.queryOne(ctx, query, id, string(status))
}
