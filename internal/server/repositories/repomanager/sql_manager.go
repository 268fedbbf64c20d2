package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/entrust/internal/dbx"
	"github.com/dmitrijs2005/entrust/internal/server/migrations"
	"github.com/dmitrijs2005/entrust/internal/server/repositories/members"
	"github.com/dmitrijs2005/entrust/internal/server/repositories/refreshtokens"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLRepositoryManager vends SQL-backed repositories over one *sql.DB.
type SQLRepositoryManager struct {
	db      *sql.DB
	dialect string
}

// NewSQLRepositoryManager wraps an open database. dialect is a goose dialect
// name ("postgres" or "sqlite3").
func NewSQLRepositoryManager(db *sql.DB, dialect string) *SQLRepositoryManager {
	return &SQLRepositoryManager{db: db, dialect: dialect}
}

var sqlOpen = sql.Open

func openSQL(ctx context.Context, driver, dialect, dsn string) (*SQLRepositoryManager, error) {
	db, err := sqlOpen(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if dialect == "sqlite3" {
		// one writer at a time
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return NewSQLRepositoryManager(db, dialect), nil
}

func (m *SQLRepositoryManager) Conn() dbx.DBTX { return m.db }

func (m *SQLRepositoryManager) Transactor() dbx.Transactor { return dbx.SQLTransactor{DB: m.db} }

func (m *SQLRepositoryManager) Members(db dbx.DBTX) members.Repository {
	return members.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewSQLRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations for this dialect
// and applies them.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(m.dialect); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	if err := gooseUpContext(ctx, m.db, migrations.Dir(m.dialect)); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

func (m *SQLRepositoryManager) Ping(ctx context.Context) error { return m.db.PingContext(ctx) }

func (m *SQLRepositoryManager) Close() error { return m.db.Close() }
