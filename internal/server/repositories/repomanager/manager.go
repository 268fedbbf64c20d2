// Package repomanager opens the configured store and vends repositories bound
// to either the shared connection or a transaction.
package repomanager

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/entrust/internal/dbx"
	"github.com/dmitrijs2005/entrust/internal/server/repositories/members"
	"github.com/dmitrijs2005/entrust/internal/server/repositories/refreshtokens"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	// Conn is the non-transactional handle passed to the factories below.
	Conn() dbx.DBTX
	Transactor() dbx.Transactor
	Members(db dbx.DBTX) members.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
	Close() error
}

// Open picks the backend from the DSN scheme:
//
//	postgres://... or postgresql://...  PostgreSQL via pgx
//	sqlite://path/to/file.db            SQLite via modernc.org/sqlite
//	memory://                           process memory, lost on exit
func Open(ctx context.Context, dsn string) (RepositoryManager, error) {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return nil, fmt.Errorf("database dsn %q has no scheme", dsn)
	}

	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		return openSQL(ctx, "pgx", "postgres", dsn)
	case "sqlite", "sqlite3":
		return openSQL(ctx, "sqlite", "sqlite3", sqliteDSN(rest))
	case "memory":
		return NewMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unsupported database scheme %q", scheme)
	}
}

// sqliteDSN turns the path part of a sqlite:// DSN into a modernc DSN with
// foreign keys and a busy timeout enabled.
func sqliteDSN(path string) string {
	if path == "" {
		path = ":memory:"
	}
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return "file:" + path + sep + q.Encode()
}
