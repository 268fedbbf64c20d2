package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/entrust/internal/common"
)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewSQLRepository(db), mock, db
}

const (
	insertQ = `(?s)^INSERT\s+INTO\s+refresh_tokens\s*\(id,\s*member_id,\s*token,\s*expires_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*$`
	findQ   = `(?s)^SELECT\s+id,\s*member_id,\s*expires_at\s+FROM\s+refresh_tokens\s+WHERE\s+token\s*=\s*\$1\s*$`
	deleteQ = `(?s)^DELETE\s+FROM\s+refresh_tokens\s+WHERE\s+token\s*=\s*\$1\s*$`
)

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).
		WithArgs(sqlmock.AnyArg(), "COT-1001", "tok123", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), "COT-1001", "tok123", 30*time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).WillReturnError(errors.New("db err"))

	err := repo.Create(context.Background(), "COT-1001", "tok123", time.Minute)
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestFind_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	mock.ExpectQuery(findQ).
		WithArgs("tok123").
		WillReturnRows(sqlmock.NewRows([]string{"id", "member_id", "expires_at"}).AddRow("rt-1", "COT-1001", expires))

	got, err := repo.Find(context.Background(), "tok123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.MemberID != "COT-1001" || got.ID != "rt-1" || got.Token != "tok123" || !got.Expires.Equal(expires) {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestFind_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(findQ).WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err := repo.Find(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteQ).WithArgs("tok123").WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "tok123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDelete_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteQ).WithArgs("tok123").WillReturnError(errors.New("db err"))

	err := repo.Delete(context.Background(), "tok123")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	if err := r.Create(ctx, "COT-1001", "tok", time.Minute); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := r.Find(ctx, "tok")
	if err != nil || got.MemberID != "COT-1001" {
		t.Fatalf("Find: %+v %v", got, err)
	}
	if err := r.Delete(ctx, "tok"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := r.Find(ctx, "tok"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
