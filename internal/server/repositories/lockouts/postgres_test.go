package lockouts

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestUpsert(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+lockouts\s*\(client_id,\s*expires_at\)\s*VALUES\s*\(\$1,\s*\$2\)\s*ON\s+CONFLICT\s*\(client_id\)\s*DO\s+UPDATE\s+SET\s+expires_at\s*=\s*EXCLUDED\.expires_at\s*$`

	expires := time.Date(2025, 6, 1, 12, 3, 0, 0, time.UTC)
	mock.ExpectExec(q).
		WithArgs("alice", expires).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Upsert(context.Background(), "alice", expires); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
}

func TestGet_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+client_id,\s*expires_at\s+FROM\s+lockouts\s+WHERE\s+client_id\s*=\s*\$1\s*$`

	expires := time.Date(2025, 6, 1, 12, 3, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"client_id", "expires_at"}).AddRow("alice", expires)
	mock.ExpectQuery(q).
		WithArgs("alice").
		WillReturnRows(rows)

	got, err := repo.Get(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.ClientID != "alice" || !got.ExpiresAt.Equal(expires) {
		t.Fatalf("unexpected lockout: %+v", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+client_id,\s*expires_at\s+FROM\s+lockouts\s+WHERE\s+client_id\s*=\s*\$1\s*$`

	mock.ExpectQuery(q).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+lockouts\s+WHERE\s+client_id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).
		WithArgs("alice").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "alice"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestDeleteExpired(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+lockouts\s+WHERE\s+expires_at\s*<=\s*\$1\s*$`

	now := time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)
	mock.ExpectExec(q).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	got, err := repo.DeleteExpired(context.Background(), now)
	if err != nil {
		t.Fatalf("DeleteExpired error: %v", err)
	}
	if got != 3 {
		t.Fatalf("unexpected affected count: %d", got)
	}
}

func TestDeleteExpired_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+lockouts\s+WHERE\s+expires_at\s*<=\s*\$1\s*$`

	now := time.Now()
	mock.ExpectExec(q).
		WithArgs(now).
		WillReturnError(errors.New("db err"))

	_, err := repo.DeleteExpired(context.Background(), now)
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
