package submissions

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestAdd_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+submissions\s*\(client_id,\s*original_text,\s*corrected_text,\s*has_grammar_error,\s*tokens_charged\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+id\s*$`

	rows := sqlmock.NewRows([]string{"id"}).AddRow(int64(7))
	mock.ExpectQuery(q).
		WithArgs("alice", "I is an student.", "I am a student.", true, int64(2)).
		WillReturnRows(rows)

	s := &models.Submission{
		ClientID:        "alice",
		OriginalText:    "I is an student.",
		CorrectedText:   "I am a student.",
		HasGrammarError: true,
		TokensCharged:   2,
	}
	if err := repo.Add(context.Background(), s); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if s.ID != 7 {
		t.Fatalf("unexpected id: %d", s.ID)
	}
}

func TestAdd_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+submissions\s*\(client_id,\s*original_text,\s*corrected_text,\s*has_grammar_error,\s*tokens_charged\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+id\s*$`

	mock.ExpectQuery(q).
		WithArgs("alice", "a", "b", false, int64(0)).
		WillReturnError(errors.New("db down"))

	s := &models.Submission{ClientID: "alice", OriginalText: "a", CorrectedText: "b"}
	err := repo.Add(context.Background(), s)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestListByClient(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*client_id,\s*original_text,\s*corrected_text,\s*has_grammar_error,\s*tokens_charged,\s*created_at\s+FROM\s+submissions\s+WHERE\s+client_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC\s+LIMIT\s+\$2\s*$`

	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "client_id", "original_text", "corrected_text", "has_grammar_error", "tokens_charged", "created_at"}).
		AddRow(int64(2), "alice", "orig2", "corr2", true, int64(3), created).
		AddRow(int64(1), "alice", "orig1", "corr1", false, int64(1), created.Add(-time.Hour))
	mock.ExpectQuery(q).
		WithArgs("alice", 20).
		WillReturnRows(rows)

	got, err := repo.ListByClient(context.Background(), "alice", 20)
	if err != nil {
		t.Fatalf("ListByClient error: %v", err)
	}
	if len(got) != 2 || got[0].ID != 2 || !got[0].HasGrammarError || got[1].TokensCharged != 1 {
		t.Fatalf("unexpected submissions: %+v", got)
	}
}
