package tasks

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"taskvault/internal/common"
	"taskvault/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func strptr(s string) *string { return &s }

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+tasks\b.*RETURNING\s+id,\s*created_at,\s*updated_at\s*$`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
		AddRow("t1", now, now)

	mock.ExpectQuery(q).
		WithArgs("u1", "buy milk", "ciphertext", "todo").
		WillReturnRows(rows)

	task, err := repo.Create(context.Background(), &models.Task{
		UserID:      "u1",
		Title:       "buy milk",
		Description: strptr("ciphertext"),
		Status:      "todo",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID != "t1" || task.Title != "buy milk" {
		t.Fatalf("unexpected task: %+v", task)
	}
}

func TestCreate_NilDescription(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+tasks\b`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs("u1", "no notes", nil, "todo").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("t2", now, now))

	task, err := repo.Create(context.Background(), &models.Task{UserID: "u1", Title: "no notes", Status: "todo"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Description != nil {
		t.Fatalf("expected nil description, got %v", *task.Description)
	}
}

func TestList_NoFilters(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	countQ := `(?s)^\s*SELECT\s+COUNT\(\*\)\s+FROM\s+tasks\s+WHERE\s+user_id\s*=\s*\$1\s*$`
	dataQ := `(?s)^\s*SELECT\s+id,\s*title,\s*description,\s*status.*WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC\s+LIMIT\s+\$2\s+OFFSET\s+\$3\s*$`

	mock.ExpectQuery(countQ).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	now := time.Now()
	mock.ExpectQuery(dataQ).
		WithArgs("u1", 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "status", "created_at", "updated_at"}).
			AddRow("t2", "later", nil, "todo", now, now).
			AddRow("t1", "first", "enc", "done", now.Add(-time.Hour), now.Add(-time.Hour)))

	list, total, err := repo.List(context.Background(), "u1", ListFilter{Limit: 20, Offset: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Fatalf("unexpected result: total=%d len=%d", total, len(list))
	}
	if list[0].ID != "t2" || list[1].ID != "t1" {
		t.Fatalf("unexpected order: %v, %v", list[0].ID, list[1].ID)
	}
}

func TestList_StatusAndSearchFilters(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	countQ := `(?s)^\s*SELECT\s+COUNT\(\*\)\s+FROM\s+tasks\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+status\s*=\s*\$2\s+AND\s+title\s+ILIKE\s+\$3\s*$`
	dataQ := `(?s)LIMIT\s+\$4\s+OFFSET\s+\$5\s*$`

	mock.ExpectQuery(countQ).
		WithArgs("u1", "todo", "%fix%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	now := time.Now()
	mock.ExpectQuery(dataQ).
		WithArgs("u1", "todo", "%fix%", 10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "status", "created_at", "updated_at"}).
			AddRow("t9", "fix the door", nil, "todo", now, now))

	list, total, err := repo.List(context.Background(), "u1", ListFilter{Status: "todo", Search: "fix", Limit: 10, Offset: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].Title != "fix the door" {
		t.Fatalf("unexpected result: total=%d list=%+v", total, list)
	}
}

func TestGet_ScopedToOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s*$`

	mock.ExpectQuery(q).
		WithArgs("t1", "intruder").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "t1", "intruder")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound for foreign task, got %v", err)
	}
}

func TestOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+user_id\s+FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectQuery(q).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("u1"))

	owner, err := repo.Owner(context.Background(), "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if owner != "u1" {
		t.Fatalf("unexpected owner: %q", owner)
	}

	mock.ExpectQuery(q).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.Owner(context.Background(), "missing"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestUpdate_PartialFields(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*UPDATE\s+tasks\s+SET\s+title\s*=\s*COALESCE\(\$1,\s*title\).*WHERE\s+id\s*=\s*\$4\s+AND\s+user_id\s*=\s*\$5\b`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs(nil, nil, "done", "t1", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "status", "created_at", "updated_at"}).
			AddRow("t1", "buy milk", nil, "done", now, now))

	task, err := repo.Update(context.Background(), "t1", "u1", nil, nil, strptr("done"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Status != "done" || task.Title != "buy milk" {
		t.Fatalf("unexpected task: %+v", task)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*DELETE\s+FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s*$`

	mock.ExpectExec(q).
		WithArgs("t1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "t1", "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
