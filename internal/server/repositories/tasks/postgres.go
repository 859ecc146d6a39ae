package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"taskvault/internal/common"
	"taskvault/internal/dbx"
	"taskvault/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	query := `
		INSERT INTO tasks (user_id, title, description, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	out := &models.Task{
		UserID:      task.UserID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
	}
	if err := r.db.QueryRowContext(ctx, query, task.UserID, task.Title, task.Description, task.Status).
		Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// List builds the WHERE clause dynamically from the filter; the total count
// uses the same conditions so paging metadata stays consistent.
func (r *PostgresRepository) List(ctx context.Context, userID string, filter ListFilter) ([]*models.Task, int64, error) {
	params := []any{userID}
	conditions := []string{"user_id = $1"}

	if filter.Status != "" {
		params = append(params, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(params)))
	}
	if filter.Search != "" {
		params = append(params, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", len(params)))
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM tasks WHERE %s`, where)
	if err := r.db.QueryRowContext(ctx, countQuery, params...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	dataParams := append(params, filter.Limit, filter.Offset)
	dataQuery := fmt.Sprintf(`
		SELECT id, title, description, status, created_at, updated_at
		FROM tasks
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(dataParams)-1, len(dataParams))

	rows, err := r.db.QueryContext(ctx, dataQuery, dataParams...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []*models.Task{}
	for rows.Next() {
		t := &models.Task{UserID: userID}
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return out, total, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string, userID string) (*models.Task, error) {
	query := `
		SELECT id, title, description, status, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`
	t := &models.Task{UserID: userID}
	if err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) Owner(ctx context.Context, id string) (string, error) {
	query := `
		SELECT user_id
		FROM tasks
		WHERE id = $1
	`
	var owner string
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&owner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return owner, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, userID string, title, description, status *string) (*models.Task, error) {
	query := `
		UPDATE tasks
		SET title       = COALESCE($1, title),
		    description = COALESCE($2, description),
		    status      = COALESCE($3, status),
		    updated_at  = NOW()
		WHERE id = $4 AND user_id = $5
		RETURNING id, title, description, status, created_at, updated_at
	`
	t := &models.Task{UserID: userID}
	if err := r.db.QueryRowContext(ctx, query, title, description, status, id, userID).
		Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string, userID string) error {
	query := `
		DELETE FROM tasks
		WHERE id = $1 AND user_id = $2
	`
	if _, err := r.db.ExecContext(ctx, query, id, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
