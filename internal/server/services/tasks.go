package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"taskvault/internal/common"
	"taskvault/internal/cryptox"
	"taskvault/internal/server/models"
	"taskvault/internal/server/repositories/repomanager"
	"taskvault/internal/server/repositories/tasks"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// TaskList is one page of a user's tasks plus paging metadata.
type TaskList struct {
	Tasks      []*models.Task
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// TaskService owns task CRUD. Descriptions are encrypted before they reach
// the repository and decrypted on the way out, so the storage layer only
// ever sees ciphertext.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cipher      *cryptox.FieldCipher
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager, cipher *cryptox.FieldCipher) *TaskService {
	return &TaskService{db: db, repomanager: m, cipher: cipher}
}

// Create validates and stores a new task for userID.
func (s *TaskService) Create(ctx context.Context, userID, title string, description *string, status string) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, common.ErrorTitleRequired
	}
	if status == "" {
		status = models.TaskStatusTodo
	}
	if !models.ValidTaskStatus(status) {
		return nil, common.ErrorInvalidStatus
	}

	enc, err := s.cipher.Encrypt(description)
	if err != nil {
		return nil, fmt.Errorf("error encrypting description: %w", err)
	}

	task, err := s.repomanager.Tasks(s.db).Create(ctx, &models.Task{
		UserID:      userID,
		Title:       title,
		Description: enc,
		Status:      status,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}

	task.Description = s.cipher.Decrypt(task.Description)
	return task, nil
}

// List returns one page of the user's tasks, newest first. Page and limit
// are clamped rather than rejected.
func (s *TaskService) List(ctx context.Context, userID, status, search string, page, limit int) (*TaskList, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	items, total, err := s.repomanager.Tasks(s.db).List(ctx, userID, tasks.ListFilter{
		Status: status,
		Search: search,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}

	for _, t := range items {
		t.Description = s.cipher.Decrypt(t.Description)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &TaskList{Tasks: items, Total: total, Page: page, Limit: limit, TotalPages: totalPages}, nil
}

// Get returns the user's task by id. Foreign tasks are indistinguishable
// from missing ones.
func (s *TaskService) Get(ctx context.Context, id, userID string) (*models.Task, error) {
	task, err := s.repomanager.Tasks(s.db).Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	task.Description = s.cipher.Decrypt(task.Description)
	return task, nil
}

// Update applies the provided fields to the user's task. Unlike Get, a task
// owned by someone else yields common.ErrorForbidden, not NotFound.
func (s *TaskService) Update(ctx context.Context, id, userID string, title, description, status *string) (*models.Task, error) {
	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if trimmed == "" {
			return nil, common.ErrorTitleRequired
		}
		title = &trimmed
	}
	if status != nil && !models.ValidTaskStatus(*status) {
		return nil, common.ErrorInvalidStatus
	}

	if err := s.checkOwner(ctx, id, userID); err != nil {
		return nil, err
	}

	enc, err := s.cipher.Encrypt(description)
	if err != nil {
		return nil, fmt.Errorf("error encrypting description: %w", err)
	}

	task, err := s.repomanager.Tasks(s.db).Update(ctx, id, userID, title, enc, status)
	if err != nil {
		return nil, err
	}
	task.Description = s.cipher.Decrypt(task.Description)
	return task, nil
}

// Delete removes the user's task, with the same 404/403 split as Update.
func (s *TaskService) Delete(ctx context.Context, id, userID string) error {
	if err := s.checkOwner(ctx, id, userID); err != nil {
		return err
	}
	return s.repomanager.Tasks(s.db).Delete(ctx, id, userID)
}

func (s *TaskService) checkOwner(ctx context.Context, id, userID string) error {
	owner, err := s.repomanager.Tasks(s.db).Owner(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error resolving task owner: %w", err)
	}
	if owner != userID {
		return common.ErrorForbidden
	}
	return nil
}
