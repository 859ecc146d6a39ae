package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"taskvault/internal/common"
	"taskvault/internal/cryptox"
	"taskvault/internal/server/models"
	"taskvault/internal/server/repositories/tasks"
)

const testFieldKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

type fakeTaskRepo struct {
	byID    map[string]*models.Task
	nextID  int
	listErr error
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{byID: make(map[string]*models.Task)}
}

func (f *fakeTaskRepo) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	f.nextID++
	now := time.Now()
	stored := *task
	stored.ID = "t" + string(rune('0'+f.nextID))
	stored.CreatedAt = now
	stored.UpdatedAt = now
	f.byID[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (f *fakeTaskRepo) List(ctx context.Context, userID string, filter tasks.ListFilter) ([]*models.Task, int64, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	var out []*models.Task
	for _, t := range f.byID {
		if t.UserID != userID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		copied := *t
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (f *fakeTaskRepo) Get(ctx context.Context, id, userID string) (*models.Task, error) {
	t, ok := f.byID[id]
	if !ok || t.UserID != userID {
		return nil, common.ErrorNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTaskRepo) Owner(ctx context.Context, id string) (string, error) {
	t, ok := f.byID[id]
	if !ok {
		return "", common.ErrorNotFound
	}
	return t.UserID, nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, id, userID string, title, description, status *string) (*models.Task, error) {
	t, ok := f.byID[id]
	if !ok || t.UserID != userID {
		return nil, common.ErrorNotFound
	}
	if title != nil {
		t.Title = *title
	}
	if description != nil {
		t.Description = description
	}
	if status != nil {
		t.Status = *status
	}
	t.UpdatedAt = time.Now()
	copied := *t
	return &copied, nil
}

func (f *fakeTaskRepo) Delete(ctx context.Context, id, userID string) error {
	t, ok := f.byID[id]
	if !ok || t.UserID != userID {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

func newTestTaskService(t *testing.T) (*TaskService, *fakeTaskRepo) {
	t.Helper()
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := newFakeTaskRepo()
	cipher, err := cryptox.NewFieldCipher(testFieldKey)
	if err != nil {
		t.Fatalf("NewFieldCipher error: %v", err)
	}
	m := &fakeRepoManager{users: newFakeUserRepo(), refresh: newFakeRefreshRepo(), tasks: repo}
	return NewTaskService(db, m, cipher), repo
}

func TestTaskCreate_EncryptsDescriptionAtRest(t *testing.T) {
	svc, repo := newTestTaskService(t)

	desc := "secret launch plan"
	task, err := svc.Create(context.Background(), "u1", "plan", &desc, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Status != models.TaskStatusTodo {
		t.Fatalf("status not defaulted: %q", task.Status)
	}
	if task.Description == nil || *task.Description != desc {
		t.Fatalf("returned description not plaintext: %v", task.Description)
	}

	stored := repo.byID[task.ID]
	if stored.Description == nil || *stored.Description == desc {
		t.Fatalf("stored description is not ciphertext: %v", stored.Description)
	}
}

func TestTaskCreate_NilDescription(t *testing.T) {
	svc, repo := newTestTaskService(t)

	task, err := svc.Create(context.Background(), "u1", "no notes", nil, "done")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Description != nil {
		t.Fatalf("expected nil description, got %v", *task.Description)
	}
	if repo.byID[task.ID].Description != nil {
		t.Fatalf("nil description must be stored as NULL")
	}
}

func TestTaskCreate_Validation(t *testing.T) {
	svc, _ := newTestTaskService(t)

	if _, err := svc.Create(context.Background(), "u1", "   ", nil, ""); !errors.Is(err, common.ErrorTitleRequired) {
		t.Fatalf("want common.ErrorTitleRequired, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "u1", "ok", nil, "paused"); !errors.Is(err, common.ErrorInvalidStatus) {
		t.Fatalf("want common.ErrorInvalidStatus, got %v", err)
	}
}

func TestTaskList_DecryptsAndClamps(t *testing.T) {
	svc, _ := newTestTaskService(t)

	desc := "hidden"
	if _, err := svc.Create(context.Background(), "u1", "a", &desc, ""); err != nil {
		t.Fatalf("create error: %v", err)
	}
	if _, err := svc.Create(context.Background(), "u1", "b", nil, "done"); err != nil {
		t.Fatalf("create error: %v", err)
	}

	list, err := svc.List(context.Background(), "u1", "", "", 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.Page != 1 || list.Limit != 20 {
		t.Fatalf("paging not clamped to defaults: page=%d limit=%d", list.Page, list.Limit)
	}
	if list.Total != 2 || list.TotalPages != 1 {
		t.Fatalf("unexpected totals: %+v", list)
	}
	for _, task := range list.Tasks {
		if task.Description != nil && *task.Description != "hidden" {
			t.Fatalf("description not decrypted: %q", *task.Description)
		}
	}

	list, err = svc.List(context.Background(), "u1", "", "", 1, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.Limit != 100 {
		t.Fatalf("limit not clamped to max: %d", list.Limit)
	}
}

func TestTaskGet_ForeignLooksMissing(t *testing.T) {
	svc, _ := newTestTaskService(t)

	task, err := svc.Create(context.Background(), "u1", "mine", nil, "")
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	if _, err := svc.Get(context.Background(), task.ID, "u2"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestTaskUpdate_OwnershipSplit(t *testing.T) {
	svc, _ := newTestTaskService(t)

	task, err := svc.Create(context.Background(), "u1", "mine", nil, "")
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	status := "done"
	if _, err := svc.Update(context.Background(), "missing", "u1", nil, nil, &status); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("missing task: want common.ErrorNotFound, got %v", err)
	}
	if _, err := svc.Update(context.Background(), task.ID, "u2", nil, nil, &status); !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("foreign task: want common.ErrorForbidden, got %v", err)
	}

	updated, err := svc.Update(context.Background(), task.ID, "u1", nil, nil, &status)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != "done" {
		t.Fatalf("status not updated: %q", updated.Status)
	}
}

func TestTaskUpdate_ReencryptsDescription(t *testing.T) {
	svc, repo := newTestTaskService(t)

	task, err := svc.Create(context.Background(), "u1", "mine", nil, "")
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	desc := "new secret"
	updated, err := svc.Update(context.Background(), task.ID, "u1", nil, &desc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Description == nil || *updated.Description != desc {
		t.Fatalf("returned description not plaintext: %v", updated.Description)
	}
	stored := repo.byID[task.ID]
	if stored.Description == nil || *stored.Description == desc {
		t.Fatalf("stored description is not ciphertext: %v", stored.Description)
	}
}

func TestTaskUpdate_Validation(t *testing.T) {
	svc, _ := newTestTaskService(t)

	empty := "  "
	if _, err := svc.Update(context.Background(), "t1", "u1", &empty, nil, nil); !errors.Is(err, common.ErrorTitleRequired) {
		t.Fatalf("want common.ErrorTitleRequired, got %v", err)
	}
	bad := "paused"
	if _, err := svc.Update(context.Background(), "t1", "u1", nil, nil, &bad); !errors.Is(err, common.ErrorInvalidStatus) {
		t.Fatalf("want common.ErrorInvalidStatus, got %v", err)
	}
}

func TestTaskDelete_OwnershipSplit(t *testing.T) {
	svc, repo := newTestTaskService(t)

	task, err := svc.Create(context.Background(), "u1", "mine", nil, "")
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	if err := svc.Delete(context.Background(), "missing", "u1"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("missing task: want common.ErrorNotFound, got %v", err)
	}
	if err := svc.Delete(context.Background(), task.ID, "u2"); !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("foreign task: want common.ErrorForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), task.ID, "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := repo.byID[task.ID]; ok {
		t.Fatalf("task survived delete")
	}
}
