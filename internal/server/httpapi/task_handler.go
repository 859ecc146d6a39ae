package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskvault/internal/common"
	"taskvault/internal/logging"
	"taskvault/internal/server/models"
	"taskvault/internal/server/services"
)

// TaskProvider is the slice of TaskService the handlers need.
type TaskProvider interface {
	Create(ctx context.Context, userID, title string, description *string, status string) (*models.Task, error)
	List(ctx context.Context, userID, status, search string, page, limit int) (*services.TaskList, error)
	Get(ctx context.Context, id, userID string) (*models.Task, error)
	Update(ctx context.Context, id, userID string, title, description, status *string) (*models.Task, error)
	Delete(ctx context.Context, id, userID string) error
}

// TaskHandler serves /api/tasks.
type TaskHandler struct {
	svc TaskProvider
	log logging.Logger
}

func NewTaskHandler(svc TaskProvider, log logging.Logger) *TaskHandler {
	return &TaskHandler{svc: svc, log: log}
}

type taskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toTaskResponse(t *models.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", codeValidation)
		return
	}

	task, err := h.svc.Create(c.Request.Context(), currentUser(c).ID, req.Title, req.Description, req.Status)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": toTaskResponse(task)})
}

func (h *TaskHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	list, err := h.svc.List(c.Request.Context(), currentUser(c).ID, c.Query("status"), c.Query("search"), page, limit)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	items := make([]taskResponse, 0, len(list.Tasks))
	for _, t := range list.Tasks {
		items = append(items, toTaskResponse(t))
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": items,
		"meta": gin.H{
			"total":       list.Total,
			"page":        list.Page,
			"limit":       list.Limit,
			"total_pages": list.TotalPages,
		},
	})
}

func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.svc.Get(c.Request.Context(), id, currentUser(c).ID)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": toTaskResponse(task)})
}

func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", codeValidation)
		return
	}

	task, err := h.svc.Update(c.Request.Context(), id, currentUser(c).ID, req.Title, req.Description, req.Status)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": toTaskResponse(task)})
}

func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, currentUser(c).ID); err != nil {
		h.respondTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// taskID validates the path id. A malformed id can never match a task, so
// it answers 404 rather than leaking the id format.
func taskID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		respondError(c, http.StatusNotFound, "Task not found", codeNotFound)
		return "", false
	}
	return id, true
}

func (h *TaskHandler) respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorTitleRequired), errors.Is(err, common.ErrorInvalidStatus):
		respondError(c, http.StatusBadRequest, err.Error(), codeValidation)
	case errors.Is(err, common.ErrorNotFound):
		respondError(c, http.StatusNotFound, "Task not found", codeNotFound)
	case errors.Is(err, common.ErrorForbidden):
		respondError(c, http.StatusForbidden, "Forbidden", codeForbidden)
	default:
		h.log.Error(c.Request.Context(), "task operation failed", "error", err)
		respondError(c, http.StatusInternalServerError, "Internal server error", codeInternal)
	}
}
