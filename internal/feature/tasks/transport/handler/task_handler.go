// Package handler はtasksフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"task_backend/internal/api"
	"task_backend/internal/feature/auth/transport/middleware"
	"task_backend/internal/feature/tasks/domain"
	"task_backend/internal/feature/tasks/domain/entity"
	"task_backend/internal/feature/tasks/transport/http/dto"
	"task_backend/internal/feature/tasks/usecase"
	"task_backend/internal/platform/apperr"
	"task_backend/internal/platform/http/response"
)

// TaskUsecase はタスク操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type TaskUsecase interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]entity.Task, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (*entity.Task, error)
	Create(ctx context.Context, ownerID uuid.UUID, in usecase.CreateInput) (*entity.Task, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, patch entity.TaskPatch) (*entity.Task, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// TaskHandler はタスクのHTTPリクエストを処理します。
// すべてのルートはAuthRequiredミドルウェアの後に登録されます。
type TaskHandler struct {
	uc TaskUsecase
}

// NewTaskHandler は指定されたusecaseでTaskHandlerの新しいインスタンスを生成します。
func NewTaskHandler(uc TaskUsecase) *TaskHandler {
	return &TaskHandler{uc: uc}
}

// List は GET /api/tasks を処理します。
func (h *TaskHandler) List(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	tasks, err := h.uc.List(c.Request.Context(), ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	out := make([]api.Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toAPITask(t))
	}
	c.JSON(http.StatusOK, api.TaskListResponse{
		Success: true,
		Message: "Tasks fetched successfully",
		Tasks:   out,
	})
}

// Create は POST /api/tasks を処理します。
func (h *TaskHandler) Create(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var req api.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.ErrInvalidBody)
		return
	}
	task, err := h.uc.Create(c.Request.Context(), ownerID, usecase.CreateInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, api.TaskEnvelope{
		Success: true,
		Message: "Task created successfully",
		Task:    toAPITask(*task),
	})
}

// Get は GET /api/tasks/:id を処理します。
func (h *TaskHandler) Get(c *gin.Context) {
	ownerID, id, ok := ownerAndTaskID(c)
	if !ok {
		return
	}
	task, err := h.uc.Get(c.Request.Context(), ownerID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, api.TaskEnvelope{
		Success: true,
		Message: "Task fetched successfully",
		Task:    toAPITask(*task),
	})
}

// Update は PUT /api/tasks/:id を処理します。
// 所有確認（404）はフィールド検証（400）より先に行われます。
func (h *TaskHandler) Update(c *gin.Context) {
	ownerID, id, ok := ownerAndTaskID(c)
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.ErrInvalidBody)
		return
	}
	task, err := h.uc.Update(c.Request.Context(), ownerID, id, entity.TaskPatch{
		Title:          req.Title.OrEmpty(),
		Completed:      req.Completed,
		DescriptionSet: req.Description.Set,
		Description:    req.Description.Value,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, api.TaskEnvelope{
		Success: true,
		Message: "Task updated successfully",
		Task:    toAPITask(*task),
	})
}

// Delete は DELETE /api/tasks/:id を処理します。
func (h *TaskHandler) Delete(c *gin.Context) {
	ownerID, id, ok := ownerAndTaskID(c)
	if !ok {
		return
	}
	if err := h.uc.Delete(c.Request.Context(), ownerID, id); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{
		Success: true,
		Message: "Task deleted successfully",
	})
}

// owner はAuthRequiredが設定したユーザーIDを返します。
func owner(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperr.New(apperr.Internal, "authenticated user missing from context"))
		return uuid.Nil, false
	}
	return id, true
}

// ownerAndTaskID はユーザーIDとパスのタスクIDを返します。
// UUIDとして解釈できないIDは存在しないタスクとして扱います。
func ownerAndTaskID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	ownerID, ok := owner(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domain.ErrTaskNotFound)
		return uuid.Nil, uuid.Nil, false
	}
	return ownerID, id, true
}

func toAPITask(t entity.Task) api.Task {
	return api.Task{
		Id:          t.ID,
		UserId:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
