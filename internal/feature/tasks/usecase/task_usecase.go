// Package usecase はタスク操作のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"task_backend/internal/feature/tasks/domain"
	"task_backend/internal/feature/tasks/domain/entity"
	"task_backend/internal/platform/apperr"
)

const (
	// MaxTitleLength はタイトルの最大文字数です。
	MaxTitleLength = 100
	// MaxDescriptionLength は説明の最大文字数です。
	MaxDescriptionLength = 500
)

// TaskRepository はタスクの永続化レイヤーを抽象化します。
// すべての操作は (taskID, ownerID) の組で行われ、IDのみでの取得は提供しません。
// 一致する行がない場合は domain.ErrTaskNotFound を返します。
type TaskRepository interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Task, error)
	FindOwned(ctx context.Context, id, ownerID uuid.UUID) (*entity.Task, error)
	Create(ctx context.Context, task *entity.Task) error
	UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, patch entity.TaskPatch) (*entity.Task, error)
	DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error
}

// CreateInput はタスク作成の入力です。
type CreateInput struct {
	Title       string
	Description *string
}

// taskUsecase はタスク操作のユースケースを定義します。
type taskUsecase struct {
	tasks TaskRepository
}

// NewTaskUsecase はtaskUsecaseの新しいインスタンスを生成します。
func NewTaskUsecase(tasks TaskRepository) *taskUsecase {
	return &taskUsecase{tasks: tasks}
}

// List は呼び出し元のタスクを作成日時の降順で返します。
func (u *taskUsecase) List(ctx context.Context, ownerID uuid.UUID) ([]entity.Task, error) {
	tasks, err := u.tasks.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to fetch tasks")
	}
	return tasks, nil
}

// Get は呼び出し元が所有するタスクを1件返します。
func (u *taskUsecase) Get(ctx context.Context, ownerID, id uuid.UUID) (*entity.Task, error) {
	task, err := u.tasks.FindOwned(ctx, id, ownerID)
	if err != nil {
		return nil, storeError(err, "failed to fetch task")
	}
	return task, nil
}

// Create は入力を検証し、未完了のタスクを作成します。
func (u *taskUsecase) Create(ctx context.Context, ownerID uuid.UUID, in CreateInput) (*entity.Task, error) {
	title, err := validateTitle(in.Title)
	if err != nil {
		return nil, err
	}
	description, err := validateDescription(in.Description)
	if err != nil {
		return nil, err
	}

	task := &entity.Task{
		UserID:      ownerID,
		Title:       title,
		Description: description,
		Completed:   false,
	}
	if err := u.tasks.Create(ctx, task); err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to create task")
	}
	return task, nil
}

// Update は所有確認の後にフィールドを検証し、指定されたフィールドのみ更新します。
// 所有していないタスクは入力内容に関わらず見つからないものとして扱います。
func (u *taskUsecase) Update(ctx context.Context, ownerID, id uuid.UUID, patch entity.TaskPatch) (*entity.Task, error) {
	existing, err := u.tasks.FindOwned(ctx, id, ownerID)
	if err != nil {
		return nil, storeError(err, "failed to fetch task")
	}

	if patch.Title != nil {
		title, err := validateTitle(*patch.Title)
		if err != nil {
			return nil, err
		}
		patch.Title = &title
	}
	if patch.DescriptionSet {
		description, err := validateDescription(patch.Description)
		if err != nil {
			return nil, err
		}
		patch.Description = description
	}
	if patch.IsEmpty() {
		return existing, nil
	}

	task, err := u.tasks.UpdateOwned(ctx, id, ownerID, patch)
	if err != nil {
		return nil, storeError(err, "failed to update task")
	}
	return task, nil
}

// Delete は呼び出し元が所有するタスクを削除します。
func (u *taskUsecase) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := u.tasks.DeleteOwned(ctx, id, ownerID); err != nil {
		return storeError(err, "failed to delete task")
	}
	return nil
}

// validateTitle は長さを検証し、前後の空白を除いたタイトルを返します。
func validateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", domain.ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", domain.ErrTitleTooLong
	}
	return trimmed, nil
}

// validateDescription は説明を検証します。空白のみの説明はnilになります。
func validateDescription(description *string) (*string, error) {
	if description == nil || *description == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(*description) > MaxDescriptionLength {
		return nil, domain.ErrDescriptionTooLong
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return nil, nil
	}
	return &trimmed, nil
}

// storeError はNotFoundをそのまま返し、それ以外を内部エラーとして包みます。
func storeError(err error, msg string) error {
	if errors.Is(err, domain.ErrTaskNotFound) {
		return domain.ErrTaskNotFound
	}
	return apperr.Wrap(err, apperr.Internal, msg)
}
