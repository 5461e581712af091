// Package adapters はtasksフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task_backend/internal/feature/tasks/domain"
	"task_backend/internal/feature/tasks/domain/entity"
	"task_backend/internal/feature/tasks/usecase"
)

// taskGorm はTaskRepositoryインターフェースのGORM実装です。
// すべてのクエリは OwnedBy スコープで所有者に限定されます。
type taskGorm struct {
	db  *gorm.DB
	now func() time.Time
}

var _ usecase.TaskRepository = (*taskGorm)(nil)

// NewTaskRepository は指定されたgorm.DB接続でtaskGormの新しいインスタンスを生成します。
func NewTaskRepository(db *gorm.DB) *taskGorm {
	return &taskGorm{db: db, now: time.Now}
}

// TaskModel はtasksテーブルの行です。
type TaskModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_tasks_user_created,priority:1"`
	Title       string    `gorm:"size:100;not null"`
	Description *string   `gorm:"size:500"`
	Completed   bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"index:idx_tasks_user_created,priority:2"`
	UpdatedAt   time.Time
}

func (TaskModel) TableName() string {
	return "tasks"
}

func toModel(e entity.Task) TaskModel {
	return TaskModel{
		ID:          e.ID,
		UserID:      e.UserID,
		Title:       e.Title,
		Description: e.Description,
		Completed:   e.Completed,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toEntity(m TaskModel) entity.Task {
	return entity.Task{
		ID:          m.ID,
		UserID:      m.UserID,
		Title:       m.Title,
		Description: m.Description,
		Completed:   m.Completed,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// OwnedBy はクエリを指定ユーザーの行に限定するスコープです。
func OwnedBy(ownerID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", ownerID)
	}
}

// ListByOwner は所有者のタスクを作成日時の降順で返します。
func (r *taskGorm) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Task, error) {
	var rows []TaskModel
	err := r.db.WithContext(ctx).
		Scopes(OwnedBy(ownerID)).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]entity.Task, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}

// FindOwned はIDと所有者の両方に一致するタスクを返します。
func (r *taskGorm) FindOwned(ctx context.Context, id, ownerID uuid.UUID) (*entity.Task, error) {
	return findOwned(r.db.WithContext(ctx), id, ownerID)
}

// Create はタスクを追加し、IDとタイムスタンプを設定します。
func (r *taskGorm) Create(ctx context.Context, task *entity.Task) error {
	if task == nil {
		return errors.New("task is nil")
	}
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	m := toModel(*task)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	task.CreatedAt = m.CreatedAt
	task.UpdatedAt = m.UpdatedAt
	return nil
}

// UpdateOwned はパッチに含まれるフィールドのみを更新し、更新後のタスクを返します。
// 更新と再取得は同一トランザクション内で (id, user_id) に限定して行います。
func (r *taskGorm) UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, patch entity.TaskPatch) (*entity.Task, error) {
	updates := map[string]any{"updated_at": r.now()}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.DescriptionSet {
		if patch.Description == nil {
			updates["description"] = gorm.Expr("NULL")
		} else {
			updates["description"] = *patch.Description
		}
	}
	if patch.Completed != nil {
		updates["completed"] = *patch.Completed
	}

	var out *entity.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&TaskModel{}).
			Scopes(OwnedBy(ownerID)).
			Where("id = ?", id).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrTaskNotFound
		}
		task, err := findOwned(tx, id, ownerID)
		if err != nil {
			return err
		}
		out = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteOwned はIDと所有者の両方に一致するタスクを削除します。
func (r *taskGorm) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Scopes(OwnedBy(ownerID)).
		Where("id = ?", id).
		Delete(&TaskModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func findOwned(db *gorm.DB, id, ownerID uuid.UUID) (*entity.Task, error) {
	var m TaskModel
	if err := db.Scopes(OwnedBy(ownerID)).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	task := toEntity(m)
	return &task, nil
}
