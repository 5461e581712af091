package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"task_backend/internal/feature/tasks/adapters"
	taskhandler "task_backend/internal/feature/tasks/transport/handler"
	"task_backend/internal/feature/tasks/usecase"
	"task_backend/internal/platform/cache"
)

// NewTaskRepository creates a TaskRepository implementation.
// If Redis is available, the GORM store is wrapped in a read-through cache.
// Otherwise, the GORM store is used directly.
func NewTaskRepository(db *gorm.DB, rdb *redis.Client, ttl time.Duration) usecase.TaskRepository {
	store := adapters.NewTaskRepository(db)
	if rdb != nil {
		return cache.NewCachingTaskRepository(rdb, ttl, store, "tasks")
	}
	return store
}

// NewTasks wires the task handler on top of NewTaskRepository.
func NewTasks(db *gorm.DB, rdb *redis.Client, ttl time.Duration) *taskhandler.TaskHandler {
	return taskhandler.NewTaskHandler(usecase.NewTaskUsecase(NewTaskRepository(db, rdb, ttl)))
}
