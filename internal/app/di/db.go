package di

import (
	"gorm.io/gorm"

	authentity "task_backend/internal/feature/auth/domain/entity"
	taskadapters "task_backend/internal/feature/tasks/adapters"
	"task_backend/internal/platform/config"
	"task_backend/internal/platform/db"
)

// Models lists every GORM model migrated at startup.
func Models() []any {
	return []any{&authentity.User{}, &taskadapters.TaskModel{}}
}

// OpenDB connects to the configured database and migrates Models.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	return db.OpenDB(cfg.DB(), Models()...)
}
