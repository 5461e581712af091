// Package domain holds the tasks feature's domain errors.
package domain

import "task_backend/internal/platform/apperr"

var (
	// ErrTaskNotFound is returned when no task matches both the id and the
	// caller. A task owned by someone else is reported the same way.
	ErrTaskNotFound = apperr.New(apperr.NotFound, "Task not found")

	ErrTitleRequired      = apperr.New(apperr.InvalidInput, "Title is required")
	ErrTitleTooLong       = apperr.New(apperr.InvalidInput, "Title must be less than 100 characters")
	ErrDescriptionTooLong = apperr.New(apperr.InvalidInput, "Description must be less than 500 characters")
)
