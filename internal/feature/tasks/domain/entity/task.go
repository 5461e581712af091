// Package entity defines the domain models for the tasks feature.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"` // Owner; every query is scoped by it
	Title       string    `json:"title"`
	Description *string   `json:"description"` // nil when not set
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskPatch lists the fields to change on an existing task.
// A nil pointer leaves the field untouched.
type TaskPatch struct {
	Title     *string
	Completed *bool

	// DescriptionSet distinguishes "clear the description" (true, nil)
	// from "leave it alone" (false).
	DescriptionSet bool
	Description    *string
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Completed == nil && !p.DescriptionSet
}
