// Package dto holds request shapes that the generated API types cannot express.
package dto

import (
	"bytes"
	"encoding/json"
)

// OptionalString records whether a JSON field was present, and whether it
// was null, so a PUT body can clear a field without touching the others.
type OptionalString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON is only called when the field is present in the object.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// OrEmpty returns nil when the field was absent and a pointer to "" when it
// was null, so a present null reaches validation as a blank value.
func (o OptionalString) OrEmpty() *string {
	if !o.Set {
		return nil
	}
	if o.Value == nil {
		empty := ""
		return &empty
	}
	return o.Value
}

// UpdateTaskRequest is the body of PUT /api/tasks/:id.
// Absent fields are left unchanged.
type UpdateTaskRequest struct {
	Title       OptionalString `json:"title"`
	Description OptionalString `json:"description"`
	Completed   *bool          `json:"completed"`
}
