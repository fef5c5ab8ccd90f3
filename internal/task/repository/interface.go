package repository

import (
	"context"

	"ai-task-assistant/internal/model"
)

// RecordRepository is the interface for record store data access.
// The backend is the single source of truth: callers always read fresh, there
// is no client-side cache.
type RecordRepository interface {
	// Create persists a new record and returns it with the backend-assigned id.
	Create(ctx context.Context, rec model.TaskRecord) (model.TaskRecord, error)

	// List returns records matching the given options.
	List(ctx context.Context, opt ListOptions) ([]model.TaskRecord, error)

	// Update patches the given fields on a record. Field names outside the
	// write allow-list are dropped.
	Update(ctx context.Context, id string, fields map[string]any) (model.TaskRecord, error)

	// Delete removes a record by id.
	Delete(ctx context.Context, id string) error
}

// ListOptions narrows a List call.
type ListOptions struct {
	Formula    string   // backend filter formula, opaque to callers
	Fields     []string // field subset to fetch; empty fetches all
	MaxRecords int      // 0 means backend default
}
