package task

import (
	"context"

	"ai-task-assistant/internal/model"
)

// UseCase defines the business logic interface for the task domain.
type UseCase interface {
	// Capture parses raw text into task records, persists them, and schedules
	// reminders for each created record.
	Capture(ctx context.Context, sc model.Scope, input CaptureInput) (CaptureOutput, error)

	// ListWeek renders the weekly digest of open tasks, grouped by client.
	ListWeek(ctx context.Context, sc model.Scope) (DigestOutput, error)

	// ListToday renders open tasks due on the current date.
	ListToday(ctx context.Context, sc model.Scope) (DigestOutput, error)

	// Complete marks the task whose id matches the given prefix as done.
	Complete(ctx context.Context, sc model.Scope, idPrefix string) (model.TaskRecord, error)

	// Delete removes the task whose id matches the given prefix.
	Delete(ctx context.Context, sc model.Scope, idPrefix string) (model.TaskRecord, error)

	// DailyDigest renders the scheduled morning digest message. When nothing
	// is due it still returns an explicit "nothing due" message.
	DailyDigest(ctx context.Context) (string, error)

	// ExportCSV writes the given records to the configured CSV file and
	// returns the path written.
	ExportCSV(ctx context.Context, records []model.TaskRecord) (string, error)
}
