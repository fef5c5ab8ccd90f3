package task

import (
	"time"

	"ai-task-assistant/internal/model"
)

// CaptureInput is the input for task capture.
type CaptureInput struct {
	RawText  string   // natural language task descriptions from the user
	Clients  []string // allowed client vocabulary; falls back to config defaults
	Projects []string // allowed project vocabulary; falls back to config defaults

	// Priority optionally weights the gamification pair: high, medium or low.
	Priority string

	// DueOverride, when set, is the authoritative due date for every record
	// extracted from this submission; phrase normalization is skipped.
	DueOverride *time.Time
}

// CaptureOutput is the result of a capture operation.
type CaptureOutput struct {
	Tasks     []model.TaskRecord
	TaskCount int
}

// DigestOutput is a rendered task summary.
type DigestOutput struct {
	Message string
	Count   int
}
