package task

import "errors"

// Domain-specific errors for the task package.
var (
	// ErrEmptyInput is returned when a capture submission has no text.
	ErrEmptyInput = errors.New("input text is empty")

	// ErrNoTasksParsed is returned when extraction succeeds but yields nothing.
	ErrNoTasksParsed = errors.New("no tasks parsed from input")

	// ErrExtraction marks a failed language-model call: network, auth or a
	// response that could not be repaired into task records. It always
	// propagates to the caller; nothing is persisted.
	ErrExtraction = errors.New("task extraction failed")

	// ErrStore marks a failed record store operation.
	ErrStore = errors.New("record store operation failed")

	// ErrNotFound is returned when an id prefix matches no record.
	ErrNotFound = errors.New("no task matches the given id prefix")
)
