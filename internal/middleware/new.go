package middleware

import (
	pkgLog "ai-task-assistant/pkg/log"
)

// Middleware bundles the cross-cutting gin handlers.
type Middleware struct {
	l pkgLog.Logger
}

// New creates the middleware set.
func New(l pkgLog.Logger) Middleware {
	return Middleware{l: l}
}
