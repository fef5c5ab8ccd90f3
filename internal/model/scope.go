package model

// Scope carries the caller identity through usecase operations.
type Scope struct {
	UserID   string
	Username string
}
