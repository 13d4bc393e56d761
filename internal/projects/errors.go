// ABOUTME: Sentinel errors for the project collection
// ABOUTME: Callers match them with errors.Is

package projects

import "errors"

var (
	// ErrNotFound indicates the project doesn't exist.
	ErrNotFound = errors.New("project not found")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = errors.New("invalid project input")
	// ErrAlreadyCompleted indicates a status change on a project that is already completed.
	ErrAlreadyCompleted = errors.New("project already completed")
)
