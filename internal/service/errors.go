package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound covers both a missing upload and one owned by another
	// user; callers must not be able to tell the two apart.
	ErrNotFound = errors.New("file not found")

	// ErrBusy means another start for the same user holds the advisory
	// lock right now.
	ErrBusy = errors.New("another estimate is already starting")

	// ErrEngine wraps failures of the external estimation call.
	ErrEngine = errors.New("estimate processing failed")

	ErrInvalidFile  = errors.New("only PDF files are supported")
	ErrFileTooLarge = errors.New("file exceeds 10MB size limit")
)

// CooldownError is an admission denial carrying how long the user still
// has to wait.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("please wait %s before generating another estimate", e.Remaining.Round(time.Second))
}
