package content

import (
	"errors"
	"fmt"
)

// Sentinel errors for typed content.
var (
	// ErrInvalidArgument is returned when content is constructed without a
	// required label or path.
	ErrInvalidArgument = errors.New("bodyio: invalid argument")

	// ErrTypeMismatch is returned when moving between contents whose media
	// types differ.
	ErrTypeMismatch = errors.New("bodyio: type mismatch")

	// ErrRename is returned when the filesystem rejects an atomic rename.
	ErrRename = errors.New("bodyio: rename failed")
)

// RenameError records a rejected rename. It matches ErrRename and the
// underlying filesystem error with errors.Is.
type RenameError struct {
	Src string
	Dst string
	Err error
}

// Error implements the error interface.
func (e *RenameError) Error() string {
	return fmt.Sprintf("rename %s to %s: %v", e.Src, e.Dst, e.Err)
}

// Unwrap returns the sentinel and the cause, for errors.Is and errors.As.
func (e *RenameError) Unwrap() []error {
	return []error{ErrRename, e.Err}
}
