package source

import (
	"errors"
	"fmt"
)

var (
	ErrSource              = errors.New("source error")
	ErrVersionMismatch     = errors.New("version mismatch")
	ErrVersionFile         = errors.New("malformed version file")
	ErrFileSystemOperation = errors.New("file system operation failed")
)

// Returned when the checked out tree reports a different version than the
// one being released.
type VersionMismatchError struct {
	Expected string // Version requested for the release.
	Actual   string // Version read from the checkout.
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", ErrVersionMismatch, e.Expected, e.Actual)
}

func (e *VersionMismatchError) Unwrap() error {
	return ErrVersionMismatch
}

func wrap(sentinel, err error) error {
	return fmt.Errorf("%w: %w", sentinel, err)
}

func wrapf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
