package runtime

import (
	"errors"
	"fmt"
)

var (
	ErrRuntime            = errors.New("runtime error")
	ErrNoContainerRuntime = errors.New("no container runtime found")
	ErrUnknownImage       = errors.New("unknown image")
	ErrInvalidReference   = errors.New("invalid image reference")
)

func wrap(sentinel, err error) error {
	return fmt.Errorf("%w: %w", sentinel, err)
}

func wrapf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
