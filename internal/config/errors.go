package config

import (
	"errors"
	"fmt"
)

var (
	ErrConfig       = errors.New("invalid configuration")
	ErrUnknownKey   = errors.New("unknown configuration key")
	ErrInvalidValue = errors.New("invalid configuration value")
	ErrFormat       = errors.New("unsupported configuration format")
)

func wrap(sentinel, err error) error {
	return fmt.Errorf("%w: %w", sentinel, err)
}

func wrapf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
