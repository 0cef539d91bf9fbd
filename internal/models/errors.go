package models

import (
	"errors"
	"fmt"
)

// ErrInvalid marks input rejected by validation before it reaches the store.
var ErrInvalid = errors.New("invalid input")

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
