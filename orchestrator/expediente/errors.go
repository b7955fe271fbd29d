// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package expediente

import (
	"errors"
	"fmt"

	"github.com/kostasense/software-back-sub000/connectors/base"
)

var (
	// ErrNotFound is returned when an expediente, user or professor does not
	// exist. It is base.ErrNotFound so callers can test either.
	ErrNotFound = base.ErrNotFound

	// ErrInvalidInput is returned when a key is empty or malformed
	ErrInvalidInput = errors.New("invalid input")

	// ErrLockTimeout is returned when the regeneration lock for a key could
	// not be taken in time
	ErrLockTimeout = errors.New("expediente regeneration lock timeout")

	// ErrAlreadyExists is returned when saving over a key that was not deleted
	ErrAlreadyExists = errors.New("expediente already exists")
)

func notFound(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
