// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidLevelIndex is the sentinel error wrapped by InvalidLevelIndexError.
var ErrInvalidLevelIndex = errors.New("invalid level index")

type (
	// LevelIndex is the 1-based position of a level inside its world.
	// The zero value means "no level selected".
	LevelIndex int

	// InvalidLevelIndexError is returned when a LevelIndex is below 1.
	InvalidLevelIndexError struct {
		Value LevelIndex
	}
)

// String returns the decimal representation of the LevelIndex.
func (i LevelIndex) String() string { return strconv.Itoa(int(i)) }

// IsValid returns whether the LevelIndex is at least 1.
func (i LevelIndex) IsValid() (bool, []error) {
	if i < 1 {
		return false, []error{&InvalidLevelIndexError{Value: i}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidLevelIndexError) Error() string {
	return fmt.Sprintf("invalid level index %d (levels are numbered from 1)", e.Value)
}

// Unwrap returns ErrInvalidLevelIndex for errors.Is() compatibility.
func (e *InvalidLevelIndexError) Unwrap() error { return ErrInvalidLevelIndex }
