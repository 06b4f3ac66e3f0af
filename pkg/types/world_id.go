// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidWorldID is the sentinel error wrapped by InvalidWorldIDError.
var ErrInvalidWorldID = errors.New("invalid world id")

type (
	// WorldID uniquely identifies a world inside one game. It doubles as a
	// name component of default theorem names, so it must be a single
	// identifier without dots or whitespace.
	WorldID string

	// InvalidWorldIDError is returned when a WorldID is empty or malformed.
	InvalidWorldIDError struct {
		Value WorldID
	}
)

// String returns the string representation of the WorldID.
func (w WorldID) String() string { return string(w) }

// IsValid returns whether the WorldID is a non-empty single identifier.
func (w WorldID) IsValid() (bool, []error) {
	s := string(w)
	if s == "" || strings.ContainsRune(s, '.') || strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return false, []error{&InvalidWorldIDError{Value: w}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidWorldIDError) Error() string {
	return fmt.Sprintf("invalid world id %q: must be a non-empty identifier without dots or whitespace", e.Value)
}

// Unwrap returns ErrInvalidWorldID for errors.Is() compatibility.
func (e *InvalidWorldIDError) Unwrap() error { return ErrInvalidWorldID }
