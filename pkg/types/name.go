// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidName is the sentinel error wrapped by InvalidNameError.
var ErrInvalidName = errors.New("invalid name")

type (
	// Name is a dot-separated qualified identifier such as "Nat.add_zero" or
	// "TestGame.Logic.level16". The zero value means "no name".
	Name string

	// InvalidNameError is returned when a non-empty Name contains whitespace
	// or an empty component.
	InvalidNameError struct {
		Value  Name
		Reason string
	}
)

// JoinName builds a qualified name from its components.
func JoinName(parts ...string) Name {
	return Name(strings.Join(parts, "."))
}

// String returns the string representation of the Name.
func (n Name) String() string { return string(n) }

// IsZero reports whether the name is unset.
func (n Name) IsZero() bool { return n == "" }

// IsValid returns whether the Name is a well-formed qualified identifier.
// The zero value is valid (means "anonymous").
func (n Name) IsValid() (bool, []error) {
	if n == "" {
		return true, nil
	}
	if strings.IndexFunc(string(n), unicode.IsSpace) >= 0 {
		return false, []error{&InvalidNameError{Value: n, Reason: "must not contain whitespace"}}
	}
	for _, part := range strings.Split(string(n), ".") {
		if part == "" {
			return false, []error{&InvalidNameError{Value: n, Reason: "must not contain empty components"}}
		}
	}
	return true, nil
}

// Namespace returns everything before the last dot, or "" for an
// unqualified name.
func (n Name) Namespace() string {
	i := strings.LastIndexByte(string(n), '.')
	if i < 0 {
		return ""
	}
	return string(n[:i])
}

// Last returns the final component of the name.
func (n Name) Last() string {
	i := strings.LastIndexByte(string(n), '.')
	return string(n[i+1:])
}

// Error implements the error interface.
func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid name %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidName for errors.Is() compatibility.
func (e *InvalidNameError) Unwrap() error { return ErrInvalidName }
