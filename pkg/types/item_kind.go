// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
)

const (
	// KindTactic is a proof tactic the learner may type.
	KindTactic ItemKind = "tactic"
	// KindLemma is a theorem the learner may cite.
	KindLemma ItemKind = "lemma"
	// KindDefinition is a definition the learner may unfold or reference.
	KindDefinition ItemKind = "definition"
)

// ErrInvalidItemKind is the sentinel error wrapped by InvalidItemKindError.
var ErrInvalidItemKind = errors.New("invalid item kind")

type (
	// ItemKind selects one of the three vocabulary inventories.
	ItemKind string

	// InvalidItemKindError is returned when an ItemKind is not one of the
	// defined kinds.
	InvalidItemKindError struct {
		Value ItemKind
	}
)

// AllItemKinds returns the vocabulary kinds in their canonical display order.
func AllItemKinds() []ItemKind {
	return []ItemKind{KindTactic, KindLemma, KindDefinition}
}

// String returns the string representation of the ItemKind.
func (k ItemKind) String() string { return string(k) }

// IsValid returns whether the ItemKind is one of the defined kinds.
func (k ItemKind) IsValid() (bool, []error) {
	switch k {
	case KindTactic, KindLemma, KindDefinition:
		return true, nil
	default:
		return false, []error{&InvalidItemKindError{Value: k}}
	}
}

// ParseItemKind converts a string into an ItemKind, rejecting unknown values.
func ParseItemKind(s string) (ItemKind, error) {
	k := ItemKind(s)
	if ok, errs := k.IsValid(); !ok {
		return "", errs[0]
	}
	return k, nil
}

// Error implements the error interface.
func (e *InvalidItemKindError) Error() string {
	return fmt.Sprintf("invalid item kind %q (valid: tactic, lemma, definition)", e.Value)
}

// Unwrap returns ErrInvalidItemKind for errors.Is() compatibility.
func (e *InvalidItemKindError) Unwrap() error { return ErrInvalidItemKind }
