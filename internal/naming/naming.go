// SPDX-License-Identifier: MPL-2.0

// Package naming decides the name a statement is elaborated under.
//
// Every level has a default theorem name derived from its position,
// Game.World.level<index>. An author-given name is used instead unless it is
// already defined in the checker environment, in which case elaboration falls
// back to the default name while documentation keeps targeting the author's
// name.
package naming

import (
	"context"
	"fmt"
	"strconv"

	"github.com/questkit/questc/pkg/checker"
	"github.com/questkit/questc/pkg/types"
)

type (
	// Resolution is the outcome of resolving one statement name.
	Resolution struct {
		// Elaborate is the name the theorem is defined under.
		Elaborate types.Name
		// Documented is the name inventory documentation targets; empty for
		// anonymous statements.
		Documented types.Name
		// Collision is set when the author name was already defined.
		Collision *Collision
	}

	// Collision describes an author name that clashes with an earlier
	// declaration.
	Collision struct {
		Name types.Name
		// ExistingType is the signature of the earlier declaration.
		ExistingType string
		// Fallback is the default name used instead.
		Fallback types.Name
	}

	// Resolver checks author names against the checker environment.
	Resolver struct {
		checker checker.Checker
	}
)

// DefaultName returns the positional theorem name of a level.
func DefaultName(game string, world types.WorldID, level types.LevelIndex) types.Name {
	return types.JoinName(game, string(world), "level"+strconv.Itoa(int(level)))
}

// NewResolver creates a Resolver backed by c.
func NewResolver(c checker.Checker) *Resolver {
	return &Resolver{checker: c}
}

// Resolve picks the elaboration name for a statement whose author name is
// author (possibly empty) and whose default name is fallback.
func (r *Resolver) Resolve(ctx context.Context, author, fallback types.Name) (Resolution, error) {
	if author.IsZero() {
		return Resolution{Elaborate: fallback}, nil
	}
	existing, found, err := r.checker.Lookup(ctx, author)
	if err != nil {
		return Resolution{}, fmt.Errorf("look up %s: %w", author, err)
	}
	if !found {
		return Resolution{Elaborate: author, Documented: author}, nil
	}
	return Resolution{
		Elaborate:  fallback,
		Documented: author,
		Collision: &Collision{
			Name:         author,
			ExistingType: existing,
			Fallback:     fallback,
		},
	}, nil
}

// Message renders the collision for an author-facing diagnostic.
func (c *Collision) Message() string {
	return fmt.Sprintf("%s has already been declared with type %s; the exercise is elaborated as %s instead. "+
		"Documentation still refers to %s.", c.Name, c.ExistingType, c.Fallback, c.Name)
}
