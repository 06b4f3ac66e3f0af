// SPDX-License-Identifier: MPL-2.0

// Package unit defines the already-parsed authoring units a curriculum is
// built from, and decodes them from CUE source files.
//
// Units are applied strictly in order. Most of them address "the current
// game/world/level" implicitly; the builder tracks that cursor.
package unit

import (
	"github.com/questkit/questc/pkg/checker"
	"github.com/questkit/questc/pkg/types"
)

const (
	// DeclareNew introduces items in a level.
	DeclareNew DeclareMode = "new"
	// DeclareDisabled hides available items for one level.
	DeclareDisabled DeclareMode = "disabled"
	// DeclareOnly restricts a level to the listed items.
	DeclareOnly DeclareMode = "only"
)

const (
	// TextTitle sets a title.
	TextTitle TextField = "title"
	// TextIntroduction sets an introduction.
	TextIntroduction TextField = "introduction"
	// TextConclusion sets a conclusion.
	TextConclusion TextField = "conclusion"
)

type (
	// Unit is one authoring unit.
	Unit interface {
		// Tag returns the unit's tag as written in source files.
		Tag() string
	}

	// DeclareMode selects which InventoryInfo set a Declare unit writes.
	DeclareMode string

	// TextField selects which text a SetText unit writes.
	TextField string

	// AddWorld declares a world (or re-selects an existing one) and clears
	// the level cursor.
	AddWorld struct {
		ID types.WorldID
	}

	// AddPath declares that From is a prerequisite of To.
	AddPath struct {
		From types.WorldID
		To   types.WorldID
	}

	// SetLevelIndex selects (creating on first use) a level of the current world.
	SetLevelIndex struct {
		Index types.LevelIndex
	}

	// SetText sets the title, introduction or conclusion of the current
	// level, or of the current world when no level is selected, or of the
	// game when no world is selected.
	SetText struct {
		Field TextField
		Text  string
	}

	// RegisterDoc documents a vocabulary item.
	RegisterDoc struct {
		Kind        types.ItemKind
		Name        types.Name
		DisplayName string
		Category    string
		Content     string
	}

	// Declare writes one of the current level's new/disabled/only sets.
	Declare struct {
		Mode  DeclareMode
		Kind  types.ItemKind
		Names []types.Name
	}

	// DeclareStatement defines the current level's exercise.
	DeclareStatement struct {
		Name        types.Name
		Description string
		Signature   string
		Script      string
		Scope       []string
		Hints       []checker.HintDecl
	}

	// RunAvailabilityCompiler runs the availability pass over everything
	// applied so far.
	RunAvailabilityCompiler struct{}
)

// Tag implements Unit.
func (AddWorld) Tag() string { return "world" }

// Tag implements Unit.
func (AddPath) Tag() string { return "path" }

// Tag implements Unit.
func (SetLevelIndex) Tag() string { return "level" }

// Tag implements Unit.
func (u SetText) Tag() string { return string(u.Field) }

// Tag implements Unit.
func (RegisterDoc) Tag() string { return "doc" }

// Tag implements Unit.
func (u Declare) Tag() string { return string(u.Mode) }

// Tag implements Unit.
func (DeclareStatement) Tag() string { return "statement" }

// Tag implements Unit.
func (RunAvailabilityCompiler) Tag() string { return "compile" }
