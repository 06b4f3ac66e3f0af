// SPDX-License-Identifier: MPL-2.0

package curriculum

import (
	"slices"

	"github.com/questkit/questc/pkg/types"
)

type (
	// Level is one exercise of a world.
	Level struct {
		World        types.WorldID    `json:"world" yaml:"world" toml:"world"`
		Index        types.LevelIndex `json:"index" yaml:"index" toml:"index"`
		Title        string           `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
		Introduction string           `json:"introduction,omitempty" yaml:"introduction,omitempty" toml:"introduction,omitempty"`
		Conclusion   string           `json:"conclusion,omitempty" yaml:"conclusion,omitempty" toml:"conclusion,omitempty"`

		Tactics     *InventoryInfo `json:"tactics" yaml:"tactics" toml:"tactics"`
		Lemmas      *InventoryInfo `json:"lemmas" yaml:"lemmas" toml:"lemmas"`
		Definitions *InventoryInfo `json:"definitions" yaml:"definitions" toml:"definitions"`

		Statement *Statement `json:"statement,omitempty" yaml:"statement,omitempty" toml:"statement,omitempty"`
		Hints     []Hint     `json:"hints,omitempty" yaml:"hints,omitempty" toml:"hints,omitempty"`
	}

	// Names is an ordered set of item names.
	Names []types.Name

	// InventoryInfo is one level's declarations for one vocabulary kind,
	// plus the computed availability written by the compiler.
	InventoryInfo struct {
		New      Names                   `json:"new,omitempty" yaml:"new,omitempty" toml:"new,omitempty"`
		Disabled Names                   `json:"disabled,omitempty" yaml:"disabled,omitempty" toml:"disabled,omitempty"`
		Only     Names                   `json:"only,omitempty" yaml:"only,omitempty" toml:"only,omitempty"`
		Items    []ComputedInventoryItem `json:"items,omitempty" yaml:"items,omitempty" toml:"items,omitempty"`
	}

	// Statement is the exercise of a level.
	Statement struct {
		// Name is the author-given name; empty for anonymous exercises.
		// Documentation always targets this name.
		Name        types.Name `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
		Description string     `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
		Signature   string     `json:"signature" yaml:"signature" toml:"signature"`
		Scope       []string   `json:"scope,omitempty" yaml:"scope,omitempty" toml:"scope,omitempty"`
		// TheoremName is the name the exercise was elaborated under.
		TheoremName types.Name `json:"theorem_name" yaml:"theorem_name" toml:"theorem_name"`
		// Preview is the rendered goal shown to authors and learners.
		Preview string `json:"preview" yaml:"preview" toml:"preview"`
	}

	// Hint is explanatory text bound to an intermediate proof state.
	Hint struct {
		// Goal is the checker's name-independent key for the proof state.
		Goal   string `json:"goal" yaml:"goal" toml:"goal"`
		Text   string `json:"text" yaml:"text" toml:"text"`
		Strict bool   `json:"strict" yaml:"strict" toml:"strict"`
		Hidden bool   `json:"hidden" yaml:"hidden" toml:"hidden"`
	}
)

func newLevel(world types.WorldID, index types.LevelIndex) *Level {
	return &Level{
		World:       world,
		Index:       index,
		Tactics:     &InventoryInfo{},
		Lemmas:      &InventoryInfo{},
		Definitions: &InventoryInfo{},
	}
}

// Inventory returns the InventoryInfo for kind, or nil for an unknown kind.
func (l *Level) Inventory(kind types.ItemKind) *InventoryInfo {
	switch kind {
	case types.KindTactic:
		return l.Tactics
	case types.KindLemma:
		return l.Lemmas
	case types.KindDefinition:
		return l.Definitions
	default:
		return nil
	}
}

// StatementName returns the author-given statement name, or "" when the
// level has no statement or the statement is anonymous.
func (l *Level) StatementName() types.Name {
	if l.Statement == nil {
		return ""
	}
	return l.Statement.Name
}

// NewNames builds an ordered set, dropping duplicates and keeping the first
// occurrence of each name.
func NewNames(names ...types.Name) Names {
	out := make(Names, 0, len(names))
	for _, n := range names {
		if !out.Contains(n) {
			out = append(out, n)
		}
	}
	return out
}

// Contains reports whether n is in the set.
func (ns Names) Contains(n types.Name) bool {
	return slices.Contains(ns, n)
}

// Set returns the names as a lookup map.
func (ns Names) Set() map[types.Name]struct{} {
	out := make(map[types.Name]struct{}, len(ns))
	for _, n := range ns {
		out[n] = struct{}{}
	}
	return out
}
