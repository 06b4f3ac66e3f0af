// SPDX-License-Identifier: MPL-2.0

package curriculum

import (
	"slices"

	"github.com/questkit/questc/pkg/types"
)

type (
	// Game is the root of a compiled curriculum.
	Game struct {
		Name         string `json:"name" yaml:"name" toml:"name"`
		Title        string `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
		Introduction string `json:"introduction,omitempty" yaml:"introduction,omitempty" toml:"introduction,omitempty"`
		Conclusion   string `json:"conclusion,omitempty" yaml:"conclusion,omitempty" toml:"conclusion,omitempty"`

		// Worlds are keyed by id; WorldOrder records declaration order.
		Worlds     map[types.WorldID]*World `json:"-" yaml:"-" toml:"-"`
		WorldOrder []types.WorldID          `json:"-" yaml:"-" toml:"-"`

		// Paths are the prerequisite edges in declaration order.
		Paths []Path `json:"paths,omitempty" yaml:"paths,omitempty" toml:"paths,omitempty"`

		// Inventory is the registry dump, filled in by the availability compiler.
		Inventory []InventoryItem `json:"inventory,omitempty" yaml:"inventory,omitempty" toml:"inventory,omitempty"`
	}

	// Path is a prerequisite edge: From must be played before To.
	Path struct {
		From types.WorldID `json:"from" yaml:"from" toml:"from"`
		To   types.WorldID `json:"to" yaml:"to" toml:"to"`
	}

	// World groups an ordered run of levels.
	World struct {
		ID           types.WorldID `json:"id" yaml:"id" toml:"id"`
		Title        string        `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
		Introduction string        `json:"introduction,omitempty" yaml:"introduction,omitempty" toml:"introduction,omitempty"`
		Conclusion   string        `json:"conclusion,omitempty" yaml:"conclusion,omitempty" toml:"conclusion,omitempty"`

		levels     map[types.LevelIndex]*Level
		levelOrder []types.LevelIndex
	}
)

// NewGame creates an empty game.
func NewGame(name string) *Game {
	return &Game{
		Name:   name,
		Worlds: make(map[types.WorldID]*World),
	}
}

// World returns the world with the given id.
func (g *Game) World(id types.WorldID) (*World, bool) {
	w, ok := g.Worlds[id]
	return w, ok
}

// EnsureWorld returns the world with the given id, creating it on first use.
// The boolean reports whether the world was created by this call.
func (g *Game) EnsureWorld(id types.WorldID) (*World, bool) {
	if w, ok := g.Worlds[id]; ok {
		return w, false
	}
	w := &World{ID: id, levels: make(map[types.LevelIndex]*Level)}
	g.Worlds[id] = w
	g.WorldOrder = append(g.WorldOrder, id)
	return w, true
}

// OrderedWorlds returns the worlds in declaration order.
func (g *Game) OrderedWorlds() []*World {
	out := make([]*World, 0, len(g.WorldOrder))
	for _, id := range g.WorldOrder {
		out = append(out, g.Worlds[id])
	}
	return out
}

// Level returns the level at index i.
func (w *World) Level(i types.LevelIndex) (*Level, bool) {
	l, ok := w.levels[i]
	return l, ok
}

// EnsureLevel returns the level at index i, creating it on first use.
func (w *World) EnsureLevel(i types.LevelIndex) *Level {
	if l, ok := w.levels[i]; ok {
		return l
	}
	l := newLevel(w.ID, i)
	w.levels[i] = l
	w.levelOrder = append(w.levelOrder, i)
	return l
}

// InsertionOrder returns the level indices in the order they were first
// selected.
func (w *World) InsertionOrder() []types.LevelIndex {
	return slices.Clone(w.levelOrder)
}

// Indices returns the level indices in ascending order.
func (w *World) Indices() []types.LevelIndex {
	out := slices.Clone(w.levelOrder)
	slices.Sort(out)
	return out
}

// Levels returns the levels in ascending index order.
func (w *World) Levels() []*Level {
	idx := w.Indices()
	out := make([]*Level, 0, len(idx))
	for _, i := range idx {
		out = append(out, w.levels[i])
	}
	return out
}

// LevelCount returns the number of levels declared in the world.
func (w *World) LevelCount() int {
	return len(w.levels)
}
