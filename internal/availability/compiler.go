// SPDX-License-Identifier: MPL-2.0

// Package availability computes, for every level of a game, which vocabulary
// items are locked, disabled or new.
//
// The pass runs once after all units have been applied. It first rejects
// structurally broken games (a cyclic world graph or non-contiguous level
// indices), then for each vocabulary kind:
//
//  1. collects the items each world introduces, treating a named statement
//     as a lemma introduced by the following level;
//  2. unlocks, on entry to a world, everything introduced by any world that
//     transitively precedes it;
//  3. walks the world's levels in order, accumulating unlocks and deriving
//     the per-level disabled/new flags fresh at each level.
package availability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/questkit/questc/internal/dag"
	"github.com/questkit/questc/internal/inventory"
	"github.com/questkit/questc/pkg/checker"
	"github.com/questkit/questc/pkg/curriculum"
	"github.com/questkit/questc/pkg/diag"
	"github.com/questkit/questc/pkg/types"
)

// ErrMalformedLevels is the sentinel error wrapped by MalformedLevelsError.
var ErrMalformedLevels = errors.New("malformed level indices")

type (
	// MalformedLevelsError is returned when a world's level indices are not
	// the contiguous run 1..n.
	MalformedLevelsError struct {
		World   types.WorldID
		Indices []types.LevelIndex
	}

	// Option configures a Compiler.
	Option func(*Compiler)

	// Compiler runs the availability pass.
	Compiler struct {
		checker checker.Checker
		logger  *log.Logger
	}

	// snapshot is the running availability of one kind while walking a world.
	snapshot struct {
		items []curriculum.ComputedInventoryItem
		index map[types.Name]int
	}

	// worldPlan holds the per-level unlock sets of one world, in ascending
	// level order, and their union.
	worldPlan struct {
		levels []levelPlan
		union  map[types.Name]struct{}
	}

	// levelPlan separates what a level unlocks (declared new items plus a
	// chained lemma) from what it displays as new (declared items only).
	levelPlan struct {
		level    *curriculum.Level
		unlocks  curriculum.Names
		declared curriculum.Names
	}
)

// Error implements the error interface.
func (e *MalformedLevelsError) Error() string {
	return fmt.Sprintf("world %s: level indices %v are not contiguous from 1", e.World, e.Indices)
}

// Unwrap returns ErrMalformedLevels for errors.Is() compatibility.
func (e *MalformedLevelsError) Unwrap() error { return ErrMalformedLevels }

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Compiler that renders lemma statements through c.
func New(c checker.Checker, opts ...Option) *Compiler {
	comp := &Compiler{checker: c, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(comp)
	}
	return comp
}

// Compile computes every level's ComputedInventoryItem sequences and fills
// game.Inventory with the registry dump. It returns recoverable findings as
// diagnostics. A cyclic graph or malformed level indices are fatal and are
// reported before any computed item is written.
func (c *Compiler) Compile(ctx context.Context, game *curriculum.Game, graph *dag.Graph, reg *inventory.Registry) ([]diag.Diagnostic, error) {
	order, err := graph.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	if err := checkLevels(game); err != nil {
		return nil, err
	}

	var diags []diag.Diagnostic
	for _, e := range graph.Edges() {
		for _, id := range []types.WorldID{e.From, e.To} {
			if _, ok := game.World(id); !ok {
				diags = append(diags, diag.Diagnostic{
					Severity: diag.SeverityWarning,
					Code:     diag.CodeUnknownWorld,
					Message:  fmt.Sprintf("path %s -> %s references undeclared world %s", e.From, e.To, id),
				})
			}
		}
	}

	for _, kind := range types.AllItemKinds() {
		c.compileKind(game, graph, reg, order, kind)
	}

	if err := c.renderLemmas(ctx, reg); err != nil {
		return diags, err
	}
	game.Inventory = reg.All()
	return diags, nil
}

func (c *Compiler) compileKind(game *curriculum.Game, graph *dag.Graph, reg *inventory.Registry, order []types.WorldID, kind types.ItemKind) {
	plans := make(map[types.WorldID]*worldPlan, len(game.Worlds))
	for _, w := range game.OrderedWorlds() {
		plans[w.ID] = planWorld(w, kind)
	}
	baseline := newSnapshot(reg.Items(kind))

	for _, id := range order {
		w, ok := game.World(id)
		if !ok {
			continue
		}
		running := baseline.clone()
		for _, pred := range graph.Predecessors(id) {
			if p, ok := plans[pred]; ok {
				running.unlockSet(p.union)
			}
		}
		for _, lp := range plans[w.ID].levels {
			running.unlock(lp.unlocks)
			info := lp.level.Inventory(kind)
			info.Items = running.overlay(lp.declared, info.Disabled, info.Only)
			c.logger.Debug("computed availability", "world", w.ID, "level", lp.level.Index, "kind", kind, "items", len(info.Items))
		}
	}
}

// planWorld derives each level's unlock set. For lemmas, a named statement is
// unlocked by the level after it without being flagged new there, and every
// named statement belongs to the world's union so the last one reaches
// successor worlds.
func planWorld(w *curriculum.World, kind types.ItemKind) *worldPlan {
	plan := &worldPlan{union: make(map[types.Name]struct{})}
	var previous types.Name
	for _, l := range w.Levels() {
		declared := l.Inventory(kind).New
		unlocks := slices.Clone(declared)
		if kind == types.KindLemma && !previous.IsZero() && !unlocks.Contains(previous) {
			unlocks = append(unlocks, previous)
		}
		for _, n := range unlocks {
			plan.union[n] = struct{}{}
		}
		plan.levels = append(plan.levels, levelPlan{level: l, unlocks: unlocks, declared: declared})
		previous = l.StatementName()
	}
	if kind == types.KindLemma && !previous.IsZero() {
		plan.union[previous] = struct{}{}
	}
	return plan
}

func (c *Compiler) renderLemmas(ctx context.Context, reg *inventory.Registry) error {
	for _, it := range reg.Items(types.KindLemma) {
		text, err := c.checker.PrettyPrint(ctx, it.Name)
		if errors.Is(err, checker.ErrNotFound) {
			c.logger.Debug("lemma not in environment", "name", it.Name)
			continue
		}
		if err != nil {
			return fmt.Errorf("render lemma %s: %w", it.Name, err)
		}
		reg.SetStatement(it.Name, text)
	}
	return nil
}

func checkLevels(game *curriculum.Game) error {
	var errs []error
	for _, w := range game.OrderedWorlds() {
		indices := w.Indices()
		for i, idx := range indices {
			if idx != types.LevelIndex(i+1) {
				errs = append(errs, &MalformedLevelsError{World: w.ID, Indices: indices})
				break
			}
		}
	}
	return errors.Join(errs...)
}

func newSnapshot(items []curriculum.InventoryItem) *snapshot {
	s := &snapshot{
		items: make([]curriculum.ComputedInventoryItem, len(items)),
		index: make(map[types.Name]int, len(items)),
	}
	for i, it := range items {
		s.items[i] = it.Computed()
		s.index[it.Name] = i
	}
	return s
}

func (s *snapshot) clone() *snapshot {
	return &snapshot{items: slices.Clone(s.items), index: s.index}
}

func (s *snapshot) unlock(names curriculum.Names) {
	for _, n := range names {
		if i, ok := s.index[n]; ok {
			s.items[i].Locked = false
		}
	}
}

func (s *snapshot) unlockSet(names map[types.Name]struct{}) {
	for n := range names {
		if i, ok := s.index[n]; ok {
			s.items[i].Locked = false
		}
	}
}

// overlay copies the running snapshot and derives the level-local flags.
// A non-empty only set overrides disabled.
func (s *snapshot) overlay(news, disabled, only curriculum.Names) []curriculum.ComputedInventoryItem {
	out := slices.Clone(s.items)
	for i := range out {
		name := out[i].Name
		out[i].New = news.Contains(name)
		if len(only) == 0 {
			out[i].Disabled = disabled.Contains(name)
		} else {
			out[i].Disabled = !only.Contains(name)
		}
	}
	curriculum.SortComputed(out)
	return out
}
