// SPDX-License-Identifier: MPL-2.0

// Package builder applies authoring units, in order, to an in-progress game.
//
// A Builder is the explicit cursor over "the current world and level" for one
// compilation run: units that address the current level are routed through
// it, statements are resolved, elaborated and mined for hints, and the
// availability pass runs when a compile unit is reached (or when Compile is
// called). Recoverable problems are recorded as diagnostics located at the
// world/level that caused them; fatal problems are returned as errors.
package builder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/questkit/questc/internal/availability"
	"github.com/questkit/questc/internal/dag"
	"github.com/questkit/questc/internal/inventory"
	"github.com/questkit/questc/internal/naming"
	"github.com/questkit/questc/pkg/checker"
	"github.com/questkit/questc/pkg/curriculum"
	"github.com/questkit/questc/pkg/diag"
	"github.com/questkit/questc/pkg/types"
	"github.com/questkit/questc/pkg/unit"
)

// ErrNoGameName is returned by New when the game name is empty.
var ErrNoGameName = errors.New("game name must not be empty")

type (
	// Option configures a Builder.
	Option func(*Builder)

	// Builder accumulates one game from a stream of units.
	Builder struct {
		name    string
		checker checker.Checker
		logger  *log.Logger

		game     *curriculum.Game
		graph    *dag.Graph
		registry *inventory.Registry
		resolver *naming.Resolver
		compiler *availability.Compiler
		diags    diag.List
		// passDiags holds the findings of the latest availability pass only.
		passDiags []diag.Diagnostic

		cur      cursor
		declared map[declKey]bool
		compiled bool
	}

	// Result is the state of a build.
	Result struct {
		Game        *curriculum.Game
		Graph       *dag.Graph
		Registry    *inventory.Registry
		Diagnostics []diag.Diagnostic
		// Compiled reports whether the availability pass has run.
		Compiled bool
	}

	cursor struct {
		world types.WorldID
		level types.LevelIndex
	}

	declKey struct {
		world types.WorldID
		level types.LevelIndex
		mode  unit.DeclareMode
		kind  types.ItemKind
	}
)

// WithLogger sets the logger shared by the builder, the registry and the
// availability compiler.
func WithLogger(l *log.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// New creates a Builder for the game called name. Statements are elaborated
// through c.
func New(name string, c checker.Checker, opts ...Option) (*Builder, error) {
	if name == "" {
		return nil, ErrNoGameName
	}
	b := &Builder{name: name, checker: c, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(b)
	}
	b.Reset()
	return b, nil
}

// Reset discards everything applied so far, including the cursor. The
// checker's environment is not reset.
func (b *Builder) Reset() {
	b.game = curriculum.NewGame(b.name)
	b.graph = dag.New()
	b.registry = inventory.New(inventory.WithLogger(b.logger))
	b.resolver = naming.NewResolver(b.checker)
	b.compiler = availability.New(b.checker, availability.WithLogger(b.logger))
	b.diags.Reset()
	b.passDiags = nil
	b.cur = cursor{}
	b.declared = make(map[declKey]bool)
	b.compiled = false
}

// ApplyAll applies units in order and stops at the first fatal error.
func (b *Builder) ApplyAll(ctx context.Context, units []unit.Unit) error {
	for i, u := range units {
		if err := b.Apply(ctx, u); err != nil {
			return fmt.Errorf("unit #%d (%s): %w", i+1, u.Tag(), err)
		}
	}
	return nil
}

// Apply processes one unit.
func (b *Builder) Apply(ctx context.Context, u unit.Unit) error {
	b.logger.Debug("apply", "unit", u.Tag(), "world", b.cur.world, "level", b.cur.level)
	if _, ok := u.(unit.RunAvailabilityCompiler); !ok {
		// Anything applied after a pass invalidates its results.
		b.compiled = false
	}
	switch u := u.(type) {
	case unit.AddWorld:
		b.addWorld(u)
	case unit.AddPath:
		b.addPath(u)
	case unit.SetLevelIndex:
		return b.setLevel(u)
	case unit.SetText:
		b.setText(u)
	case unit.RegisterDoc:
		b.registerDoc(u)
	case unit.Declare:
		b.declare(u)
	case unit.DeclareStatement:
		return b.statement(ctx, u)
	case unit.RunAvailabilityCompiler:
		return b.Compile(ctx)
	default:
		return fmt.Errorf("unsupported unit %T", u)
	}
	return nil
}

// Compile runs the availability pass over everything applied so far.
// Running it again recomputes every level from scratch and replaces the
// previous pass's diagnostics.
func (b *Builder) Compile(ctx context.Context) error {
	diags, err := b.compiler.Compile(ctx, b.game, b.graph, b.registry)
	b.passDiags = diags
	if err != nil {
		return err
	}
	b.compiled = true
	b.logger.Info("compiled game", "game", b.name, "worlds", len(b.game.Worlds), "items", b.registry.Len())
	return nil
}

// Result returns the current build state.
func (b *Builder) Result() *Result {
	return &Result{
		Game:        b.game,
		Graph:       b.graph,
		Registry:    b.registry,
		Diagnostics: slices.Concat(b.diags.Items(), b.passDiags),
		Compiled:    b.compiled,
	}
}

func (b *Builder) loc() diag.Location {
	return diag.Location{World: b.cur.world, Level: b.cur.level}
}

func (b *Builder) report(sev diag.Severity, code diag.Code, format string, args ...any) {
	b.diags.Report(sev, code, b.loc(), format, args...)
}

// currentLevel returns the selected level, reporting a diagnostic on behalf
// of what when none is selected.
func (b *Builder) currentLevel(what string) *curriculum.Level {
	if b.cur.level == 0 {
		b.report(diag.SeverityError, diag.CodeNoCursor, "%s needs a level; select one with a level unit first", what)
		return nil
	}
	w, _ := b.game.World(b.cur.world)
	l, _ := w.Level(b.cur.level)
	return l
}
