// SPDX-License-Identifier: MPL-2.0

package availability

import (
	"context"
	"errors"
	"testing"

	"github.com/questkit/questc/internal/dag"
	"github.com/questkit/questc/internal/inventory"
	"github.com/questkit/questc/pkg/checker"
	"github.com/questkit/questc/pkg/curriculum"
	"github.com/questkit/questc/pkg/diag"
	"github.com/questkit/questc/pkg/types"
)

// fixture assembles a game directly, without the builder.
type fixture struct {
	game  *curriculum.Game
	graph *dag.Graph
	reg   *inventory.Registry
	mem   *checker.Memory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		game:  curriculum.NewGame("TestGame"),
		graph: dag.New(),
		reg:   inventory.New(),
		mem:   checker.NewMemory(nil),
	}
}

func (f *fixture) doc(t *testing.T, kind types.ItemKind, names ...types.Name) {
	t.Helper()
	for _, n := range names {
		if err := f.reg.Register(inventory.Doc{Kind: kind, Name: n}); err != nil {
			t.Fatalf("Register(%s) error: %v", n, err)
		}
	}
}

func (f *fixture) level(world types.WorldID, index types.LevelIndex) *curriculum.Level {
	w, _ := f.game.EnsureWorld(world)
	f.graph.AddWorld(world)
	return w.EnsureLevel(index)
}

func (f *fixture) path(from, to types.WorldID) {
	f.graph.AddEdge(from, to)
	f.game.Paths = append(f.game.Paths, curriculum.Path{From: from, To: to})
}

func (f *fixture) compile(t *testing.T) []diag.Diagnostic {
	t.Helper()
	diags, err := New(f.mem).Compile(context.Background(), f.game, f.graph, f.reg)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	return diags
}

func item(t *testing.T, l *curriculum.Level, kind types.ItemKind, name types.Name) curriculum.ComputedInventoryItem {
	t.Helper()
	for _, it := range l.Inventory(kind).Items {
		if it.Name == name {
			return it
		}
	}
	t.Fatalf("%s/%d: %s %s not in computed items", l.World, l.Index, kind, name)
	return curriculum.ComputedInventoryItem{}
}

func TestCompile_WithinWorldMonotonic(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.doc(t, types.KindTactic, "rfl", "rw", "simp")

	l1 := f.level("Tutorial", 1)
	l1.Tactics.New = curriculum.NewNames("rfl")
	l2 := f.level("Tutorial", 2)
	l2.Tactics.New = curriculum.NewNames("rw")
	l3 := f.level("Tutorial", 3)
	f.compile(t)

	if it := item(t, l1, types.KindTactic, "rfl"); it.Locked || !it.New {
		t.Errorf("level 1 rfl = %+v, want unlocked and new", it)
	}
	if it := item(t, l1, types.KindTactic, "rw"); !it.Locked {
		t.Errorf("level 1 rw should still be locked")
	}
	for _, l := range []*curriculum.Level{l2, l3} {
		if it := item(t, l, types.KindTactic, "rfl"); it.Locked || it.New {
			t.Errorf("level %d rfl = %+v, want unlocked and not new", l.Index, it)
		}
	}
	if it := item(t, l3, types.KindTactic, "rw"); it.Locked {
		t.Error("rw unlocked at level 2 must stay unlocked at level 3")
	}
	if it := item(t, l3, types.KindTactic, "simp"); !it.Locked {
		t.Error("simp is never introduced and must stay locked")
	}
}

func TestCompile_TransitivePredecessors(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.doc(t, types.KindTactic, "rfl", "rw", "induction")

	f.level("A", 1).Tactics.New = curriculum.NewNames("rfl")
	f.level("B", 1).Tactics.New = curriculum.NewNames("rw")
	c1 := f.level("C", 1)
	side := f.level("Side", 1)
	side.Tactics.New = curriculum.NewNames("induction")
	f.path("A", "B")
	f.path("B", "C")
	f.compile(t)

	for _, n := range []types.Name{"rfl", "rw"} {
		if it := item(t, c1, types.KindTactic, n); it.Locked {
			t.Errorf("C/1 %s should be unlocked through the chain A -> B -> C", n)
		}
	}
	if it := item(t, c1, types.KindTactic, "induction"); !it.Locked {
		t.Error("C/1 induction comes from an unrelated world and must be locked")
	}
	if it := item(t, side, types.KindTactic, "rfl"); !it.Locked {
		t.Error("Side has no predecessors; rfl must be locked there")
	}
}

func TestCompile_OnlyDominatesDisabled(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.doc(t, types.KindTactic, "rfl", "rw", "simp")

	l1 := f.level("W", 1)
	l1.Tactics.New = curriculum.NewNames("rfl", "rw", "simp")
	l2 := f.level("W", 2)
	l2.Tactics.Disabled = curriculum.NewNames("rw")
	l2.Tactics.Only = curriculum.NewNames("rw", "rfl")
	l3 := f.level("W", 3)
	l3.Tactics.Disabled = curriculum.NewNames("simp")
	f.compile(t)

	want := map[types.Name]bool{"rfl": false, "rw": false, "simp": true}
	for n, disabled := range want {
		if it := item(t, l2, types.KindTactic, n); it.Disabled != disabled {
			t.Errorf("level 2 %s disabled = %v, want %v (only dominates)", n, it.Disabled, disabled)
		}
	}
	if !item(t, l3, types.KindTactic, "simp").Disabled || item(t, l3, types.KindTactic, "rw").Disabled {
		t.Error("level 3 should use its own disabled set")
	}
	// Disabled and new never persist to later levels.
	if it := item(t, l3, types.KindTactic, "rfl"); it.Disabled || it.New {
		t.Errorf("level 3 rfl = %+v, flags must not carry over", it)
	}
}

func TestCompile_LemmaChaining(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.doc(t, types.KindLemma, "T", "U")

	for i := types.LevelIndex(1); i <= 4; i++ {
		f.level("A", i)
	}
	a, _ := f.game.World("A")
	l3, _ := a.Level(3)
	l3.Statement = &curriculum.Statement{Name: "T", TheoremName: "T"}
	l4, _ := a.Level(4)
	l4.Statement = &curriculum.Statement{Name: "U", TheoremName: "U"}
	anon, _ := a.Level(1)
	anon.Statement = &curriculum.Statement{TheoremName: "TestGame.A.level1"}

	b1 := f.level("B", 1)
	f.path("A", "B")
	f.compile(t)

	if it := item(t, l3, types.KindLemma, "T"); !it.Locked {
		t.Error("T must be locked in the level that proves it")
	}
	if it := item(t, l4, types.KindLemma, "T"); it.Locked || it.New {
		t.Errorf("A/4 T = %+v, want unlocked and not flagged new", it)
	}
	if it := item(t, b1, types.KindLemma, "T"); it.Locked {
		t.Error("B/1 T should be unlocked through the path from A")
	}
	if it := item(t, b1, types.KindLemma, "U"); it.Locked {
		t.Error("the last level's statement U must reach successor worlds")
	}
	if len(l4.Lemmas.Items) != 2 {
		t.Errorf("anonymous statements add no inventory items, got %d", len(l4.Lemmas.Items))
	}
}

func TestCompile_CycleAbortsBeforeComputing(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.doc(t, types.KindTactic, "rfl")
	la := f.level("A", 1)
	la.Tactics.New = curriculum.NewNames("rfl")
	lb := f.level("B", 1)
	f.path("A", "B")
	f.path("B", "A")

	_, err := New(f.mem).Compile(context.Background(), f.game, f.graph, f.reg)
	var cycleErr *dag.CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("Compile() error = %v, want *dag.CycleError", err)
	}
	for _, l := range []*curriculum.Level{la, lb} {
		for _, k := range types.AllItemKinds() {
			if n := len(l.Inventory(k).Items); n != 0 {
				t.Errorf("%s/%d has %d computed %s items after a cycle", l.World, l.Index, n, k)
			}
		}
	}
	if f.game.Inventory != nil {
		t.Error("inventory dump must not be produced after a cycle")
	}
}

func TestCompile_MalformedLevels(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.level("Gap", 1)
	f.level("Gap", 3)

	_, err := New(f.mem).Compile(context.Background(), f.game, f.graph, f.reg)
	if !errors.Is(err, ErrMalformedLevels) {
		t.Fatalf("Compile() error = %v, want ErrMalformedLevels", err)
	}
	var mlErr *MalformedLevelsError
	if !errors.As(err, &mlErr) || mlErr.World != "Gap" {
		t.Errorf("error should name the world, got %v", err)
	}
}

func TestCompile_LemmaStatementsAndDump(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.mem.Define("Nat.add_zero", "(n : ℕ) : n + 0 = n")
	f.doc(t, types.KindLemma, "Nat.add_zero", "Nat.zero_add")
	f.doc(t, types.KindTactic, "rfl")
	f.level("W", 1)
	f.path("W", "Ghost")

	diags := f.compile(t)
	if len(diags) != 1 || diags[0].Code != diag.CodeUnknownWorld {
		t.Errorf("expected one unknown-world warning, got %v", diags)
	}

	if len(f.game.Inventory) != 3 {
		t.Fatalf("inventory dump has %d items, want 3", len(f.game.Inventory))
	}
	it, _ := f.reg.Lookup(types.KindLemma, "Nat.add_zero")
	if it.Statement != "theorem Nat.add_zero (n : ℕ) : n + 0 = n" {
		t.Errorf("lemma statement = %q", it.Statement)
	}
	missing, _ := f.reg.Lookup(types.KindLemma, "Nat.zero_add")
	if missing.Statement != "" {
		t.Errorf("lemma outside the environment should have no statement, got %q", missing.Statement)
	}
}
