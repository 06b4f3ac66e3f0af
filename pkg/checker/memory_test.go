// SPDX-License-Identifier: MPL-2.0

package checker

import (
	"context"
	"errors"
	"testing"

	"github.com/questkit/questc/pkg/diag"
	"github.com/questkit/questc/pkg/types"
)

func TestMemory_Elaborate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory(map[types.Name]string{"Nat.add_zero": "(n : ℕ) : n + 0 = n"})

	resp, err := m.Elaborate(ctx, Request{
		Name:      "TestGame.Logic.level1",
		Signature: "(x : ℕ) : x = x",
		Script:    "rfl",
		Hints: []HintDecl{
			{Strict: true, Text: "Try rfl", Goal: "x = x"},
			{Hidden: true, Text: "It is reflexivity", Goal: "x = x"},
		},
	})
	if err != nil {
		t.Fatalf("Elaborate() error: %v", err)
	}
	if !resp.Success {
		t.Fatal("Elaborate() should succeed on a non-empty script")
	}
	if len(resp.Messages) != 2 {
		t.Fatalf("expected 2 hint records, got %d", len(resp.Messages))
	}
	first, ok := resp.Messages[0].(HintRecord)
	if !ok {
		t.Fatalf("expected HintRecord, got %T", resp.Messages[0])
	}
	if first.Strict != 1 || first.Hidden != 0 {
		t.Errorf("flags = (%d, %d), want (1, 0)", first.Strict, first.Hidden)
	}

	sig, found, err := m.Lookup(ctx, "TestGame.Logic.level1")
	if err != nil || !found || sig != "(x : ℕ) : x = x" {
		t.Errorf("Lookup() = %q, %v, %v", sig, found, err)
	}
	got, err := m.PrettyPrint(ctx, "Nat.add_zero")
	if err != nil {
		t.Fatalf("PrettyPrint() error: %v", err)
	}
	if got != "theorem Nat.add_zero (n : ℕ) : n + 0 = n" {
		t.Errorf("PrettyPrint() = %q", got)
	}
}

func TestMemory_Failures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory(nil)

	resp, err := m.Elaborate(ctx, Request{Name: "blank", Signature: ": True", Script: "  "})
	if err != nil {
		t.Fatalf("Elaborate() error: %v", err)
	}
	if resp.Success {
		t.Error("blank script should fail")
	}
	if _, found, _ := m.Lookup(ctx, "blank"); found {
		t.Error("failed elaboration must not define the name")
	}

	resp, _ = m.Elaborate(ctx, Request{Name: "partial", Signature: ": True", Script: "sorry"})
	if !resp.Success {
		t.Error("sorry script should still be admitted")
	}
	plain, ok := resp.Messages[len(resp.Messages)-1].(Plain)
	if !ok || plain.Severity != diag.SeverityWarning {
		t.Errorf("expected trailing warning, got %#v", resp.Messages)
	}

	resp, _ = m.Elaborate(ctx, Request{Name: "partial", Signature: ": True", Script: "trivial"})
	if resp.Success {
		t.Error("redeclaring a name should fail")
	}

	if _, err := m.PrettyPrint(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("PrettyPrint(missing) error = %v, want ErrNotFound", err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := m.Elaborate(canceled, Request{Name: "x", Script: "rfl"}); !errors.Is(err, context.Canceled) {
		t.Errorf("Elaborate() on canceled context error = %v", err)
	}
}
