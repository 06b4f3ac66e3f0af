// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestItemKind_IsValid(t *testing.T) {
	t.Parallel()

	for _, k := range AllItemKinds() {
		if ok, errs := k.IsValid(); !ok {
			t.Errorf("ItemKind(%q).IsValid() = false, errs %v", k, errs)
		}
	}

	ok, errs := ItemKind("axiom").IsValid()
	if ok {
		t.Fatal("ItemKind(\"axiom\").IsValid() = true, want false")
	}
	if !errors.Is(errs[0], ErrInvalidItemKind) {
		t.Errorf("error should wrap ErrInvalidItemKind, got: %v", errs[0])
	}

	if _, err := ParseItemKind("lemma"); err != nil {
		t.Errorf("ParseItemKind(lemma) unexpected error: %v", err)
	}
	if _, err := ParseItemKind(""); err == nil {
		t.Error("ParseItemKind(\"\") expected error")
	}
}

func TestName_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value Name
		want  bool
	}{
		{"empty is valid (anonymous)", "", true},
		{"simple", "rfl", true},
		{"qualified", "Nat.add_zero", true},
		{"unicode", "Nat.succ_ne_zero'", true},
		{"whitespace", "Nat add", false},
		{"leading dot", ".foo", false},
		{"double dot", "Nat..add", false},
		{"trailing dot", "Nat.", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ok, errs := tt.value.IsValid()
			if ok != tt.want {
				t.Errorf("Name(%q).IsValid() = %v, want %v", tt.value, ok, tt.want)
			}
			if !tt.want {
				var nameErr *InvalidNameError
				if !errors.As(errs[0], &nameErr) {
					t.Errorf("error should be *InvalidNameError, got %T", errs[0])
				}
			}
		})
	}
}

func TestName_Parts(t *testing.T) {
	t.Parallel()

	n := JoinName("TestGame", "Logic", "level16")
	if n != "TestGame.Logic.level16" {
		t.Errorf("JoinName() = %q", n)
	}
	if got := n.Namespace(); got != "TestGame.Logic" {
		t.Errorf("Namespace() = %q, want %q", got, "TestGame.Logic")
	}
	if got := n.Last(); got != "level16" {
		t.Errorf("Last() = %q, want %q", got, "level16")
	}
	if got := Name("rfl").Namespace(); got != "" {
		t.Errorf("Namespace() of unqualified name = %q, want empty", got)
	}
}

func TestWorldID_IsValid(t *testing.T) {
	t.Parallel()

	if ok, _ := WorldID("Logic").IsValid(); !ok {
		t.Error("WorldID(Logic) should be valid")
	}
	for _, bad := range []WorldID{"", "A.B", "Two Words"} {
		ok, errs := bad.IsValid()
		if ok {
			t.Errorf("WorldID(%q).IsValid() = true, want false", bad)
			continue
		}
		if !errors.Is(errs[0], ErrInvalidWorldID) {
			t.Errorf("error should wrap ErrInvalidWorldID, got %v", errs[0])
		}
	}
}

func TestLevelIndex_IsValid(t *testing.T) {
	t.Parallel()

	if ok, _ := LevelIndex(1).IsValid(); !ok {
		t.Error("LevelIndex(1) should be valid")
	}
	ok, errs := LevelIndex(0).IsValid()
	if ok {
		t.Fatal("LevelIndex(0) should be invalid")
	}
	if !errors.Is(errs[0], ErrInvalidLevelIndex) {
		t.Errorf("error should wrap ErrInvalidLevelIndex, got %v", errs[0])
	}
}
