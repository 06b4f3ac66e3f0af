// SPDX-License-Identifier: MPL-2.0

package sourcetest

import "testing"

func TestSource_String(t *testing.T) {
	t.Parallel()

	got := New("NNG").
		World("Tutorial").
		Level(1).
		New("tactic", "rfl", "simp").
		Statement("(x : ℕ) : x = x", "rfl",
			WithName("Tutorial.refl"),
			WithHint("Try rfl.", "x = x", true),
			WithHint("Really.", "x = x", false)).
		String()

	want := `game: "NNG"
units: [
	{kind: "world", id: "Tutorial"},
	{kind: "level", index: 1},
	{kind: "new", item: "tactic", names: ["rfl", "simp"]},
	{kind: "statement", signature: "(x : ℕ) : x = x", script: "rfl", name: "Tutorial.refl", hints: [{text: "Try rfl.", goal: "x = x", strict: true}, {text: "Really.", goal: "x = x", strict: false}]},
]
`
	if got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestSource_AllUnitKinds(t *testing.T) {
	t.Parallel()

	got := New("G").
		Introduction("hi").
		Conclusion("bye").
		Doc("lemma", "Nat.zero_add", "0 + n = n", WithDisplay("zero_add"), WithCategory("Nat")).
		World("W").
		Level(1).
		Disabled("tactic", "simp").
		Only("definition").
		Statement("(n : ℕ) : 0 + n = n", "simp", WithDescription("Left identity.")).
		Compile().
		String()

	want := `game: "G"
units: [
	{kind: "introduction", text: "hi"},
	{kind: "conclusion", text: "bye"},
	{kind: "doc", item: "lemma", name: "Nat.zero_add", content: "0 + n = n", display: "zero_add", category: "Nat"},
	{kind: "world", id: "W"},
	{kind: "level", index: 1},
	{kind: "disabled", item: "tactic", names: ["simp"]},
	{kind: "only", item: "definition", names: []},
	{kind: "statement", signature: "(n : ℕ) : 0 + n = n", script: "simp", description: "Left identity."},
	{kind: "compile"},
]
`
	if got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}
