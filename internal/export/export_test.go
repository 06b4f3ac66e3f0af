// SPDX-License-Identifier: MPL-2.0

package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/questkit/questc/internal/builder"
	"github.com/questkit/questc/pkg/checker"
	"github.com/questkit/questc/pkg/types"
	"github.com/questkit/questc/pkg/unit"
)

func buildGame(t *testing.T) *builder.Result {
	t.Helper()
	b, err := builder.New("NNG", checker.NewMemory(nil))
	if err != nil {
		t.Fatal(err)
	}
	err = b.ApplyAll(context.Background(), []unit.Unit{
		unit.SetText{Field: unit.TextTitle, Text: "Natural Number Game"},
		unit.RegisterDoc{Kind: types.KindTactic, Name: "rfl", Content: "Closes `a = a`."},
		unit.AddWorld{ID: "Addition"},
		unit.SetLevelIndex{Index: 1},
		unit.Declare{Mode: unit.DeclareNew, Kind: types.KindTactic, Names: []types.Name{"induction"}},
		unit.AddWorld{ID: "Tutorial"},
		unit.SetText{Field: unit.TextTitle, Text: "Tutorial World"},
		unit.SetLevelIndex{Index: 1},
		unit.Declare{Mode: unit.DeclareNew, Kind: types.KindTactic, Names: []types.Name{"rfl"}},
		unit.DeclareStatement{
			Signature: "(x : ℕ) : x = x",
			Script:    "rfl",
			Hints:     []checker.HintDecl{{Text: "Use rfl.", Goal: "x = x"}},
		},
		unit.AddPath{From: "Tutorial", To: "Addition"},
		unit.RunAvailabilityCompiler{},
	})
	if err != nil {
		t.Fatalf("ApplyAll() error: %v", err)
	}
	return b.Result()
}

func TestNew(t *testing.T) {
	t.Parallel()

	doc := New(buildGame(t))
	if doc.Game != "NNG" || doc.Title != "Natural Number Game" || !doc.Compiled {
		t.Errorf("header = %q %q %v", doc.Game, doc.Title, doc.Compiled)
	}
	if len(doc.Worlds) != 2 || doc.Worlds[0].ID != "Tutorial" || doc.Worlds[1].ID != "Addition" {
		t.Fatalf("worlds not in play order: %+v", doc.Worlds)
	}
	if got := doc.Worlds[1].Requires; len(got) != 1 || got[0] != "Tutorial" {
		t.Errorf("Addition.Requires = %v", got)
	}
	if len(doc.Inventory) != 2 {
		t.Errorf("inventory has %d items, want 2", len(doc.Inventory))
	}
	if len(doc.Diagnostics) != 1 {
		t.Errorf("expected the missing-doc warning for induction, got %v", doc.Diagnostics)
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	doc := New(buildGame(t))

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if err := Encode(&buf, doc, JSON); err != nil {
			t.Fatalf("Encode() error: %v", err)
		}
		var back struct {
			Worlds []struct {
				ID     string `json:"id"`
				Levels []struct {
					Hints   []map[string]any `json:"hints"`
					Tactics struct {
						Items []map[string]any `json:"items"`
					} `json:"tactics"`
				} `json:"levels"`
			} `json:"worlds"`
			Diagnostics []map[string]any `json:"diagnostics"`
		}
		if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if back.Worlds[0].ID != "Tutorial" || len(back.Worlds[0].Levels[0].Hints) != 1 {
			t.Errorf("decoded %+v", back.Worlds)
		}
		if len(back.Worlds[1].Levels[0].Tactics.Items) != 2 {
			t.Errorf("Addition/1 should list both tactics, got %v", back.Worlds[1].Levels[0].Tactics.Items)
		}
		if back.Diagnostics[0]["severity"] != "warning" {
			t.Errorf("severity encoded as %v", back.Diagnostics[0]["severity"])
		}
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if err := Encode(&buf, doc, YAML); err != nil {
			t.Fatalf("Encode() error: %v", err)
		}
		var back map[string]any
		if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
			t.Fatalf("output is not YAML: %v", err)
		}
		if back["game"] != "NNG" {
			t.Errorf("game = %v", back["game"])
		}
		if !strings.Contains(buf.String(), "severity: warning") {
			t.Errorf("severity should be encoded by name:\n%s", buf.String())
		}
	})

	t.Run("toml", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if err := Encode(&buf, doc, TOML); err != nil {
			t.Fatalf("Encode() error: %v", err)
		}
		var back map[string]any
		if err := toml.Unmarshal(buf.Bytes(), &back); err != nil {
			t.Fatalf("output is not TOML: %v\n%s", err, buf.String())
		}
		worlds, ok := back["worlds"].([]any)
		if !ok || len(worlds) != 2 {
			t.Errorf("worlds = %v", back["worlds"])
		}
	})

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()
		if err := Encode(&bytes.Buffer{}, doc, "xml"); !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("Encode() error = %v, want ErrUnknownFormat", err)
		}
	})
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"json", "YAML", "toml"} {
		if _, err := ParseFormat(in); err != nil {
			t.Errorf("ParseFormat(%q) error: %v", in, err)
		}
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("ParseFormat(xml) error = %v", err)
	}
}

func TestWriteDOT(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteDOT(&buf, New(buildGame(t))); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{`digraph "NNG"`, `"Tutorial" [label="Tutorial World (1)"]`, `"Tutorial" -> "Addition"`} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT output missing %q:\n%s", want, out)
		}
	}
}
