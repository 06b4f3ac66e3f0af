// SPDX-License-Identifier: MPL-2.0

package unit

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/questkit/questc/pkg/checker"
	"github.com/questkit/questc/pkg/cueutil"
	"github.com/questkit/questc/pkg/types"
)

//go:embed source_schema.cue
var sourceSchema []byte

// ErrUnknownUnit is returned for a unit whose kind has no Go counterpart.
var ErrUnknownUnit = errors.New("unknown unit kind")

type (
	// Source is one decoded source file.
	Source struct {
		Game  string
		File  string
		Units []Unit
	}

	rawSource struct {
		Game  string    `json:"game"`
		Units []rawUnit `json:"units"`
	}

	rawUnit struct {
		Kind string `json:"kind"`

		ID    string `json:"id,omitempty"`
		From  string `json:"from,omitempty"`
		To    string `json:"to,omitempty"`
		Index int    `json:"index,omitempty"`
		Text  string `json:"text,omitempty"`

		Item     string   `json:"item,omitempty"`
		Name     string   `json:"name,omitempty"`
		Display  string   `json:"display,omitempty"`
		Category string   `json:"category,omitempty"`
		Content  string   `json:"content,omitempty"`
		Names    []string `json:"names,omitempty"`

		Description string             `json:"description,omitempty"`
		Signature   string             `json:"signature,omitempty"`
		Script      string             `json:"script,omitempty"`
		Scope       []string           `json:"scope,omitempty"`
		Hints       []checker.HintDecl `json:"hints,omitempty"`
	}
)

// ParseFile reads and decodes the source file at path.
func ParseFile(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source %s: %w", path, err)
	}
	return ParseBytes(data, path)
}

// ParseBytes decodes source content. filename is used in error messages.
func ParseBytes(data []byte, filename string) (*Source, error) {
	res, err := cueutil.ParseAndDecode[rawSource](sourceSchema, data, "#Source", cueutil.WithFilename(filename))
	if err != nil {
		return nil, err
	}

	src := &Source{Game: res.Value.Game, File: filename, Units: make([]Unit, 0, len(res.Value.Units))}
	for i, raw := range res.Value.Units {
		u, err := raw.toUnit()
		if err != nil {
			return nil, fmt.Errorf("%s: units[%d]: %w", filename, i, err)
		}
		src.Units = append(src.Units, u)
	}
	return src, nil
}

func (r rawUnit) toUnit() (Unit, error) {
	switch r.Kind {
	case "world":
		return AddWorld{ID: types.WorldID(r.ID)}, nil
	case "path":
		return AddPath{From: types.WorldID(r.From), To: types.WorldID(r.To)}, nil
	case "level":
		return SetLevelIndex{Index: types.LevelIndex(r.Index)}, nil
	case string(TextTitle), string(TextIntroduction), string(TextConclusion):
		return SetText{Field: TextField(r.Kind), Text: r.Text}, nil
	case "doc":
		return RegisterDoc{
			Kind:        types.ItemKind(r.Item),
			Name:        types.Name(r.Name),
			DisplayName: r.Display,
			Category:    r.Category,
			Content:     r.Content,
		}, nil
	case string(DeclareNew), string(DeclareDisabled), string(DeclareOnly):
		names := make([]types.Name, len(r.Names))
		for i, n := range r.Names {
			names[i] = types.Name(n)
		}
		return Declare{Mode: DeclareMode(r.Kind), Kind: types.ItemKind(r.Item), Names: names}, nil
	case "statement":
		return DeclareStatement{
			Name:        types.Name(r.Name),
			Description: r.Description,
			Signature:   r.Signature,
			Script:      r.Script,
			Scope:       r.Scope,
			Hints:       r.Hints,
		}, nil
	case "compile":
		return RunAvailabilityCompiler{}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownUnit, r.Kind)
	}
}
