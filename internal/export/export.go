// SPDX-License-Identifier: MPL-2.0

// Package export turns a build result into a self-contained document and
// encodes it as JSON, YAML or TOML.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/questkit/questc/internal/builder"
	"github.com/questkit/questc/pkg/curriculum"
	"github.com/questkit/questc/pkg/diag"
	"github.com/questkit/questc/pkg/types"
)

const (
	// JSON is the default encoding.
	JSON Format = "json"
	// YAML encodes with gopkg.in/yaml.v3.
	YAML Format = "yaml"
	// TOML encodes with go-toml.
	TOML Format = "toml"
)

// ErrUnknownFormat is returned by Encode for an unsupported Format.
var ErrUnknownFormat = errors.New("unknown output format")

type (
	// Format selects an encoding.
	Format string

	// Document is everything a game front end needs: the world graph in
	// play order, every level with its computed inventory, statement and
	// hints, the documentation registry and the build diagnostics.
	Document struct {
		Game         string `json:"game" yaml:"game" toml:"game"`
		Title        string `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
		Introduction string `json:"introduction,omitempty" yaml:"introduction,omitempty" toml:"introduction,omitempty"`
		Conclusion   string `json:"conclusion,omitempty" yaml:"conclusion,omitempty" toml:"conclusion,omitempty"`
		// Compiled is false when the availability pass has not run (or
		// failed), in which case no level has computed items.
		Compiled bool `json:"compiled" yaml:"compiled" toml:"compiled"`

		Worlds      []World                    `json:"worlds" yaml:"worlds" toml:"worlds"`
		Paths       []curriculum.Path          `json:"paths" yaml:"paths" toml:"paths"`
		Inventory   []curriculum.InventoryItem `json:"inventory" yaml:"inventory" toml:"inventory"`
		Diagnostics []diag.Diagnostic          `json:"diagnostics" yaml:"diagnostics" toml:"diagnostics"`
	}

	// World is one world with its levels in index order.
	World struct {
		ID           types.WorldID `json:"id" yaml:"id" toml:"id"`
		Title        string        `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
		Introduction string        `json:"introduction,omitempty" yaml:"introduction,omitempty" toml:"introduction,omitempty"`
		Conclusion   string        `json:"conclusion,omitempty" yaml:"conclusion,omitempty" toml:"conclusion,omitempty"`
		// Requires lists the direct prerequisites.
		Requires []types.WorldID     `json:"requires,omitempty" yaml:"requires,omitempty" toml:"requires,omitempty"`
		Levels   []*curriculum.Level `json:"levels" yaml:"levels" toml:"levels"`
	}
)

// Formats returns the supported encodings.
func Formats() []Format { return []Format{JSON, YAML, TOML} }

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	if !slices.Contains(Formats(), f) {
		return "", fmt.Errorf("%w %q (valid: json, yaml, toml)", ErrUnknownFormat, s)
	}
	return f, nil
}

// New builds the document for res. Worlds are listed in topological order;
// when the graph is cyclic they keep declaration order.
func New(res *builder.Result) *Document {
	g := res.Game
	doc := &Document{
		Game:         g.Name,
		Title:        g.Title,
		Introduction: g.Introduction,
		Conclusion:   g.Conclusion,
		Compiled:     res.Compiled,
		Paths:        slices.Clone(g.Paths),
		Inventory:    res.Registry.All(),
		Diagnostics:  slices.Clone(res.Diagnostics),
	}

	order, err := res.Graph.TopologicalOrder()
	if err != nil {
		order = g.WorldOrder
	}
	for _, id := range order {
		w, ok := g.World(id)
		if !ok {
			continue
		}
		doc.Worlds = append(doc.Worlds, World{
			ID:           w.ID,
			Title:        w.Title,
			Introduction: w.Introduction,
			Conclusion:   w.Conclusion,
			Requires:     res.Graph.DirectPredecessors(id),
			Levels:       w.Levels(),
		})
	}
	return doc
}

// Encode writes doc to w in format f.
func Encode(w io.Writer, doc *Document, f Format) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case TOML:
		enc := toml.NewEncoder(w)
		enc.SetIndentTables(true)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, f)
	}
}
