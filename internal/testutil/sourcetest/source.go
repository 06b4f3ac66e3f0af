// SPDX-License-Identifier: MPL-2.0

package sourcetest

import (
	"fmt"
	"strconv"
	"strings"
)

type (
	// Source accumulates units in authoring order.
	Source struct {
		game  string
		units []string
	}

	// field is one `key: value` pair of a unit, value already encoded.
	field struct {
		key, value string
	}

	// DocOption configures a doc unit.
	DocOption func(*[]field)

	// StatementOption configures a statement unit.
	StatementOption func(*[]field)
)

// New starts a source file for game.
func New(game string) *Source {
	return &Source{game: game}
}

// WithDisplay sets the display name of a doc unit.
func WithDisplay(display string) DocOption {
	return func(fs *[]field) { *fs = append(*fs, str("display", display)) }
}

// WithCategory sets the category of a doc unit.
func WithCategory(category string) DocOption {
	return func(fs *[]field) { *fs = append(*fs, str("category", category)) }
}

// WithName names a statement.
func WithName(name string) StatementOption {
	return func(fs *[]field) { *fs = append(*fs, str("name", name)) }
}

// WithDescription sets a statement's description.
func WithDescription(desc string) StatementOption {
	return func(fs *[]field) { *fs = append(*fs, str("description", desc)) }
}

// WithHint appends a hint bound to goal.
func WithHint(text, goal string, strict bool) StatementOption {
	return func(fs *[]field) {
		hint := fmt.Sprintf("{text: %s, goal: %s, strict: %t}", strconv.Quote(text), strconv.Quote(goal), strict)
		for i, f := range *fs {
			if f.key == "hints" {
				(*fs)[i].value = strings.TrimSuffix(f.value, "]") + ", " + hint + "]"
				return
			}
		}
		*fs = append(*fs, field{"hints", "[" + hint + "]"})
	}
}

// Title adds a title unit for the current target.
func (s *Source) Title(text string) *Source { return s.add("title", str("text", text)) }

// Introduction adds an introduction unit for the current target.
func (s *Source) Introduction(text string) *Source {
	return s.add("introduction", str("text", text))
}

// Conclusion adds a conclusion unit for the current target.
func (s *Source) Conclusion(text string) *Source { return s.add("conclusion", str("text", text)) }

// World declares a world and selects it.
func (s *Source) World(id string) *Source { return s.add("world", str("id", id)) }

// Path adds a prerequisite edge.
func (s *Source) Path(from, to string) *Source {
	return s.add("path", str("from", from), str("to", to))
}

// Level selects a level of the current world.
func (s *Source) Level(index int) *Source {
	return s.add("level", field{"index", strconv.Itoa(index)})
}

// Doc registers documentation for an item.
func (s *Source) Doc(kind, name, content string, opts ...DocOption) *Source {
	fs := []field{str("item", kind), str("name", name), str("content", content)}
	for _, opt := range opts {
		opt(&fs)
	}
	return s.add("doc", fs...)
}

// New declares items introduced by the current level.
func (s *Source) New(kind string, names ...string) *Source { return s.declare("new", kind, names) }

// Disabled declares items disabled in the current level.
func (s *Source) Disabled(kind string, names ...string) *Source {
	return s.declare("disabled", kind, names)
}

// Only restricts the current level to the given items.
func (s *Source) Only(kind string, names ...string) *Source { return s.declare("only", kind, names) }

// Statement declares the current level's exercise.
func (s *Source) Statement(signature, script string, opts ...StatementOption) *Source {
	fs := []field{str("signature", signature), str("script", script)}
	for _, opt := range opts {
		opt(&fs)
	}
	return s.add("statement", fs...)
}

// Compile adds an explicit availability pass.
func (s *Source) Compile() *Source { return s.add("compile") }

// String renders the source file.
func (s *Source) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "game: %s\nunits: [\n", strconv.Quote(s.game))
	for _, u := range s.units {
		fmt.Fprintf(&sb, "\t%s,\n", u)
	}
	sb.WriteString("]\n")
	return sb.String()
}

func (s *Source) declare(mode, kind string, names []string) *Source {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = strconv.Quote(n)
	}
	return s.add(mode, str("item", kind), field{"names", "[" + strings.Join(quoted, ", ") + "]"})
}

func (s *Source) add(kind string, fs ...field) *Source {
	parts := make([]string, 0, len(fs)+1)
	parts = append(parts, "kind: "+strconv.Quote(kind))
	for _, f := range fs {
		parts = append(parts, f.key+": "+f.value)
	}
	s.units = append(s.units, "{"+strings.Join(parts, ", ")+"}")
	return s
}

func str(key, value string) field {
	return field{key, strconv.Quote(value)}
}
