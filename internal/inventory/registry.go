// SPDX-License-Identifier: MPL-2.0

// Package inventory implements the registry of documented vocabulary items.
//
// Items are keyed by (kind, name). The first registration of a key wins;
// later registrations are reported and ignored. Names used by a level before
// they were documented get a placeholder entry so availability can still be
// computed for them.
package inventory

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/questkit/questc/pkg/curriculum"
	"github.com/questkit/questc/pkg/types"
)

const (
	// Present means the item was already documented.
	Present EnsureResult = iota
	// Placeholder means the item was missing and an empty entry was recorded.
	Placeholder
	// Templated means the item was missing and the supplied template became
	// its content.
	Templated
)

// ErrDuplicate is the sentinel error wrapped by DuplicateError.
var ErrDuplicate = errors.New("item already documented")

type (
	// EnsureResult reports what Ensure found or created.
	EnsureResult int

	// Doc is a documentation entry as written by the author. DisplayName and
	// Category are optional.
	Doc struct {
		Kind        types.ItemKind
		Name        types.Name
		DisplayName string
		Category    string
		Content     string
	}

	// DuplicateError is returned when a (kind, name) pair is registered twice.
	DuplicateError struct {
		Kind types.ItemKind
		Name types.Name
	}

	// Option configures a Registry.
	Option func(*Registry)

	// Registry is the vocabulary catalog of one compilation run.
	Registry struct {
		items  map[key]*curriculum.InventoryItem
		order  []key
		logger *log.Logger
	}

	key struct {
		kind types.ItemKind
		name types.Name
	}
)

// Error implements the error interface.
func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s %q is already documented; keeping the first entry", e.Kind, e.Name)
}

// Unwrap returns ErrDuplicate for errors.Is() compatibility.
func (e *DuplicateError) Unwrap() error { return ErrDuplicate }

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		items:  make(map[key]*curriculum.InventoryItem),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register inserts a documented item. If the key is already present the
// registry is left unchanged and a *DuplicateError is returned, unless the
// existing entry is a placeholder, in which case the documentation replaces
// it.
func (r *Registry) Register(d Doc) error {
	if ok, errs := d.Kind.IsValid(); !ok {
		return errs[0]
	}
	if d.Name.IsZero() {
		return &types.InvalidNameError{Value: d.Name, Reason: "must not be empty"}
	}
	if ok, errs := d.Name.IsValid(); !ok {
		return errs[0]
	}

	k := key{d.Kind, d.Name}
	if existing, ok := r.items[k]; ok {
		if !existing.Placeholder {
			return &DuplicateError{Kind: d.Kind, Name: d.Name}
		}
		r.logger.Debug("replacing placeholder", "kind", d.Kind, "name", d.Name)
		*existing = newItem(d)
		return nil
	}
	item := newItem(d)
	r.items[k] = &item
	r.order = append(r.order, k)
	r.logger.Debug("registered item", "kind", d.Kind, "name", d.Name)
	return nil
}

// Ensure makes sure (kind, name) has an entry. Missing names get a
// placeholder, or, when template is non-empty, an entry whose content is the
// template.
func (r *Registry) Ensure(kind types.ItemKind, name types.Name, template string) EnsureResult {
	k := key{kind, name}
	if _, ok := r.items[k]; ok {
		return Present
	}
	item := newItem(Doc{Kind: kind, Name: name, Content: template})
	result := Templated
	if template == "" {
		item.Placeholder = true
		result = Placeholder
	}
	r.items[k] = &item
	r.order = append(r.order, k)
	r.logger.Debug("synthesized item", "kind", kind, "name", name, "templated", result == Templated)
	return result
}

// Lookup returns a copy of the item registered under (kind, name).
func (r *Registry) Lookup(kind types.ItemKind, name types.Name) (curriculum.InventoryItem, bool) {
	it, ok := r.items[key{kind, name}]
	if !ok {
		return curriculum.InventoryItem{}, false
	}
	return *it, true
}

// Contains reports whether (kind, name) is registered.
func (r *Registry) Contains(kind types.ItemKind, name types.Name) bool {
	_, ok := r.items[key{kind, name}]
	return ok
}

// SetStatement records the rendered signature of a lemma. It reports whether
// the lemma exists.
func (r *Registry) SetStatement(name types.Name, text string) bool {
	it, ok := r.items[key{types.KindLemma, name}]
	if !ok {
		return false
	}
	it.Statement = text
	return true
}

// Items returns copies of every item of kind, in display order.
func (r *Registry) Items(kind types.ItemKind) []curriculum.InventoryItem {
	var out []curriculum.InventoryItem
	for _, k := range r.order {
		if k.kind == kind {
			out = append(out, *r.items[k])
		}
	}
	slices.SortFunc(out, curriculum.CompareItems)
	return out
}

// All returns copies of every item grouped by kind in canonical kind order.
func (r *Registry) All() []curriculum.InventoryItem {
	var out []curriculum.InventoryItem
	for _, kind := range types.AllItemKinds() {
		out = append(out, r.Items(kind)...)
	}
	return out
}

// Len returns the number of registered items.
func (r *Registry) Len() int {
	return len(r.order)
}

func newItem(d Doc) curriculum.InventoryItem {
	display := d.DisplayName
	if display == "" {
		display = string(d.Name)
	}
	category := d.Category
	if category == "" && d.Kind == types.KindLemma {
		category = d.Name.Namespace()
	}
	return curriculum.InventoryItem{
		Kind:        d.Kind,
		Name:        d.Name,
		DisplayName: display,
		Category:    category,
		Content:     d.Content,
	}
}
