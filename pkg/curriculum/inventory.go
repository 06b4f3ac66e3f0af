// SPDX-License-Identifier: MPL-2.0

package curriculum

import (
	"cmp"
	"slices"

	"github.com/questkit/questc/pkg/types"
)

type (
	// InventoryItem is a documented vocabulary element.
	InventoryItem struct {
		Kind        types.ItemKind `json:"kind" yaml:"kind" toml:"kind"`
		Name        types.Name     `json:"name" yaml:"name" toml:"name"`
		DisplayName string         `json:"display_name" yaml:"display_name" toml:"display_name"`
		Category    string         `json:"category,omitempty" yaml:"category,omitempty" toml:"category,omitempty"`
		Content     string         `json:"content,omitempty" yaml:"content,omitempty" toml:"content,omitempty"`
		// Statement is the rendered signature of a lemma; empty for other kinds.
		Statement string `json:"statement,omitempty" yaml:"statement,omitempty" toml:"statement,omitempty"`
		// Placeholder marks an entry synthesized for an undocumented name.
		Placeholder bool `json:"placeholder,omitempty" yaml:"placeholder,omitempty" toml:"placeholder,omitempty"`
	}

	// ComputedInventoryItem is an item's availability as seen from one level.
	ComputedInventoryItem struct {
		Name        types.Name `json:"name" yaml:"name" toml:"name"`
		DisplayName string     `json:"display_name" yaml:"display_name" toml:"display_name"`
		Category    string     `json:"category,omitempty" yaml:"category,omitempty" toml:"category,omitempty"`
		Locked      bool       `json:"locked" yaml:"locked" toml:"locked"`
		Disabled    bool       `json:"disabled" yaml:"disabled" toml:"disabled"`
		New         bool       `json:"new" yaml:"new" toml:"new"`
	}
)

// Computed projects the item into a locked, enabled, not-new entry.
func (it InventoryItem) Computed() ComputedInventoryItem {
	return ComputedInventoryItem{
		Name:        it.Name,
		DisplayName: it.DisplayName,
		Category:    it.Category,
		Locked:      true,
	}
}

// CompareItems orders inventory items by category, display name, then
// canonical name.
func CompareItems(a, b InventoryItem) int {
	return compareDisplay(a.Category, b.Category, a.DisplayName, b.DisplayName, a.Name, b.Name)
}

// CompareComputed orders computed items the same way as CompareItems.
func CompareComputed(a, b ComputedInventoryItem) int {
	return compareDisplay(a.Category, b.Category, a.DisplayName, b.DisplayName, a.Name, b.Name)
}

// SortComputed sorts computed items in display order.
func SortComputed(items []ComputedInventoryItem) {
	slices.SortFunc(items, CompareComputed)
}

func compareDisplay(catA, catB, dispA, dispB string, nameA, nameB types.Name) int {
	return cmp.Or(
		cmp.Compare(catA, catB),
		cmp.Compare(dispA, dispB),
		cmp.Compare(nameA, nameB),
	)
}
