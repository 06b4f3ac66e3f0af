// SPDX-License-Identifier: MPL-2.0

package builder

import (
	"errors"
	"fmt"

	"github.com/questkit/questc/internal/inventory"
	"github.com/questkit/questc/pkg/curriculum"
	"github.com/questkit/questc/pkg/diag"
	"github.com/questkit/questc/pkg/types"
	"github.com/questkit/questc/pkg/unit"
)

func (b *Builder) addWorld(u unit.AddWorld) {
	if ok, errs := u.ID.IsValid(); !ok {
		b.report(diag.SeverityError, diag.CodeInvalidUnit, "%v", errs[0])
		return
	}
	_, created := b.game.EnsureWorld(u.ID)
	b.graph.AddWorld(u.ID)
	b.cur = cursor{world: u.ID}
	if created {
		b.logger.Debug("added world", "world", u.ID)
	}
}

func (b *Builder) addPath(u unit.AddPath) {
	for _, id := range []types.WorldID{u.From, u.To} {
		if ok, errs := id.IsValid(); !ok {
			b.report(diag.SeverityError, diag.CodeInvalidUnit, "path %s -> %s: %v", u.From, u.To, errs[0])
			return
		}
	}
	b.graph.AddEdge(u.From, u.To)
	b.game.Paths = append(b.game.Paths, curriculum.Path{From: u.From, To: u.To})
}

func (b *Builder) setLevel(u unit.SetLevelIndex) error {
	if ok, errs := u.Index.IsValid(); !ok {
		return errs[0]
	}
	w, ok := b.game.World(b.cur.world)
	if !ok {
		b.report(diag.SeverityError, diag.CodeNoCursor, "level %d needs a world; declare one with a world unit first", u.Index)
		return nil
	}
	w.EnsureLevel(u.Index)
	b.cur.level = u.Index
	return nil
}

func (b *Builder) setText(u unit.SetText) {
	var target *string
	switch {
	case b.cur.level != 0:
		l := b.currentLevel(string(u.Field))
		target = levelText(l, u.Field)
	case b.cur.world != "":
		w, _ := b.game.World(b.cur.world)
		target = worldText(w, u.Field)
	default:
		target = gameText(b.game, u.Field)
	}
	if target == nil {
		b.report(diag.SeverityError, diag.CodeInvalidUnit, "unknown text field %q", u.Field)
		return
	}
	*target = u.Text
}

func levelText(l *curriculum.Level, f unit.TextField) *string {
	switch f {
	case unit.TextTitle:
		return &l.Title
	case unit.TextIntroduction:
		return &l.Introduction
	case unit.TextConclusion:
		return &l.Conclusion
	}
	return nil
}

func worldText(w *curriculum.World, f unit.TextField) *string {
	switch f {
	case unit.TextTitle:
		return &w.Title
	case unit.TextIntroduction:
		return &w.Introduction
	case unit.TextConclusion:
		return &w.Conclusion
	}
	return nil
}

func gameText(g *curriculum.Game, f unit.TextField) *string {
	switch f {
	case unit.TextTitle:
		return &g.Title
	case unit.TextIntroduction:
		return &g.Introduction
	case unit.TextConclusion:
		return &g.Conclusion
	}
	return nil
}

func (b *Builder) registerDoc(u unit.RegisterDoc) {
	err := b.registry.Register(inventory.Doc{
		Kind:        u.Kind,
		Name:        u.Name,
		DisplayName: u.DisplayName,
		Category:    u.Category,
		Content:     u.Content,
	})
	switch {
	case errors.Is(err, inventory.ErrDuplicate):
		b.report(diag.SeverityWarning, diag.CodeDuplicateDoc, "%v", err)
	case err != nil:
		b.report(diag.SeverityError, diag.CodeInvalidUnit, "doc %s: %v", u.Name, err)
	}
}

// declare writes one InventoryInfo set. A repeated declaration of the same
// mode and kind in one level replaces the earlier one.
func (b *Builder) declare(u unit.Declare) {
	l := b.currentLevel(fmt.Sprintf("%s %s", u.Mode, u.Kind))
	if l == nil {
		return
	}
	info := l.Inventory(u.Kind)
	if info == nil {
		b.report(diag.SeverityError, diag.CodeInvalidUnit, "%v", &types.InvalidItemKindError{Value: u.Kind})
		return
	}
	switch u.Mode {
	case unit.DeclareNew, unit.DeclareDisabled, unit.DeclareOnly:
	default:
		b.report(diag.SeverityError, diag.CodeInvalidUnit, "unknown declaration mode %q", u.Mode)
		return
	}

	names := make([]types.Name, 0, len(u.Names))
	for _, n := range u.Names {
		if n.IsZero() {
			b.report(diag.SeverityError, diag.CodeInvalidUnit, "%s %s: empty name", u.Mode, u.Kind)
			continue
		}
		if ok, errs := n.IsValid(); !ok {
			b.report(diag.SeverityError, diag.CodeInvalidUnit, "%s %s: %v", u.Mode, u.Kind, errs[0])
			continue
		}
		b.ensureDoc(u.Kind, n, "")
		names = append(names, n)
	}

	key := declKey{world: b.cur.world, level: b.cur.level, mode: u.Mode, kind: u.Kind}
	if b.declared[key] {
		b.report(diag.SeverityWarning, diag.CodeOverride, "%s %s replaces an earlier %s %s declaration in this level", u.Mode, u.Kind, u.Mode, u.Kind)
	}
	b.declared[key] = true

	set := curriculum.NewNames(names...)
	switch u.Mode {
	case unit.DeclareNew:
		info.New = set
	case unit.DeclareDisabled:
		info.Disabled = set
	case unit.DeclareOnly:
		info.Only = set
	}
}

// ensureDoc makes sure an item is in the registry and reports how a missing
// one was filled in.
func (b *Builder) ensureDoc(kind types.ItemKind, name types.Name, template string) {
	switch b.registry.Ensure(kind, name, template) {
	case inventory.Placeholder:
		b.report(diag.SeverityWarning, diag.CodeMissingDoc,
			"missing documentation for %s %s; add a doc unit for it", kind, name)
	case inventory.Templated:
		b.report(diag.SeverityInfo, diag.CodeTemplateDoc,
			"%s %s has no documentation; using the statement description instead", kind, name)
	case inventory.Present:
	}
}
