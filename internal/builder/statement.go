// SPDX-License-Identifier: MPL-2.0

package builder

import (
	"context"
	"errors"
	"fmt"

	"github.com/questkit/questc/internal/hints"
	"github.com/questkit/questc/internal/naming"
	"github.com/questkit/questc/pkg/checker"
	"github.com/questkit/questc/pkg/curriculum"
	"github.com/questkit/questc/pkg/diag"
	"github.com/questkit/questc/pkg/types"
	"github.com/questkit/questc/pkg/unit"
)

// statement resolves, elaborates and records the current level's exercise.
// Only checker transport failures are fatal.
func (b *Builder) statement(ctx context.Context, u unit.DeclareStatement) error {
	l := b.currentLevel("statement")
	if l == nil {
		return nil
	}
	if l.Statement != nil {
		b.report(diag.SeverityError, diag.CodeDuplicateStatement,
			"level already has a statement (%s); ignoring the second one", l.Statement.TheoremName)
		return nil
	}
	if ok, errs := u.Name.IsValid(); !ok {
		b.report(diag.SeverityError, diag.CodeInvalidUnit, "statement: %v", errs[0])
		return nil
	}

	fallback := naming.DefaultName(b.name, b.cur.world, b.cur.level)
	res, err := b.resolver.Resolve(ctx, u.Name, fallback)
	if err != nil {
		return err
	}
	if res.Collision != nil {
		b.report(diag.SeverityWarning, diag.CodeNameCollision, "%s", res.Collision.Message())
	}
	if !res.Documented.IsZero() {
		b.ensureDoc(types.KindLemma, res.Documented, u.Description)
	}

	resp, err := b.checker.Elaborate(ctx, checker.Request{
		Name:      res.Elaborate,
		Signature: u.Signature,
		Script:    u.Script,
		Scope:     u.Scope,
		Hints:     u.Hints,
	})
	if err != nil {
		return fmt.Errorf("elaborate %s: %w", res.Elaborate, err)
	}

	extracted := hints.Extract(b.loc(), resp.Messages)
	b.diags.Add(extracted.Diagnostics...)
	l.Hints = extracted.Hints
	if !resp.Success {
		b.report(diag.SeverityError, diag.CodeStatementFailed, "statement %s failed to elaborate", res.Elaborate)
	}

	preview, err := b.preview(ctx, res.Elaborate)
	if err != nil {
		return err
	}

	l.Statement = &curriculum.Statement{
		Name:        res.Documented,
		Description: u.Description,
		Signature:   u.Signature,
		Scope:       u.Scope,
		TheoremName: res.Elaborate,
		Preview:     preview,
	}
	b.logger.Debug("statement", "world", b.cur.world, "level", b.cur.level, "theorem", res.Elaborate, "hints", len(l.Hints))
	return nil
}

// preview renders the elaborated theorem. A theorem that cannot be found
// gets a sentinel text and a warning.
func (b *Builder) preview(ctx context.Context, name types.Name) (string, error) {
	text, err := b.checker.PrettyPrint(ctx, name)
	if errors.Is(err, checker.ErrNotFound) {
		b.report(diag.SeverityWarning, diag.CodePreviewMissing, "could not render a preview for %s", name)
		return NotFoundPreview(name), nil
	}
	if err != nil {
		return "", fmt.Errorf("render preview of %s: %w", name, err)
	}
	return text, nil
}

// NotFoundPreview is the preview text of a statement the checker does not know.
func NotFoundPreview(name types.Name) string {
	return fmt.Sprintf("(statement %s not found)", name)
}
