// SPDX-License-Identifier: MPL-2.0

package checker

import (
	"context"
	"fmt"
	"strings"

	"github.com/questkit/questc/pkg/diag"
	"github.com/questkit/questc/pkg/types"
)

// Memory is an in-process Checker that trusts every non-empty script. It
// keeps the environment as a name → signature map and reports each of the
// request's hint declarations, in order, as reached. It backs offline builds
// (no checker command configured) and tests.
type Memory struct {
	env map[types.Name]string
}

var _ Checker = (*Memory)(nil)

// NewMemory creates a Memory checker whose environment starts with prelude.
func NewMemory(prelude map[types.Name]string) *Memory {
	env := make(map[types.Name]string, len(prelude))
	for k, v := range prelude {
		env[k] = v
	}
	return &Memory{env: env}
}

// Define adds a declaration to the environment.
func (m *Memory) Define(name types.Name, signature string) {
	m.env[name] = signature
}

// Elaborate accepts any script that is not blank. A script containing the
// word "sorry" is accepted with a warning.
func (m *Memory) Elaborate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("elaborate %s: %w", req.Name, err)
	}
	if _, exists := m.env[req.Name]; exists {
		return &Response{Messages: []Message{
			Plain{Severity: diag.SeverityError, Text: fmt.Sprintf("'%s' has already been declared", req.Name)},
		}}, nil
	}

	resp := &Response{}
	for _, h := range req.Hints {
		resp.Messages = append(resp.Messages, h.Record())
	}
	if strings.TrimSpace(req.Script) == "" {
		resp.Messages = append(resp.Messages, Plain{Severity: diag.SeverityError, Text: "unsolved goals"})
		return resp, nil
	}
	if strings.Contains(req.Script, "sorry") {
		resp.Messages = append(resp.Messages, Plain{Severity: diag.SeverityWarning, Text: "declaration uses 'sorry'"})
	}
	m.env[req.Name] = req.Signature
	resp.Success = true
	return resp, nil
}

// Lookup returns the signature of a defined name.
func (m *Memory) Lookup(ctx context.Context, name types.Name) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	sig, ok := m.env[name]
	return sig, ok, nil
}

// PrettyPrint renders "theorem <name> <signature>".
func (m *Memory) PrettyPrint(ctx context.Context, name types.Name) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	sig, ok := m.env[name]
	if !ok {
		return "", fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return fmt.Sprintf("theorem %s %s", name, sig), nil
}
