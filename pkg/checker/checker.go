// SPDX-License-Identifier: MPL-2.0

// Package checker defines the contract between the curriculum compiler and
// the external proof checker.
//
// The checker owns the proof environment: it elaborates a statement's goal
// signature and tactic script, remembers the resulting theorem, answers
// whether a name is already defined and pretty-prints defined theorems.
// Elaboration returns an ordered message stream in which hint records are a
// distinct variant rather than tagged plain messages.
package checker

import (
	"context"
	"errors"

	"github.com/questkit/questc/pkg/diag"
	"github.com/questkit/questc/pkg/types"
)

// ErrNotFound is returned by PrettyPrint when the name is not defined.
var ErrNotFound = errors.New("declaration not found")

type (
	// Checker is the proof-checking collaborator. Every call blocks until
	// the checker has answered; implementations honour ctx cancellation.
	Checker interface {
		// Elaborate type-checks the request's signature, runs its script and
		// defines the theorem under Request.Name on success. A returned error
		// means the checker itself failed; a failed proof is reported through
		// Response.Success and Response.Messages.
		Elaborate(ctx context.Context, req Request) (*Response, error)
		// Lookup returns the type of an already defined name.
		Lookup(ctx context.Context, name types.Name) (signature string, found bool, err error)
		// PrettyPrint renders a defined theorem for display. It returns an
		// error wrapping ErrNotFound when the name is not defined.
		PrettyPrint(ctx context.Context, name types.Name) (string, error)
	}

	// Request asks the checker to elaborate one exercise.
	Request struct {
		Name      types.Name `json:"name"`
		Signature string     `json:"signature"`
		Script    string     `json:"script"`
		Scope     []string   `json:"scope,omitempty"`
		Hints     []HintDecl `json:"hints,omitempty"`
	}

	// HintDecl is a hint invocation written by the author inside a
	// statement's script. The checker reports the ones it reaches while
	// executing the script as HintRecord messages.
	HintDecl struct {
		Strict  bool      `json:"strict,omitempty"`
		Hidden  bool      `json:"hidden,omitempty"`
		Text    string    `json:"text"`
		Goal    string    `json:"goal"`
		Context []Binding `json:"context,omitempty"`
	}

	// Response is the outcome of one elaboration.
	Response struct {
		Success  bool      `json:"success"`
		Messages []Message `json:"-"`
	}

	// Message is one entry of the elaboration stream: either Plain or
	// HintRecord.
	Message interface {
		isMessage()
	}

	// Plain is an ordinary checker diagnostic.
	Plain struct {
		Severity diag.Severity
		Text     string
	}

	// HintRecord carries a hint reached during elaboration. Strict and
	// Hidden are encoded as 0 or 1; Text may reference bound names as
	// {name} placeholders resolved against Context.
	HintRecord struct {
		Strict  int
		Hidden  int
		Context []Binding
		Text    string
		Goal    string
	}

	// Binding is one local variable, hypothesis or instantiated metavariable
	// captured with a hint.
	Binding struct {
		Name    string `json:"name"`
		Display string `json:"display,omitempty"`
		Type    string `json:"type,omitempty"`
	}
)

func (Plain) isMessage()      {}
func (HintRecord) isMessage() {}

// Flag encodes a boolean hint flag as 0 or 1.
func Flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Record converts an authored hint into the record a checker emits when the
// hint is reached.
func (h HintDecl) Record() HintRecord {
	return HintRecord{
		Strict:  Flag(h.Strict),
		Hidden:  Flag(h.Hidden),
		Context: h.Context,
		Text:    h.Text,
		Goal:    h.Goal,
	}
}
