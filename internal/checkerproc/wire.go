// SPDX-License-Identifier: MPL-2.0

package checkerproc

import (
	"encoding/json"
	"fmt"

	"github.com/questkit/questc/pkg/checker"
	"github.com/questkit/questc/pkg/diag"
	"github.com/questkit/questc/pkg/types"
)

const (
	opElaborate = "elaborate"
	opLookup    = "lookup"
	opPretty    = "pretty"

	msgPlain = "plain"
	msgHint  = "hint"
)

type (
	// envelope is written as one JSON line to the command's stdin.
	envelope struct {
		Op      string           `json:"op"`
		Request *checker.Request `json:"request,omitempty"`
		Name    types.Name       `json:"name,omitempty"`
	}

	// reply is read from the command's stdout. Fields are filled per op.
	reply struct {
		// Error reports a checker-side failure unrelated to the proof.
		Error string `json:"error,omitempty"`

		Success  bool          `json:"success"`
		Messages []wireMessage `json:"messages"`

		Found     bool   `json:"found"`
		Signature string `json:"signature"`
		Text      string `json:"text"`
	}

	wireMessage struct {
		Type string `json:"type"`

		Severity diag.Severity `json:"severity"`
		Text     string        `json:"text"`

		Strict  int               `json:"strict"`
		Hidden  int               `json:"hidden"`
		Goal    string            `json:"goal"`
		Context []checker.Binding `json:"context"`
	}
)

func (m wireMessage) decode() (checker.Message, error) {
	switch m.Type {
	case msgPlain:
		return checker.Plain{Severity: m.Severity, Text: m.Text}, nil
	case msgHint:
		return checker.HintRecord{
			Strict:  m.Strict,
			Hidden:  m.Hidden,
			Context: m.Context,
			Text:    m.Text,
			Goal:    m.Goal,
		}, nil
	default:
		return nil, fmt.Errorf("unknown message type %q", m.Type)
	}
}

func encodeMessage(msg checker.Message) wireMessage {
	switch m := msg.(type) {
	case checker.Plain:
		return wireMessage{Type: msgPlain, Severity: m.Severity, Text: m.Text}
	case checker.HintRecord:
		return wireMessage{Type: msgHint, Strict: m.Strict, Hidden: m.Hidden, Goal: m.Goal, Text: m.Text, Context: m.Context}
	default:
		return wireMessage{Type: fmt.Sprintf("%T", msg)}
	}
}

// EncodeResponse renders resp in the reply format the process checker
// expects from an elaborate call. Checker adapters written in Go use it.
func EncodeResponse(resp *checker.Response) ([]byte, error) {
	r := reply{Success: resp.Success, Messages: make([]wireMessage, len(resp.Messages))}
	for i, m := range resp.Messages {
		r.Messages[i] = encodeMessage(m)
	}
	return json.Marshal(r)
}
