// SPDX-License-Identifier: MPL-2.0

package checkerproc

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/questkit/questc/pkg/checker"
	"github.com/questkit/questc/pkg/diag"
)

// fakeChecker answers by matching the op in the request line.
const fakeChecker = `read -r req
case "$req" in
*'"op":"lookup"'*'"name":"Nat.add_comm"'*)
	echo '{"found":true,"signature":"(a b : ℕ) : a + b = b + a"}' ;;
*'"op":"lookup"'*)
	echo '{"found":false}' ;;
*'"op":"pretty"'*'"name":"Nat.add_comm"'*)
	echo '{"found":true,"text":"theorem Nat.add_comm (a b : ℕ) : a + b = b + a"}' ;;
*'"op":"pretty"'*)
	echo '{"found":false}' ;;
*'"op":"elaborate"'*'"script":"sorry"'*)
	echo '{"success":false,"messages":[{"type":"plain","severity":"error","text":"unsolved goals"}]}' ;;
*'"op":"elaborate"'*)
	echo '{"success":true,"messages":[{"type":"hint","strict":1,"hidden":0,"text":"Try {x}.","goal":"x = x","context":[{"name":"x","display":"x₀"}]},{"type":"plain","severity":"warning","text":"unused variable"}]}' ;;
*)
	echo "unexpected request: $req" >&2; exit 3 ;;
esac`

func newFake(t *testing.T, command string, opts ...Option) *Process {
	t.Helper()
	p, err := New(command, opts...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return p
}

func TestNew(t *testing.T) {
	t.Parallel()

	if _, err := New("  "); !errors.Is(err, ErrEmptyCommand) {
		t.Errorf("New(blank) error = %v, want ErrEmptyCommand", err)
	}
	if _, err := New("echo 'unterminated"); err == nil {
		t.Error("New() should reject a command that does not parse")
	}
	if p := newFake(t, "checker --json"); p.Command() != "checker --json" {
		t.Errorf("Command() = %q", p.Command())
	}
}

func TestProcess_Elaborate(t *testing.T) {
	t.Parallel()
	p := newFake(t, fakeChecker)

	resp, err := p.Elaborate(context.Background(), checker.Request{Name: "G.W.level1", Signature: "(x : ℕ) : x = x", Script: "rfl"})
	if err != nil {
		t.Fatalf("Elaborate() error: %v", err)
	}
	if !resp.Success || len(resp.Messages) != 2 {
		t.Fatalf("Elaborate() = %+v", resp)
	}
	wantHint := checker.HintRecord{Strict: 1, Text: "Try {x}.", Goal: "x = x", Context: []checker.Binding{{Name: "x", Display: "x₀"}}}
	if !reflect.DeepEqual(resp.Messages[0], wantHint) {
		t.Errorf("Messages[0] = %#v, want %#v", resp.Messages[0], wantHint)
	}
	if got := resp.Messages[1]; got != (checker.Plain{Severity: diag.SeverityWarning, Text: "unused variable"}) {
		t.Errorf("Messages[1] = %#v", got)
	}

	failed, err := p.Elaborate(context.Background(), checker.Request{Name: "G.W.level2", Script: "sorry"})
	if err != nil {
		t.Fatalf("Elaborate() error: %v", err)
	}
	if failed.Success {
		t.Error("a failed proof must not be reported as success")
	}
}

func TestProcess_LookupAndPrettyPrint(t *testing.T) {
	t.Parallel()
	p := newFake(t, fakeChecker)
	ctx := context.Background()

	sig, found, err := p.Lookup(ctx, "Nat.add_comm")
	if err != nil || !found || sig != "(a b : ℕ) : a + b = b + a" {
		t.Errorf("Lookup(Nat.add_comm) = %q, %v, %v", sig, found, err)
	}
	if _, found, err := p.Lookup(ctx, "Nat.nope"); err != nil || found {
		t.Errorf("Lookup(Nat.nope) = %v, %v", found, err)
	}

	text, err := p.PrettyPrint(ctx, "Nat.add_comm")
	if err != nil || text != "theorem Nat.add_comm (a b : ℕ) : a + b = b + a" {
		t.Errorf("PrettyPrint() = %q, %v", text, err)
	}
	if _, err := p.PrettyPrint(ctx, "Nat.nope"); !errors.Is(err, checker.ErrNotFound) {
		t.Errorf("PrettyPrint(missing) error = %v, want ErrNotFound", err)
	}
}

func TestProcess_TransportFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name    string
		command string
		check   func(t *testing.T, err error)
	}{
		{
			name:    "exit status",
			command: `echo "checker crashed" >&2; exit 3`,
			check: func(t *testing.T, err error) {
				t.Helper()
				var exitErr *ExitError
				if !errors.As(err, &exitErr) || exitErr.Status != 3 || exitErr.Stderr != "checker crashed" {
					t.Errorf("error = %v, want *ExitError{3, checker crashed}", err)
				}
			},
		},
		{
			name:    "garbage reply",
			command: `echo 'not json'`,
			check: func(t *testing.T, err error) {
				t.Helper()
				if !errors.Is(err, ErrProtocol) {
					t.Errorf("error = %v, want ErrProtocol", err)
				}
			},
		},
		{
			name:    "error field",
			command: `echo '{"error":"environment not loaded"}'`,
			check: func(t *testing.T, err error) {
				t.Helper()
				var perr *ProtocolError
				if !errors.As(err, &perr) || perr.Reason != "environment not loaded" {
					t.Errorf("error = %v", err)
				}
			},
		},
		{
			name:    "unknown message type",
			command: `echo '{"success":true,"messages":[{"type":"goal"}]}'`,
			check: func(t *testing.T, err error) {
				t.Helper()
				if !errors.Is(err, ErrProtocol) {
					t.Errorf("error = %v, want ErrProtocol", err)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := newFake(t, tt.command).Elaborate(ctx, checker.Request{Name: "x", Script: "rfl"})
			tt.check(t, err)
		})
	}
}

func TestProcess_Timeout(t *testing.T) {
	t.Parallel()

	p := newFake(t, `while true; do :; done`, WithTimeout(50*time.Millisecond))
	_, _, err := p.Lookup(context.Background(), "x")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Lookup() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestEncodeResponse(t *testing.T) {
	t.Parallel()

	mem := checker.NewMemory(nil)
	want, err := mem.Elaborate(context.Background(), checker.Request{
		Name:   "T",
		Script: "rfl",
		Hints:  []checker.HintDecl{{Hidden: true, Text: "t", Goal: "g"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	data, err := EncodeResponse(want)
	if err != nil {
		t.Fatal(err)
	}

	got, err := newFake(t, "echo '"+string(data)+"'").Elaborate(context.Background(), checker.Request{Name: "T"})
	if err != nil {
		t.Fatalf("Elaborate() error: %v", err)
	}
	if got.Success != want.Success || !reflect.DeepEqual(got.Messages, want.Messages) {
		t.Errorf("round trip = %#v, want %#v", got, want)
	}
}
