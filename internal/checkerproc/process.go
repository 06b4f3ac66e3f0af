// SPDX-License-Identifier: MPL-2.0

// Package checkerproc runs an external proof checker as a shell command.
//
// Every checker call runs the configured command line once through the
// mvdan.cc/sh interpreter. The call is written to the command's stdin as a
// single JSON line:
//
//	{"op":"elaborate","request":{"name":"…","signature":"…","script":"…"}}
//	{"op":"lookup","name":"Nat.add_comm"}
//	{"op":"pretty","name":"Nat.add_comm"}
//
// and the command answers with one JSON object on stdout:
//
//	{"success":true,"messages":[{"type":"hint","strict":0,"hidden":1,"text":"…","goal":"…"}]}
//	{"found":true,"signature":"(a b : ℕ) : a + b = b + a"}
//	{"found":true,"text":"theorem Nat.add_comm …"}
//
// A non-zero exit status, an "error" field or an unparsable reply is a
// transport failure.
package checkerproc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/questkit/questc/pkg/checker"
	"github.com/questkit/questc/pkg/types"
)

// DefaultTimeout bounds one checker call.
const DefaultTimeout = time.Minute

var (
	// ErrEmptyCommand is returned by New for a blank command line.
	ErrEmptyCommand = errors.New("checker command is empty")
	// ErrProtocol is the sentinel wrapped by ProtocolError.
	ErrProtocol = errors.New("checker protocol error")
	// ErrExit is the sentinel wrapped by ExitError.
	ErrExit = errors.New("checker exited with an error")
)

type (
	// Process is a checker.Checker backed by a shell command.
	Process struct {
		command string
		prog    *syntax.File
		dir     string
		env     []string
		timeout time.Duration
		logger  *log.Logger
	}

	// Option configures a Process.
	Option func(*Process)

	// ExitError is returned when the command exits non-zero.
	ExitError struct {
		Op     string
		Status int
		Stderr string
	}

	// ProtocolError is returned for a reply that cannot be understood or
	// that reports a checker-side error.
	ProtocolError struct {
		Op     string
		Reason string
	}
)

var _ checker.Checker = (*Process)(nil)

// WithDir sets the working directory of the command.
func WithDir(dir string) Option {
	return func(p *Process) { p.dir = dir }
}

// WithEnv replaces the inherited environment ("KEY=value" entries).
func WithEnv(env []string) Option {
	return func(p *Process) { p.env = env }
}

// WithTimeout bounds each call. Non-positive values keep DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Process) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(p *Process) {
		if l != nil {
			p.logger = l
		}
	}
}

// New parses command once; it is run for every call.
func New(command string, opts ...Option) (*Process, error) {
	if strings.TrimSpace(command) == "" {
		return nil, ErrEmptyCommand
	}
	prog, err := syntax.NewParser().Parse(strings.NewReader(command), "checker")
	if err != nil {
		return nil, fmt.Errorf("parse checker command: %w", err)
	}
	p := &Process{
		command: command,
		prog:    prog,
		env:     os.Environ(),
		timeout: DefaultTimeout,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Elaborate implements checker.Checker.
func (p *Process) Elaborate(ctx context.Context, req checker.Request) (*checker.Response, error) {
	r, err := p.call(ctx, envelope{Op: opElaborate, Request: &req})
	if err != nil {
		return nil, err
	}
	resp := &checker.Response{Success: r.Success, Messages: make([]checker.Message, 0, len(r.Messages))}
	for i, wm := range r.Messages {
		m, err := wm.decode()
		if err != nil {
			return nil, &ProtocolError{Op: opElaborate, Reason: fmt.Sprintf("messages[%d]: %v", i, err)}
		}
		resp.Messages = append(resp.Messages, m)
	}
	return resp, nil
}

// Lookup implements checker.Checker.
func (p *Process) Lookup(ctx context.Context, name types.Name) (string, bool, error) {
	r, err := p.call(ctx, envelope{Op: opLookup, Name: name})
	if err != nil {
		return "", false, err
	}
	return r.Signature, r.Found, nil
}

// PrettyPrint implements checker.Checker.
func (p *Process) PrettyPrint(ctx context.Context, name types.Name) (string, error) {
	r, err := p.call(ctx, envelope{Op: opPretty, Name: name})
	if err != nil {
		return "", err
	}
	if !r.Found {
		return "", fmt.Errorf("%s: %w", name, checker.ErrNotFound)
	}
	return r.Text, nil
}

func (p *Process) call(ctx context.Context, env envelope) (*reply, error) {
	in, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", env.Op, err)
	}
	in = append(in, '\n')

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	runner, err := interp.New(
		interp.Dir(p.dir),
		interp.Env(expand.ListEnviron(p.env...)),
		interp.StdIO(bytes.NewReader(in), &stdout, &stderr),
	)
	if err != nil {
		return nil, fmt.Errorf("create interpreter: %w", err)
	}

	start := time.Now()
	err = runner.Run(ctx, p.prog)
	p.logger.Debug("checker call", "op", env.Op, "name", callName(env), "elapsed", time.Since(start))
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("checker %s: %w", env.Op, ctxErr)
	}
	if err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return nil, &ExitError{Op: env.Op, Status: int(status), Stderr: strings.TrimSpace(stderr.String())}
		}
		return nil, fmt.Errorf("run checker %s: %w", env.Op, err)
	}

	var r reply
	if err := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &r); err != nil {
		return nil, &ProtocolError{Op: env.Op, Reason: fmt.Sprintf("invalid reply: %v", err)}
	}
	if r.Error != "" {
		return nil, &ProtocolError{Op: env.Op, Reason: r.Error}
	}
	return &r, nil
}

func callName(env envelope) types.Name {
	if env.Request != nil {
		return env.Request.Name
	}
	return env.Name
}

// Command returns the command line.
func (p *Process) Command() string { return p.command }

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("checker %s: exit status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("checker %s: exit status %d: %s", e.Op, e.Status, e.Stderr)
}

// Unwrap returns ErrExit.
func (e *ExitError) Unwrap() error { return ErrExit }

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("checker %s: %s", e.Op, e.Reason)
}

// Unwrap returns ErrProtocol.
func (e *ProtocolError) Unwrap() error { return ErrProtocol }
