// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// ErrInvalidDocument is the sentinel wrapped by ValidationError.
var ErrInvalidDocument = errors.New("invalid document")

type (
	// ValidationError lists everything wrong with one document.
	ValidationError struct {
		File     string
		Problems []Problem
	}

	// Problem is one failed constraint.
	Problem struct {
		// Path is the offending field in JSON-path notation
		// ("units[3].names[0]"), or "" for document-level problems.
		Path    string
		Message string
	}

	// FileSizeError is returned when a document exceeds the size limit.
	FileSizeError struct {
		File  string
		Size  int64
		Limit int64
	}
)

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("%s: %s", e.File, e.Problems[0])
	}
	lines := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		lines[i] = p.String()
	}
	return fmt.Sprintf("%s: %d problems:\n  %s", e.File, len(e.Problems), strings.Join(lines, "\n  "))
}

// Unwrap returns ErrInvalidDocument.
func (e *ValidationError) Unwrap() error { return ErrInvalidDocument }

func (p Problem) String() string {
	if p.Path == "" {
		return p.Message
	}
	return p.Path + ": " + p.Message
}

// Error implements the error interface.
func (e *FileSizeError) Error() string {
	return fmt.Sprintf("%s: file size %d bytes exceeds maximum %d bytes", e.File, e.Size, e.Limit)
}

// Unwrap returns ErrInvalidDocument.
func (e *FileSizeError) Unwrap() error { return ErrInvalidDocument }

// FormatError converts a CUE error into a *ValidationError for file. Errors
// that do not come from CUE are wrapped with the file name and returned as is.
func FormatError(err error, file string) error {
	if err == nil {
		return nil
	}
	var cueErr cueerrors.Error
	if !errors.As(err, &cueErr) {
		return fmt.Errorf("%s: %w", file, err)
	}

	verr := &ValidationError{File: file}
	for _, e := range cueerrors.Errors(err) {
		raw := cueerrors.Path(e)
		verr.Problems = append(verr.Problems, Problem{Path: formatPath(raw), Message: problemMessage(e, raw)})
	}
	return verr
}

// problemMessage returns the text of e without the path prefix CUE puts in
// front of it, since Problem carries the path separately.
func problemMessage(e cueerrors.Error, path []string) string {
	msg := e.Error()
	for _, prefix := range []string{strings.Join(path, "."), formatPath(path)} {
		if prefix != "" && strings.HasPrefix(msg, prefix) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, prefix), ":"))
			break
		}
	}
	return msg
}

// formatPath renders CUE's flat path (["units", "3", "names"]) as
// "units[3].names".
func formatPath(path []string) string {
	var sb strings.Builder
	for i, part := range path {
		switch {
		case i > 0 && isIndex(part):
			sb.WriteString("[" + part + "]")
		case i > 0:
			sb.WriteString("." + part)
		default:
			sb.WriteString(part)
		}
	}
	return sb.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize returns a *FileSizeError when data is larger than maxSize.
func CheckFileSize(data []byte, maxSize int64, file string) error {
	if size := int64(len(data)); size > maxSize {
		return &FileSizeError{File: file, Size: size, Limit: maxSize}
	}
	return nil
}
