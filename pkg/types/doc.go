// SPDX-License-Identifier: MPL-2.0

// Package types defines the value types shared by the curriculum model, the
// build pipeline and the CLI: vocabulary kinds, qualified names, world
// identifiers, level indices and exit codes.
//
// This package is a leaf dependency: it imports only the standard library.
// Every type exposes IsValid() (bool, []error) (or Validate() error for
// ExitCode) and returns typed errors that wrap a package sentinel, so callers
// can use errors.Is for programmatic detection.
package types
