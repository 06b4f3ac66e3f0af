// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors for the questc CLI.
//
// An ActionableError names the failed operation, the resource involved and
// suggestions for fixing it. Errors may additionally point at an Issue, a
// Markdown guide rendered with glamour when the user asks for details.
package issue
