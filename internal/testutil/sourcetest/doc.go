// SPDX-License-Identifier: MPL-2.0

// Package sourcetest assembles questc source files for tests.
//
// This package is separate from testutil so that pkg/unit tests can use it
// without importing the checker fakes.
//
// # Usage
//
//	src := sourcetest.New("NNG").
//		World("Tutorial").
//		Level(1).
//		New("tactic", "rfl").
//		Statement("(x : ℕ) : x = x", "rfl", sourcetest.WithName("Tutorial.refl")).
//		String()
package sourcetest
