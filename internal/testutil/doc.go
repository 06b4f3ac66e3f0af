// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include file fixtures (MustWriteFile, WriteGame,
// MustReadFile) and a checker.Checker whose transport always fails
// (FailingChecker). Source files are assembled with the sourcetest
// subpackage.
package testutil
