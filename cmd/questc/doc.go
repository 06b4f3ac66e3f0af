// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for questc.
//
// Every command shares one pipeline: load configuration, discover and parse
// the game's sources, elaborate them against a proof checker and run the
// availability compiler. The commands differ only in what they print.
package cmd
