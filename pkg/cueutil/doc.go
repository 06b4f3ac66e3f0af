// SPDX-License-Identifier: MPL-2.0

// Package cueutil decodes CUE documents against an embedded schema.
//
// Both questc inputs (quest source files and the user configuration) follow
// the same three steps:
//
//  1. Compile the embedded schema
//  2. Compile the user document and unify it with one schema definition
//  3. Validate and decode into a Go value
//
// # Usage
//
//	//go:embed source_schema.cue
//	var schema []byte
//
//	res, err := cueutil.ParseAndDecode[rawSource](schema, data, "#Source",
//	    cueutil.WithFilename("logic.quest.cue"))
//	if err != nil {
//	    return nil, err // *ValidationError, one problem per offending field
//	}
package cueutil
