// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides the shared CUE decoding pipeline used for both the
// project manifest (elm.json) and the elmforge caller configuration.
//
// Decoding always follows the same three steps:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify it with the schema definition
//  3. Validate and decode into a Go value
//
// JSON is a subset of CUE, so elm.json goes through the same pipeline as
// elmforge.cue:
//
//	//go:embed manifest_schema.cue
//	var schema []byte
//
//	result, err := cueutil.ParseAndDecode[Manifest](
//	    schema,
//	    data,
//	    "#Manifest",
//	    cueutil.WithFilename("elm.json"),
//	    cueutil.WithConcrete(false),
//	)
package cueutil
