// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/encoding/json"
)

// ParseResult holds a decoded value together with the unified CUE value it
// was decoded from.
type ParseResult[T any] struct {
	// Value is the decoded Go value.
	Value *T

	// Unified is the schema-unified CUE value.
	Unified cue.Value
}

// ParseAndDecode compiles schema, unifies data with the definition at
// schemaPath (e.g. "#Manifest"), validates and decodes into T. Errors carry
// the filename and the CUE path of the offending field.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	name := o.filename
	if name == "" {
		name = "<input>"
	}

	if err := CheckFileSize(data, o.maxFileSize, name); err != nil {
		return nil, err
	}

	cctx := cuecontext.New()
	def, err := lookupDefinition(cctx, schema, schemaPath)
	if err != nil {
		return nil, err
	}

	input, err := compileInput(cctx, data, name, o.strictJSON)
	if err != nil {
		return nil, err
	}

	unified := def.Unify(input)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return nil, FormatError(err, name)
	}

	decoded := new(T)
	if err := unified.Decode(decoded); err != nil {
		return nil, FormatError(err, name)
	}
	return &ParseResult[T]{Value: decoded, Unified: unified}, nil
}

func compileInput(cctx *cue.Context, data []byte, name string, strictJSON bool) (cue.Value, error) {
	var input cue.Value
	if strictJSON {
		expr, err := json.Extract(name, data)
		if err != nil {
			return cue.Value{}, FormatError(err, name)
		}
		input = cctx.BuildExpr(expr)
	} else {
		input = cctx.CompileBytes(data, cue.Filename(name))
	}
	if err := input.Err(); err != nil {
		return cue.Value{}, FormatError(err, name)
	}
	return input, nil
}

// lookupDefinition compiles an embedded schema and returns the definition at
// path. Failures here are programming errors, not user errors.
func lookupDefinition(cctx *cue.Context, schema []byte, path string) (cue.Value, error) {
	compiled := cctx.CompileBytes(schema)
	if err := compiled.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("compile embedded schema: %w", err)
	}
	def := compiled.LookupPath(cue.ParsePath(path))
	if err := def.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("embedded schema has no %s: %w", path, err)
	}
	return def, nil
}

// ParseFile reads path and runs ParseAndDecode on its contents. The path is
// used as the filename in error messages unless WithFilename overrides it.
func ParseFile[T any](schema []byte, path, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	withName := make([]Option, 0, len(opts)+1)
	withName = append(withName, WithFilename(path))
	return ParseAndDecode[T](schema, data, schemaPath, append(withName, opts...)...)
}
