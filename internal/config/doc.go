// SPDX-License-Identifier: MPL-2.0

// Package config builds the effective elmforge plugin configuration.
//
// Three layers are combined once, in priority order: built-in defaults, the
// "source-directories" of the project manifest (elm.json), and the caller's
// plugin options found under plugins.elm in elmforge.cue (or a JSON, YAML or
// TOML file given with --config). Caller options replace whole fields; there
// is no deep merge. The result is an immutable Config value that is passed to
// every per-file operation.
package config
