// SPDX-License-Identifier: MPL-2.0

// Package watch recompiles on change.
//
// A Watcher monitors an Elm project tree with fsnotify, filters events
// through doublestar patterns, and after a quiet period hands the collected
// changes to a callback as a single Batch. Elm sources and configuration
// files (elm.json, elmforge.cue) are reported separately so the caller can
// rebuild its configuration before recompiling.
package watch
