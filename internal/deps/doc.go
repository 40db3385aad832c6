// SPDX-License-Identifier: MPL-2.0

// Package deps finds every local Elm file a module transitively imports.
//
// Imports are read from the module header and resolved against the
// source-directories of the nearest elm.json. Imports that resolve to no
// file on disk (package modules such as Html or Json.Decode) are skipped.
package deps
