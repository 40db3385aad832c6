// SPDX-License-Identifier: MPL-2.0

// Package elmjson reads the Elm project manifest (elm.json).
//
// Only the "source-directories" key is used. The manifest is optional: Load
// absorbs every failure and hands back the caller's fallback value, so a
// missing or broken elm.json never blocks a build.
package elmjson
