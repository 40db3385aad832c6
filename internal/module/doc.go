// SPDX-License-Identifier: MPL-2.0

// Package module maps Elm source file paths to module identifiers and
// decides which identifiers are exposed for compilation.
//
// Both operations are pure: they read only their arguments and never touch
// the filesystem.
package module
