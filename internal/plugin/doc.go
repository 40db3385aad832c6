// SPDX-License-Identifier: MPL-2.0

// Package plugin is the compile adapter a file-based build pipeline talks to.
//
// A Plugin owns the effective configuration (immutable after construction)
// and two collaborators: a Compiler that turns an Elm file into JavaScript and
// a DependencyWalker that lists the files an Elm file imports. For each file
// the adapter resolves the module identifier, checks it against the
// exposed-modules allow-list and, when exposed, delegates to the compiler.
// Compiler and walker failures are returned to the caller unchanged.
package plugin
