// SPDX-License-Identifier: MPL-2.0

// Package elmmake compiles Elm files by running the external `elm make`
// executable and reading back the generated JavaScript.
package elmmake
