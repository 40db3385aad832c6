// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and a catalog of Markdown-rendered
// troubleshooting pages for elmforge's user-facing failures.
package issue
