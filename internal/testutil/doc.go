// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers for tests that build throwaway Elm
// projects on disk and fail the test immediately when setup goes wrong.
//
// Common helpers include project scaffolding (WriteProject, WriteFile), fake
// executables (WriteExecutable), and environment management (MustSetenv,
// SetHomeDir, MustChdir).
package testutil
