// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// MustChdir changes the current working directory to dir.
// It returns a cleanup function that restores the original directory.
// Tests calling it must not run in parallel.
func MustChdir(t testing.TB, dir string) func() {
	t.Helper()
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get current directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change directory to %s: %v", dir, err)
	}
	return func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Errorf("failed to restore directory to %s: %v", originalWd, err)
		}
	}
}

// MustSetenv sets the environment variable key to value.
// It returns a cleanup function that restores the original value (or unsets it).
func MustSetenv(t testing.TB, key, value string) func() {
	t.Helper()
	originalValue, hadValue := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set env %s: %v", key, err)
	}
	return func() {
		if hadValue {
			if err := os.Setenv(key, originalValue); err != nil {
				t.Errorf("failed to restore env %s: %v", key, err)
			}
		} else {
			if err := os.Unsetenv(key); err != nil {
				t.Errorf("failed to unset env %s: %v", key, err)
			}
		}
	}
}

// WriteFile writes content to root/rel, creating parent directories.
// It returns the absolute path of the written file.
func WriteFile(t testing.TB, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", rel, err)
	}
	return path
}

// WriteProject creates an Elm application under root: an elm.json listing
// sourceDirs plus every entry of files (slash-separated relative path to
// content).
func WriteProject(t testing.TB, root string, sourceDirs []string, files map[string]string) {
	t.Helper()

	manifest := map[string]any{
		"type":               "application",
		"source-directories": sourceDirs,
		"elm-version":        "0.19.1",
		"dependencies": map[string]any{
			"direct":   map[string]string{"elm/core": "1.0.5"},
			"indirect": map[string]string{},
		},
	}
	data, err := json.MarshalIndent(manifest, "", "    ")
	if err != nil {
		t.Fatalf("failed to encode elm.json: %v", err)
	}
	WriteFile(t, root, "elm.json", string(data))

	for rel, content := range files {
		WriteFile(t, root, rel, content)
	}
}

// WriteExecutable writes an executable script named name into dir and
// returns its path.
func WriteExecutable(t testing.TB, dir, name, script string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write executable %s: %v", name, err)
	}
	return path
}
