// SPDX-License-Identifier: MPL-2.0

package elmjson

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

const applicationManifest = `{
    "type": "application",
    "source-directories": [
        "src",
        "vendor/elm"
    ],
    "elm-version": "0.19.1",
    "dependencies": {
        "direct": {"elm/core": "1.0.5"},
        "indirect": {}
    }
}
`

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return path
}

func TestParse(t *testing.T) {
	t.Parallel()

	m, err := Parse([]byte(applicationManifest), FileName)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := []string{"src", "vendor/elm"}
	if !slices.Equal(m.SourceDirectories, want) {
		t.Errorf("SourceDirectories = %v, want %v", m.SourceDirectories, want)
	}
}

func TestParse_MissingKey(t *testing.T) {
	t.Parallel()

	m, err := Parse([]byte(`{"type": "package", "name": "author/pkg"}`), FileName)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if m.SourceDirectories != nil {
		t.Errorf("SourceDirectories = %v, want nil", m.SourceDirectories)
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "truncated", data: `{"source-directories": [`},
		{name: "wrong element type", data: `{"source-directories": [1, 2]}`},
		{name: "wrong container type", data: `{"source-directories": "src"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := Parse([]byte(tt.data), FileName); err == nil {
				t.Errorf("Parse(%q) expected error", tt.data)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	fallback := Manifest{SourceDirectories: []string{"app"}}

	t.Run("valid manifest", func(t *testing.T) {
		t.Parallel()

		path := writeManifest(t, t.TempDir(), applicationManifest)
		got := Load(path, fallback)
		if !slices.Equal(got.SourceDirectories, []string{"src", "vendor/elm"}) {
			t.Errorf("Load() = %v", got.SourceDirectories)
		}
	})

	t.Run("missing file yields fallback", func(t *testing.T) {
		t.Parallel()

		got := Load(filepath.Join(t.TempDir(), FileName), fallback)
		if !slices.Equal(got.SourceDirectories, fallback.SourceDirectories) {
			t.Errorf("Load() = %v, want fallback", got.SourceDirectories)
		}
	})

	t.Run("malformed file yields fallback", func(t *testing.T) {
		t.Parallel()

		path := writeManifest(t, t.TempDir(), "{ not json")
		got := Load(path, fallback)
		if !slices.Equal(got.SourceDirectories, fallback.SourceDirectories) {
			t.Errorf("Load() = %v, want fallback", got.SourceDirectories)
		}
	})

	for _, tc := range []struct {
		name string
		data string
	}{
		{name: "trailing comma", data: `{"source-directories": ["a",],}`},
		{name: "line comment", data: "// hi\n{\"source-directories\": [\"c\"]}"},
		{name: "CUE expression", data: `{"source-directories": ["a" + "b"]}`},
		{name: "unquoted key", data: `{source-directories: ["a"]}`},
	} {
		t.Run(tc.name+" yields fallback", func(t *testing.T) {
			t.Parallel()

			path := writeManifest(t, t.TempDir(), tc.data)
			got := Load(path, fallback)
			if !slices.Equal(got.SourceDirectories, fallback.SourceDirectories) {
				t.Errorf("Load() = %v, want fallback", got.SourceDirectories)
			}
		})
	}

	t.Run("directory instead of file yields fallback", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		if err := os.Mkdir(filepath.Join(dir, FileName), 0o755); err != nil {
			t.Fatal(err)
		}
		got := Load(filepath.Join(dir, FileName), Manifest{})
		if got.SourceDirectories != nil {
			t.Errorf("Load() = %v, want empty fallback", got.SourceDirectories)
		}
	})
}

func TestManifestClone(t *testing.T) {
	t.Parallel()

	orig := Manifest{SourceDirectories: []string{"src"}}
	clone := orig.Clone()
	clone.SourceDirectories[0] = "changed"
	if orig.SourceDirectories[0] != "src" {
		t.Error("Clone() shares the backing array")
	}

	empty := Manifest{SourceDirectories: []string{}}.Clone()
	if empty.SourceDirectories == nil {
		t.Error("Clone() lost the present-but-empty distinction")
	}
	if (Manifest{}).Clone().SourceDirectories != nil {
		t.Error("Clone() of absent key should stay nil")
	}
}

func TestFindUp(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeManifest(t, root, applicationManifest)
	nested := filepath.Join(root, "src", "Page", "Home")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, ok := FindUp(nested)
	if !ok {
		t.Fatal("FindUp() found nothing")
	}
	wantRoot, _ := filepath.EvalSymlinks(root)
	gotRoot, _ := filepath.EvalSymlinks(got)
	if gotRoot != wantRoot {
		t.Errorf("FindUp() = %q, want %q", got, root)
	}
}
