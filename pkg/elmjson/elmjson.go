// SPDX-License-Identifier: MPL-2.0

package elmjson

import (
	_ "embed"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/elmforge/elmforge/pkg/cueutil"
)

// FileName is the manifest file name looked up in the working directory.
const FileName = "elm.json"

//go:embed manifest_schema.cue
var manifestSchema []byte

// Manifest is the part of elm.json elmforge cares about.
type Manifest struct {
	// SourceDirectories lists path prefixes under which modules live. nil
	// means the key was absent; an empty slice means it was present but empty.
	SourceDirectories []string `json:"source-directories,omitempty"`
}

// Parse decodes manifest data. Unlike Load it reports every failure.
func Parse(data []byte, filename string) (*Manifest, error) {
	result, err := cueutil.ParseAndDecode[Manifest](
		manifestSchema,
		data,
		"#Manifest",
		cueutil.WithFilename(filename),
		cueutil.WithConcrete(false),
		cueutil.WithStrictJSON(),
	)
	if err != nil {
		return nil, err
	}
	return result.Value, nil
}

// Load makes a single attempt to read and parse the manifest at path. On any
// failure the fallback is returned; the error is only logged at debug level.
func Load(path string, fallback Manifest) Manifest {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Debug("manifest not readable, using fallback", "path", path, "error", err)
		return fallback
	}

	m, err := Parse(data, path)
	if err != nil {
		slog.Debug("manifest not parseable, using fallback", "path", path, "error", err)
		return fallback
	}
	return *m
}

// Clone returns a deep copy of m, preserving the nil/empty distinction.
func (m Manifest) Clone() Manifest {
	if m.SourceDirectories == nil {
		return Manifest{}
	}
	return Manifest{SourceDirectories: slices.Clone(m.SourceDirectories)}
}

// FindUp returns the nearest directory at or above dir that contains an
// elm.json file.
func FindUp(dir string) (string, bool) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		info, statErr := os.Stat(filepath.Join(abs, FileName))
		if statErr == nil && !info.IsDir() {
			return abs, true
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", false
		}
		abs = parent
	}
}
