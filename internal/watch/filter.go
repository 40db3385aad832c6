// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

var (
	// DefaultPatterns select Elm sources.
	DefaultPatterns = []string{"**/*.elm"}

	// configFiles always trigger a batch, whatever the patterns say.
	configFiles = []string{"elm.json", "elmforge.cue"}

	defaultIgnores = []string{
		"**/elm-stuff/**",
		"**/.git/**",
		"**/node_modules/**",
		"**/*.swp",
		"**/*.swo",
		"**/*~",
		"**/.#*",
		"**/.DS_Store",
	}
)

// filter decides which slash-separated paths, relative to the watch root,
// are relevant.
type filter struct {
	patterns []string
	ignores  []string
}

func newFilter(patterns, ignore []string) (filter, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	if err := validatePatterns(patterns, "watch"); err != nil {
		return filter{}, err
	}
	if err := validatePatterns(ignore, "ignore"); err != nil {
		return filter{}, err
	}

	ignores := make([]string, 0, len(defaultIgnores)+len(ignore))
	ignores = append(ignores, defaultIgnores...)
	ignores = append(ignores, ignore...)
	return filter{patterns: patterns, ignores: ignores}, nil
}

func (f filter) ignored(rel string) bool {
	return matchAny(f.ignores, filepath.ToSlash(rel))
}

// ignoredDir also tries rel with a trailing slash so "**/elm-stuff/**" prunes
// the elm-stuff directory itself.
func (f filter) ignoredDir(rel string) bool {
	return f.ignored(rel) || f.ignored(rel+"/")
}

func (f filter) source(rel string) bool {
	return matchAny(f.patterns, filepath.ToSlash(rel))
}

func isConfigFile(rel string) bool {
	base := path.Base(filepath.ToSlash(rel))
	for _, name := range configFiles {
		if base == name {
			return true
		}
	}
	return false
}

func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if matched, err := doublestar.Match(pat, rel); err == nil && matched {
			return true
		}
	}
	return false
}

func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid %s pattern %q", label, pat)
		}
	}
	return nil
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	out := make([]string, len(defaultIgnores))
	copy(out, defaultIgnores)
	return out
}
