// SPDX-License-Identifier: MPL-2.0

package module

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/elmforge/elmforge/internal/config"

	"golang.org/x/exp/slices"
)

// Name is a module identifier: the file path relative to its source
// directory, without extension, slash-joined (e.g. "Page/Home").
type Name string

func (n Name) String() string { return string(n) }

// Resolve returns the module identifier of filePath, using the first entry of
// sourceDirs (in configured order) that is a literal string prefix of it.
// Matching is not path-segment aware: "src" also matches "src2/Main.elm".
// Only a leading "/" is dropped from the remainder, so "srcTest/X.elm" under
// "src" resolves to "Test/X" rather than losing the first character of the
// remaining directory. The boolean is false when no source directory matches.
func Resolve(sourceDirs []config.SourceDirectory, filePath string) (Name, bool) {
	normalized := filepath.ToSlash(filePath)

	for _, dir := range sourceDirs {
		prefix := filepath.ToSlash(string(dir))
		if !strings.HasPrefix(normalized, prefix) {
			continue
		}
		return fromRemainder(strings.TrimPrefix(normalized, prefix)), true
	}

	return "", false
}

// fromRemainder turns "/Foo/Bar.elm" into "Foo/Bar". Leading dots belong to
// the name, so ".hidden" keeps its base and ".hidden.elm" becomes ".hidden".
func fromRemainder(remainder string) Name {
	dir, file := path.Split(remainder)
	base := strings.TrimSuffix(file, path.Ext(strings.TrimLeft(file, ".")))

	dir = strings.TrimPrefix(dir, "/")
	dir = strings.TrimSuffix(dir, "/")
	if dir == "" {
		return Name(base)
	}
	return Name(dir + "/" + base)
}

// IsExposed reports whether name is a literal member of exposed. An
// unresolved name (ok == false) is never exposed.
func IsExposed(exposed []config.ModuleName, name Name, ok bool) bool {
	if !ok {
		return false
	}
	return slices.Contains(exposed, config.ModuleName(name))
}
