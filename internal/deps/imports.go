// SPDX-License-Identifier: MPL-2.0

package deps

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

var importLine = regexp.MustCompile(`^import\s+([A-Z][A-Za-z0-9_]*(?:\.[A-Z][A-Za-z0-9_]*)*)`)

// MaxLineSize is the longest source line ParseImports accepts.
const MaxLineSize = 1024 * 1024

// ParseImports returns the module names imported by an Elm source file, in
// order of appearance and without duplicates. Imports inside {- -} block
// comments are ignored; block comments nest. A line longer than MaxLineSize
// is an error.
func ParseImports(src []byte) ([]string, error) {
	var (
		imports []string
		seen    = make(map[string]struct{})
		depth   int
	)

	scanner := bufio.NewScanner(bytes.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	for scanner.Scan() {
		line := scanner.Text()

		if depth == 0 {
			if m := importLine.FindStringSubmatch(line); m != nil {
				if _, dup := seen[m[1]]; !dup {
					seen[m[1]] = struct{}{}
					imports = append(imports, m[1])
				}
			}
		}
		depth = commentDepth(line, depth)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan imports: %w", err)
	}
	return imports, nil
}

// commentDepth returns the block comment nesting depth at the end of line,
// given the depth at its start. A "--" outside block comments ends the line.
func commentDepth(line string, depth int) int {
	for i := 0; i+1 < len(line); i++ {
		switch {
		case line[i] == '{' && line[i+1] == '-':
			depth++
			i++
		case depth > 0 && line[i] == '-' && line[i+1] == '}':
			depth--
			i++
		case depth == 0 && line[i] == '-' && line[i+1] == '-':
			return depth
		}
	}
	return depth
}

// ModulePath converts a dotted module name to its relative file path
// ("Page.Home" -> "Page/Home.elm").
func ModulePath(name string) string {
	return strings.ReplaceAll(name, ".", "/") + ".elm"
}
