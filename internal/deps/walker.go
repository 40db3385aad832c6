// SPDX-License-Identifier: MPL-2.0

package deps

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/elmforge/elmforge/pkg/elmjson"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of directories whose nearest project is
// remembered.
const DefaultCacheSize = 256

type (
	// Walker resolves transitive local imports. It is safe for concurrent use.
	Walker struct {
		projects *lru.Cache[string, project]
		logger   *slog.Logger
	}

	// Option configures a Walker.
	Option func(*walkerOptions)

	walkerOptions struct {
		cacheSize int
		logger    *slog.Logger
	}

	// project is the nearest elm.json of a directory, with its source
	// directories made absolute.
	project struct {
		root       string
		sourceDirs []string
	}
)

// WithCacheSize sets the project lookup cache size.
func WithCacheSize(n int) Option {
	return func(o *walkerOptions) {
		if n > 0 {
			o.cacheSize = n
		}
	}
}

// WithLogger sets the logger used for skipped imports.
func WithLogger(logger *slog.Logger) Option {
	return func(o *walkerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New creates a Walker.
func New(opts ...Option) (*Walker, error) {
	o := walkerOptions{cacheSize: DefaultCacheSize, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	cache, err := lru.New[string, project](o.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create project cache: %w", err)
	}
	return &Walker{projects: cache, logger: o.logger}, nil
}

// FindAllDependencies returns the absolute paths of every local file path
// imports, directly or transitively, in discovery order. The entry file is
// not included. A failure to read the entry file is returned unchanged.
func (w *Walker) FindAllDependencies(ctx context.Context, path string) ([]string, error) {
	entry, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	src, err := os.ReadFile(entry)
	if err != nil {
		return nil, err
	}

	var (
		found   []string
		visited = map[string]struct{}{entry: {}}
		queue   = []pending{{file: entry, src: src}}
	)

	for len(queue) > 0 {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		current := queue[0]
		queue = queue[1:]

		names, parseErr := ParseImports(current.src)
		if parseErr != nil {
			return nil, fmt.Errorf("%s: %w", current.file, parseErr)
		}

		proj := w.projectFor(filepath.Dir(current.file))
		for _, name := range names {
			dep, ok := proj.locate(name)
			if !ok {
				w.logger.Debug("skipping non-local import", "module", name, "from", current.file)
				continue
			}
			if _, seen := visited[dep]; seen {
				continue
			}
			visited[dep] = struct{}{}

			depSrc, readErr := os.ReadFile(dep)
			if readErr != nil {
				return nil, fmt.Errorf("read dependency %s of %s: %w", dep, current.file, readErr)
			}
			found = append(found, dep)
			queue = append(queue, pending{file: dep, src: depSrc})
		}
	}

	return found, nil
}

type pending struct {
	file string
	src  []byte
}

// projectFor returns the project owning dir. Without an elm.json the
// directory itself is the only source directory.
func (w *Walker) projectFor(dir string) project {
	if p, ok := w.projects.Get(dir); ok {
		return p
	}

	p := project{root: dir, sourceDirs: []string{dir}}
	if root, ok := elmjson.FindUp(dir); ok {
		manifest := elmjson.Load(filepath.Join(root, elmjson.FileName), elmjson.Manifest{})
		p = project{root: root, sourceDirs: make([]string, 0, len(manifest.SourceDirectories))}
		for _, src := range manifest.SourceDirectories {
			if !filepath.IsAbs(src) {
				src = filepath.Join(root, filepath.FromSlash(src))
			}
			p.sourceDirs = append(p.sourceDirs, filepath.Clean(src))
		}
	}

	w.projects.Add(dir, p)
	return p
}

// locate finds the file defining module name in the first source directory
// that has it.
func (p project) locate(name string) (string, bool) {
	rel := filepath.FromSlash(ModulePath(name))
	for _, dir := range p.sourceDirs {
		candidate := filepath.Join(dir, rel)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}
