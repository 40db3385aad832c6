// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"context"
	"log/slog"

	"github.com/elmforge/elmforge/internal/config"
	"github.com/elmforge/elmforge/internal/module"
)

const (
	// AssetJavaScript tags the adapter's output as compiled script.
	AssetJavaScript AssetType = "javascript"

	// FileExtension is the extension the adapter claims, without the dot.
	FileExtension = "elm"
)

type (
	// AssetType identifies the kind of output a pipeline plugin produces.
	AssetType string

	// File is a pipeline asset. The adapter only ever sets Data.
	File struct {
		Path string
		Data string
	}

	// Compiler compiles one Elm file to JavaScript.
	Compiler interface {
		CompileToString(ctx context.Context, path string, opts config.CompilerOptions) (string, error)
	}

	// DependencyWalker lists every file path the given Elm file transitively
	// imports.
	DependencyWalker interface {
		FindAllDependencies(ctx context.Context, path string) ([]string, error)
	}

	// HostPlugin is the contract a build pipeline expects from a plugin.
	HostPlugin interface {
		IsPipelinePlugin() bool
		Type() AssetType
		Extension() string
		Compile(ctx context.Context, file *File) (*File, error)
		GetDependencies(ctx context.Context, file *File) ([]string, error)
	}

	// Plugin adapts an Elm compiler to a build pipeline.
	Plugin struct {
		cfg      config.Config
		compiler Compiler
		walker   DependencyWalker
		logger   *slog.Logger
	}

	// Option configures a Plugin.
	Option func(*Plugin)
)

var _ HostPlugin = (*Plugin)(nil)

// WithLogger sets the logger used for per-file debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Plugin) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a Plugin over a copy of cfg.
func New(cfg config.Config, compiler Compiler, walker DependencyWalker, opts ...Option) *Plugin {
	p := &Plugin{
		cfg:      cfg.Clone(),
		compiler: compiler,
		walker:   walker,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Config returns a copy of the effective configuration.
func (p *Plugin) Config() config.Config {
	return p.cfg.Clone()
}

// IsPipelinePlugin always reports true.
func (p *Plugin) IsPipelinePlugin() bool { return true }

// Type returns AssetJavaScript.
func (p *Plugin) Type() AssetType { return AssetJavaScript }

// Extension returns FileExtension.
func (p *Plugin) Extension() string { return FileExtension }

// Module resolves the module identifier of file.
func (p *Plugin) Module(file *File) (module.Name, bool) {
	return module.Resolve(p.cfg.SourceDirectories, file.Path)
}

// Exposed reports whether file belongs to an exposed module.
func (p *Plugin) Exposed(file *File) bool {
	name, ok := p.Module(file)
	return module.IsExposed(p.cfg.ExposedModules, name, ok)
}

// Compile compiles file when its module is exposed and returns it with Data
// set to the compiler output. A non-exposed file yields (nil, nil) and the
// compiler is not called. Compiler errors are returned as is.
func (p *Plugin) Compile(ctx context.Context, file *File) (*File, error) {
	name, ok := p.Module(file)
	if !module.IsExposed(p.cfg.ExposedModules, name, ok) {
		p.logger.Debug("skipping non-exposed file", "path", file.Path, "module", name, "resolved", ok)
		return nil, nil
	}

	p.logger.Debug("compiling", "path", file.Path, "module", name)
	out, err := p.compiler.CompileToString(ctx, file.Path, p.cfg.CompilerOptions)
	if err != nil {
		return nil, err
	}

	file.Data = out
	return file, nil
}

// CompileAsync runs Compile in the background.
func (p *Plugin) CompileAsync(ctx context.Context, file *File) *Future[*File] {
	return Go(func() (*File, error) {
		return p.Compile(ctx, file)
	})
}

// GetDependencies delegates to the dependency walker for any file, exposed or
// not. The result is neither filtered nor cached.
func (p *Plugin) GetDependencies(ctx context.Context, file *File) ([]string, error) {
	return p.walker.FindAllDependencies(ctx, file.Path)
}

// GetDependenciesAsync runs GetDependencies in the background.
func (p *Plugin) GetDependenciesAsync(ctx context.Context, file *File) *Future[[]string] {
	return Go(func() ([]string, error) {
		return p.GetDependencies(ctx, file)
	})
}
