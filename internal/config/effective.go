// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/elmforge/elmforge/internal/issue"
	"github.com/elmforge/elmforge/pkg/elmjson"
)

// Effective runs the whole layering once: manifest (best effort), caller
// options from provider, Build over Defaults, and validation.
func Effective(ctx context.Context, provider Provider, opts LoadOptions) (Config, error) {
	manifestPath := opts.ManifestPath
	if manifestPath == "" {
		manifestPath = filepath.Join(opts.BaseDir, elmjson.FileName)
	}
	manifest := elmjson.Load(manifestPath, elmjson.Manifest{})

	overrides, err := provider.Load(ctx, opts)
	if err != nil {
		return Config{}, err
	}

	cfg := Build(Defaults(), manifest, *overrides)
	if valid, errs := cfg.IsValid(); !valid {
		return Config{}, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithSuggestion("exposed-modules and source-directories entries must be non-empty").
			WithSuggestion("compilerOptions.report accepts only \"json\"").
			Wrap(errs[0]).
			BuildError()
	}

	slog.Debug("effective configuration",
		"manifest", manifestPath,
		"source-directories", cfg.SourceDirectories,
		"exposed-modules", cfg.ExposedModules)

	return cfg, nil
}
