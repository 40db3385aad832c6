// SPDX-License-Identifier: MPL-2.0

package config

import (
	"slices"

	"github.com/elmforge/elmforge/pkg/elmjson"
)

// Defaults returns the built-in configuration layer.
func Defaults() Config {
	return Config{
		CompilerOptions:   CompilerOptions{Debug: true},
		RenderErrors:      false,
		ExposedModules:    []ModuleName{},
		SourceDirectories: []SourceDirectory{},
	}
}

// Build layers defaults, the manifest's source directories and the caller
// overrides, in that order. A manifest without "source-directories" keeps the
// default. Each supplied override replaces the field wholesale: a caller
// CompilerOptions without debug drops the default debug flag.
func Build(defaults Config, manifest elmjson.Manifest, overrides Overrides) Config {
	cfg := defaults.Clone()

	if manifest.SourceDirectories != nil {
		cfg.SourceDirectories = make([]SourceDirectory, 0, len(manifest.SourceDirectories))
		for _, dir := range manifest.SourceDirectories {
			cfg.SourceDirectories = append(cfg.SourceDirectories, SourceDirectory(dir))
		}
	}

	if overrides.CompilerOptions != nil {
		cfg.CompilerOptions = *overrides.CompilerOptions
	}
	if overrides.RenderErrors != nil {
		cfg.RenderErrors = *overrides.RenderErrors
	}
	if overrides.ExposedModules != nil {
		cfg.ExposedModules = slices.Clone(overrides.ExposedModules)
	}
	if overrides.SourceDirectories != nil {
		cfg.SourceDirectories = slices.Clone(overrides.SourceDirectories)
	}

	return cfg
}
