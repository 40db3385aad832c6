// SPDX-License-Identifier: MPL-2.0

package config

import (
	"slices"
	"testing"

	"github.com/elmforge/elmforge/pkg/elmjson"
)

func boolPtr(b bool) *bool { return &b }

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := Defaults()

	if !cfg.CompilerOptions.Debug {
		t.Error("expected compilerOptions.debug to be true by default")
	}
	if cfg.CompilerOptions != (CompilerOptions{Debug: true}) {
		t.Errorf("expected compilerOptions to be exactly {debug: true}, got %+v", cfg.CompilerOptions)
	}
	if cfg.RenderErrors {
		t.Error("expected renderErrors to be false by default")
	}
	if cfg.ExposedModules == nil || len(cfg.ExposedModules) != 0 {
		t.Errorf("expected empty exposed-modules, got %v", cfg.ExposedModules)
	}
	if cfg.SourceDirectories == nil || len(cfg.SourceDirectories) != 0 {
		t.Errorf("expected empty source-directories, got %v", cfg.SourceDirectories)
	}
}

func TestBuild_ManifestSourceDirectories(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		manifest elmjson.Manifest
		want     []SourceDirectory
	}{
		{
			name:     "manifest value replaces default",
			manifest: elmjson.Manifest{SourceDirectories: []string{"src", "lib"}},
			want:     []SourceDirectory{"src", "lib"},
		},
		{
			name:     "absent key keeps default",
			manifest: elmjson.Manifest{},
			want:     []SourceDirectory{},
		},
		{
			name:     "present but empty",
			manifest: elmjson.Manifest{SourceDirectories: []string{}},
			want:     []SourceDirectory{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Build(Defaults(), tt.manifest, Overrides{})
			if !slices.Equal(cfg.SourceDirectories, tt.want) {
				t.Errorf("SourceDirectories = %v, want %v", cfg.SourceDirectories, tt.want)
			}
		})
	}
}

func TestBuild_CompilerOptionsReplacedWholesale(t *testing.T) {
	t.Parallel()

	overrides := Overrides{
		CompilerOptions: &CompilerOptions{Optimize: true},
	}
	cfg := Build(Defaults(), elmjson.Manifest{}, overrides)

	if cfg.CompilerOptions.Debug {
		t.Error("caller compilerOptions must replace the default, not merge into it")
	}
	if !cfg.CompilerOptions.Optimize {
		t.Error("expected caller optimize flag to survive")
	}
}

func TestBuild_CallerOverridesWin(t *testing.T) {
	t.Parallel()

	manifest := elmjson.Manifest{SourceDirectories: []string{"src"}}
	overrides := Overrides{
		RenderErrors:      boolPtr(true),
		ExposedModules:    []ModuleName{"Main", "Page/Home"},
		SourceDirectories: []SourceDirectory{"app"},
	}
	cfg := Build(Defaults(), manifest, overrides)

	if !cfg.RenderErrors {
		t.Error("expected renderErrors override to apply")
	}
	if !slices.Equal(cfg.ExposedModules, []ModuleName{"Main", "Page/Home"}) {
		t.Errorf("ExposedModules = %v", cfg.ExposedModules)
	}
	if !slices.Equal(cfg.SourceDirectories, []SourceDirectory{"app"}) {
		t.Errorf("SourceDirectories = %v, want caller value over manifest", cfg.SourceDirectories)
	}
	if !cfg.CompilerOptions.Debug {
		t.Error("unsupplied compilerOptions should keep the default")
	}
}

func TestBuild_ExplicitFalseOverridesTrue(t *testing.T) {
	t.Parallel()

	defaults := Defaults()
	defaults.RenderErrors = true
	cfg := Build(defaults, elmjson.Manifest{}, Overrides{RenderErrors: boolPtr(false)})
	if cfg.RenderErrors {
		t.Error("explicit false override must win over a true lower layer")
	}
}

func TestBuild_DoesNotAliasInputs(t *testing.T) {
	t.Parallel()

	overrides := Overrides{ExposedModules: []ModuleName{"Main"}}
	manifest := elmjson.Manifest{SourceDirectories: []string{"src"}}
	cfg := Build(Defaults(), manifest, overrides)

	overrides.ExposedModules[0] = "Mutated"
	manifest.SourceDirectories[0] = "mutated"

	if cfg.ExposedModules[0] != "Main" {
		t.Error("Build() result shares exposed-modules with the overrides")
	}
	if cfg.SourceDirectories[0] != "src" {
		t.Error("Build() result shares source-directories with the manifest")
	}
}
