// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/elmforge/elmforge/internal/issue"
	"github.com/elmforge/elmforge/pkg/cueutil"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "elmforge"
	// ConfigFileName is the name of the caller config file (without extension).
	ConfigFileName = "elmforge"
	// ConfigFileExt is the default caller config file extension.
	ConfigFileExt = "cue"

	// pluginKey is the only section of the caller config elmforge reads.
	pluginKey = "plugins.elm"
)

//go:embed config_schema.cue
var configSchema []byte

type (
	// LoadOptions defines explicit configuration loading inputs.
	LoadOptions struct {
		// ConfigFilePath forces loading caller options from a specific file.
		// .cue files are validated against the schema; .json, .yaml, .yml and
		// .toml files are read by viper directly.
		ConfigFilePath string
		// ManifestPath overrides the elm.json location.
		ManifestPath string
		// BaseDir is where elmforge.cue and elm.json are looked up. Empty
		// means the working directory.
		BaseDir string
	}

	// Provider loads the caller's plugin options.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Overrides, error)
	}

	fileProvider struct{}
)

// NewProvider creates a file-backed Provider.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads the caller config and decodes the plugins.elm section. A missing
// default config file yields empty overrides; an explicit --config path that
// does not exist is an error.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Overrides, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	path := opts.ConfigFilePath
	if path == "" {
		candidate := filepath.Join(opts.BaseDir, ConfigFileName+"."+ConfigFileExt)
		if !fileExists(candidate) {
			return &Overrides{}, nil
		}
		path = candidate
	} else if !fileExists(path) {
		return nil, issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(path).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Run 'elmforge config dump' to see the effective configuration").
			Wrap(fmt.Errorf("config file not found: %s", path)).
			BuildError()
	}

	if err := readIntoViper(v, path); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(path).
			WithSuggestion("Check that the file contains valid syntax").
			WithSuggestion("Plugin options live under plugins.elm").
			Wrap(err).
			BuildError()
	}

	var overrides Overrides
	if v.IsSet(pluginKey) {
		if err := v.UnmarshalKey(pluginKey, &overrides); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("decode plugin options").
				WithResource(path).
				Wrap(err).
				BuildError()
		}
	}

	return &overrides, nil
}

func readIntoViper(v *viper.Viper, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml", ".toml":
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
		return nil
	default:
		return loadCUEIntoViper(v, path)
	}
}

// loadCUEIntoViper validates a CUE file against #Config and merges the
// decoded map into v.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	result, err := cueutil.ParseFile[map[string]any](configSchema, path, "#Config", cueutil.WithConcrete(false))
	if err != nil {
		return err
	}
	if err := v.MergeConfigMap(*result.Value); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
