// SPDX-License-Identifier: MPL-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// FormatCUE renders the configuration as an elmforge.cue document.
	FormatCUE Format = "cue"
	// FormatJSON renders the configuration as JSON.
	FormatJSON Format = "json"
	// FormatYAML renders the configuration as YAML.
	FormatYAML Format = "yaml"
	// FormatTOML renders the configuration as TOML.
	FormatTOML Format = "toml"
)

// ErrUnknownFormat is returned by Encode for an unsupported Format.
var ErrUnknownFormat = errors.New("unknown output format")

// Format is an output encoding for the effective configuration.
type Format string

// Encode renders cfg nested under plugins.elm, so the output can be saved as
// a caller config file and read back.
func Encode(cfg Config, format Format) ([]byte, error) {
	doc := map[string]any{"plugins": map[string]any{"elm": cfg}}

	switch format {
	case FormatCUE:
		return []byte(GenerateCUE(cfg)), nil
	case FormatJSON:
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode config as json: %w", err)
		}
		return append(out, '\n'), nil
	case FormatYAML:
		out, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to encode config as yaml: %w", err)
		}
		return out, nil
	case FormatTOML:
		out, err := toml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to encode config as toml: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q (valid: cue, json, yaml, toml)", ErrUnknownFormat, format)
	}
}

// GenerateCUE renders cfg as an elmforge.cue document.
func GenerateCUE(cfg Config) string {
	var sb strings.Builder

	sb.WriteString("// elmforge configuration\n\n")
	sb.WriteString("plugins: elm: {\n")

	opts := cfg.CompilerOptions
	sb.WriteString("\tcompilerOptions: {\n")
	fmt.Fprintf(&sb, "\t\tdebug:    %v\n", opts.Debug)
	fmt.Fprintf(&sb, "\t\toptimize: %v\n", opts.Optimize)
	fmt.Fprintf(&sb, "\t\tverbose:  %v\n", opts.Verbose)
	if opts.PathToElm != "" {
		fmt.Fprintf(&sb, "\t\tpathToElm: %q\n", opts.PathToElm)
	}
	if opts.Cwd != "" {
		fmt.Fprintf(&sb, "\t\tcwd: %q\n", opts.Cwd)
	}
	if opts.Report != ReportDefault {
		fmt.Fprintf(&sb, "\t\treport: %q\n", opts.Report)
	}
	if opts.EnvFile != "" {
		fmt.Fprintf(&sb, "\t\tenvFile: %q\n", opts.EnvFile)
	}
	sb.WriteString("\t}\n")

	fmt.Fprintf(&sb, "\trenderErrors: %v\n", cfg.RenderErrors)
	writeCUEList(&sb, "exposed-modules", cfg.ExposedModules)
	writeCUEList(&sb, "source-directories", cfg.SourceDirectories)

	sb.WriteString("}\n")
	return sb.String()
}

func writeCUEList[S ~string](sb *strings.Builder, label string, items []S) {
	if len(items) == 0 {
		fmt.Fprintf(sb, "\t%q: []\n", label)
		return
	}
	fmt.Fprintf(sb, "\t%q: [\n", label)
	for _, item := range items {
		fmt.Fprintf(sb, "\t\t%q,\n", string(item))
	}
	sb.WriteString("\t]\n")
}
