// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	// ReportDefault leaves the compiler's human-readable report format.
	ReportDefault ReportFormat = ""
	// ReportJSON asks the compiler for machine-readable error reports.
	ReportJSON ReportFormat = "json"
)

var (
	// ErrInvalidModuleName is the sentinel error wrapped by InvalidModuleNameError.
	ErrInvalidModuleName = errors.New("invalid module name")
	// ErrInvalidSourceDirectory is the sentinel error wrapped by InvalidSourceDirectoryError.
	ErrInvalidSourceDirectory = errors.New("invalid source directory")
	// ErrInvalidReportFormat is the sentinel error wrapped by InvalidReportFormatError.
	ErrInvalidReportFormat = errors.New("invalid report format")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ModuleName is an entry of the exposed-modules allow-list. It is compared
	// literally against resolved module identifiers such as "Page/Home".
	ModuleName string

	// InvalidModuleNameError is returned when a ModuleName is empty or
	// whitespace-only.
	InvalidModuleNameError struct {
		Value ModuleName
	}

	// SourceDirectory is a path prefix under which compilable files live.
	// Matching against file paths is a literal string prefix test.
	SourceDirectory string

	// InvalidSourceDirectoryError is returned when a SourceDirectory is empty
	// or whitespace-only.
	InvalidSourceDirectoryError struct {
		Value SourceDirectory
	}

	// ReportFormat selects the compiler's error report format.
	ReportFormat string

	// InvalidReportFormatError is returned for an unknown ReportFormat.
	InvalidReportFormatError struct {
		Value ReportFormat
	}

	// InvalidConfigError collects field-level validation errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// CompilerOptions is forwarded to the compiler collaborator as one unit.
	// elmforge itself never inspects it beyond passing it along.
	CompilerOptions struct {
		// Debug enables the Elm time-travelling debugger in the output.
		Debug bool `json:"debug" yaml:"debug" toml:"debug" mapstructure:"debug"`
		// Optimize turns on production optimizations.
		Optimize bool `json:"optimize" yaml:"optimize" toml:"optimize" mapstructure:"optimize"`
		// Verbose logs the full compiler command line at info level.
		Verbose bool `json:"verbose" yaml:"verbose" toml:"verbose" mapstructure:"verbose"`
		// PathToElm overrides the compiler executable. Shell-style variables
		// like $HOME are expanded.
		PathToElm string `json:"pathToElm,omitempty" yaml:"pathToElm,omitempty" toml:"pathToElm,omitempty" mapstructure:"pathToElm"`
		// Cwd is the working directory of the compiler process.
		Cwd string `json:"cwd,omitempty" yaml:"cwd,omitempty" toml:"cwd,omitempty" mapstructure:"cwd"`
		// Report selects the error report format.
		Report ReportFormat `json:"report,omitempty" yaml:"report,omitempty" toml:"report,omitempty" mapstructure:"report"`
		// EnvFile is a dotenv file whose variables are added to the compiler
		// process environment.
		EnvFile string `json:"envFile,omitempty" yaml:"envFile,omitempty" toml:"envFile,omitempty" mapstructure:"envFile"`
	}

	// Config is the effective plugin configuration. Build returns it by value
	// and nothing mutates it afterwards.
	Config struct {
		CompilerOptions   CompilerOptions   `json:"compilerOptions" yaml:"compilerOptions" toml:"compilerOptions"`
		RenderErrors      bool              `json:"renderErrors" yaml:"renderErrors" toml:"renderErrors"`
		ExposedModules    []ModuleName      `json:"exposed-modules" yaml:"exposed-modules" toml:"exposed-modules"`
		SourceDirectories []SourceDirectory `json:"source-directories" yaml:"source-directories" toml:"source-directories"`
	}

	// Overrides are the caller-supplied plugin options. Every field is
	// independently optional: nil means "not supplied" and keeps the value of
	// the lower layers.
	Overrides struct {
		CompilerOptions   *CompilerOptions  `mapstructure:"compilerOptions"`
		RenderErrors      *bool             `mapstructure:"renderErrors"`
		ExposedModules    []ModuleName      `mapstructure:"exposed-modules"`
		SourceDirectories []SourceDirectory `mapstructure:"source-directories"`
	}
)

// String returns the string representation of the ModuleName.
func (n ModuleName) String() string { return string(n) }

// IsValid returns whether the ModuleName is non-empty and not whitespace-only.
func (n ModuleName) IsValid() (bool, []error) {
	if strings.TrimSpace(string(n)) == "" {
		return false, []error{&InvalidModuleNameError{Value: n}}
	}
	return true, nil
}

// Error implements the error interface for InvalidModuleNameError.
func (e *InvalidModuleNameError) Error() string {
	return fmt.Sprintf("invalid module name %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidModuleName for errors.Is() compatibility.
func (e *InvalidModuleNameError) Unwrap() error { return ErrInvalidModuleName }

// String returns the string representation of the SourceDirectory.
func (d SourceDirectory) String() string { return string(d) }

// IsValid returns whether the SourceDirectory is non-empty and not
// whitespace-only. An empty prefix would match every file.
func (d SourceDirectory) IsValid() (bool, []error) {
	if strings.TrimSpace(string(d)) == "" {
		return false, []error{&InvalidSourceDirectoryError{Value: d}}
	}
	return true, nil
}

// Error implements the error interface for InvalidSourceDirectoryError.
func (e *InvalidSourceDirectoryError) Error() string {
	return fmt.Sprintf("invalid source directory %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidSourceDirectory for errors.Is() compatibility.
func (e *InvalidSourceDirectoryError) Unwrap() error { return ErrInvalidSourceDirectory }

// String returns the string representation of the ReportFormat.
func (r ReportFormat) String() string { return string(r) }

// IsValid returns whether the ReportFormat is one of the known formats.
func (r ReportFormat) IsValid() (bool, []error) {
	switch r {
	case ReportDefault, ReportJSON:
		return true, nil
	default:
		return false, []error{&InvalidReportFormatError{Value: r}}
	}
}

// Error implements the error interface for InvalidReportFormatError.
func (e *InvalidReportFormatError) Error() string {
	return fmt.Sprintf("invalid report format %q (valid: \"\", json)", e.Value)
}

// Unwrap returns ErrInvalidReportFormat for errors.Is() compatibility.
func (e *InvalidReportFormatError) Unwrap() error { return ErrInvalidReportFormat }

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig followed by the field errors, so both the
// sentinel and the specific field sentinels match with errors.Is().
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// IsValid validates every exposed module, every source directory and the
// compiler report format.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.CompilerOptions.Report.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	for _, name := range c.ExposedModules {
		if valid, fieldErrs := name.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	for _, dir := range c.SourceDirectories {
		if valid, fieldErrs := dir.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Clone returns a deep copy of the Config.
func (c Config) Clone() Config {
	c.ExposedModules = slices.Clone(c.ExposedModules)
	c.SourceDirectories = slices.Clone(c.SourceDirectories)
	return c
}
