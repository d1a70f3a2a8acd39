// Package gen implements the typemint generator.
//
// It turns //unique:type directives in Go source into generated marker type
// declarations that embed unique.Marker and carry a fingerprint derived from
// the directive's source position.
//
// The gen package handles:
//   - Parsing and validating typemint.yaml configuration
//   - Scanning packages for directives via go/packages
//   - Deriving per-site fingerprints and detecting collisions
//   - Emitting one generated file per package
//   - Verifying emitted files are current without rewriting them
package gen

import (
	"fmt"
	"go/token"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/typemint/typemint/internal/config"
)

// Config represents the top-level typemint.yaml configuration. The config
// file is optional; command-line flags cover the same options.
type Config struct {
	// Packages lists the package patterns to scan (e.g. "./...").
	// Defaults to ["./..."] if omitted.
	Packages []string `yaml:"packages,omitempty"`

	// Output is the file name written into each package that contains
	// directives. Defaults to "unique_typemint.go".
	Output string `yaml:"output,omitempty"`

	// Tags is an optional build constraint for generated files, emitted as a
	// //go:build line (e.g. "!tinygo").
	Tags string `yaml:"tags,omitempty"`

	// MarkerImport is the import path of the package providing Marker,
	// Fingerprint and Unique. Overriding it is only useful when vendoring the
	// library under a different path; the path must still end in a package
	// named "unique", since generated code references unique.Marker.
	MarkerImport string `yaml:"marker_import,omitempty"`
}

// DefaultMarkerImport is the canonical import path generated files reference.
const DefaultMarkerImport = "github.com/typemint/typemint/pkg/unique"

// LoadConfig reads and parses a typemint.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses typemint.yaml content from bytes.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig searches for typemint.yaml starting from dir and walking up to
// parent directories, similar to how .gitignore is found.
// Returns the path to the config file and nil error if found,
// or empty string and nil error if not found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range config.ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", nil
		}
		dir = parent
	}
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(path string) error {
	for i, pattern := range c.Packages {
		if pattern == "" {
			return fmt.Errorf("%s: packages[%d]: pattern is empty", path, i)
		}
	}

	if c.Output != "" {
		if filepath.Base(c.Output) != c.Output {
			return fmt.Errorf("%s: output %q must be a bare file name, not a path", path, c.Output)
		}
		if filepath.Ext(c.Output) != ".go" {
			return fmt.Errorf("%s: output %q must end in .go", path, c.Output)
		}
	}

	if c.MarkerImport != "" {
		// Minimal sanity: an import path has no spaces and no leading slash.
		for _, r := range c.MarkerImport {
			if r == ' ' || r == '"' {
				return fmt.Errorf("%s: marker_import %q is not a valid import path", path, c.MarkerImport)
			}
		}
		if c.MarkerImport[0] == '/' {
			return fmt.Errorf("%s: marker_import %q is not a valid import path", path, c.MarkerImport)
		}
	}

	return nil
}

// setDefaults fills in default values for omitted fields.
func (c *Config) setDefaults() {
	if len(c.Packages) == 0 {
		c.Packages = []string{"./..."}
	}
	if c.Output == "" {
		c.Output = config.DefaultOutputFile
	}
	if c.MarkerImport == "" {
		c.MarkerImport = DefaultMarkerImport
	}
}

// validTypeName reports whether name can be declared as a Go type name.
// token.IsIdentifier already excludes keywords.
func validTypeName(name string) bool {
	return token.IsIdentifier(name)
}
