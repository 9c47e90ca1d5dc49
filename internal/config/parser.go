package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	stackerrors "github.com/alexisbeaulieu97/stackrender/pkg/errors"
)

const (
	// DefaultVersion is written into configs built by Default.
	DefaultVersion = "1.0"
	// DefaultScope is the style scope used when none is configured.
	DefaultScope = "default"
	// DefaultAddr is the HTTP listen address used when none is configured.
	DefaultAddr = ":8080"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// Default returns the configuration used when no stackrender.yaml is given.
func Default() *Config {
	cfg := &Config{Version: DefaultVersion}
	applyDefaults(cfg)
	return cfg
}

// ParseConfig loads stackrender.yaml from disk, applies defaults, validates
// it and returns the result. An empty path yields Default().
func ParseConfig(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, stackerrors.NewParseError(path, 0, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, stackerrors.NewParseError(path, extractLine(err), err)
	}

	applyDefaults(&cfg)
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Styles.Source == "" {
		cfg.Styles.Source = "inline"
	}
	if cfg.Styles.Scope == "" {
		cfg.Styles.Scope = DefaultScope
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
}

// ParseDocument loads and validates a question document from disk.
func ParseDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, stackerrors.NewParseError(path, 0, err)
	}
	return DecodeDocument(data, path)
}

// DecodeDocument decodes and validates a question document. JSON input is
// accepted as well since it is valid YAML. source names the input in errors.
func DecodeDocument(data []byte, source string) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, stackerrors.NewParseError(source, extractLine(err), err)
	}

	if err := ValidateDocument(&doc); err != nil {
		return nil, err
	}

	return &doc, nil
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	if _, scanErr := fmt.Sscanf(matches[1], "%d", &line); scanErr != nil {
		return 0
	}

	return line
}
