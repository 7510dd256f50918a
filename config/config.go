// Package config provides configuration loading and management for semlint.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete semlint configuration
type Config struct {
	Lint    LintConfig    `yaml:"lint"`
	Rules   Rules         `yaml:"rules"`
	Output  OutputConfig  `yaml:"output"`
	Guide   GuideConfig   `yaml:"guide"`
	Serve   ServeConfig   `yaml:"serve"`
	History HistoryConfig `yaml:"history"`
}

// LintConfig configures target selection and failure behaviour
type LintConfig struct {
	// Root is the repository root path (auto-detected from git if empty)
	Root string `yaml:"root"`
	// FailOn is the severity at or above which findings fail the run
	// (info, warning, error)
	FailOn string `yaml:"fail_on"`
	// Include are glob patterns selecting files to check (empty = all
	// files with a registered parser under the targets)
	Include []string `yaml:"include"`
	// Exclude are glob patterns removing files from the target set
	Exclude []string `yaml:"exclude"`
	// Languages restricts checking to the named parsers (empty = all)
	Languages []string `yaml:"languages"`
}

// Rules carries the rule thresholds and per-rule switches
type Rules struct {
	// MaxMethodLines is the method body line budget
	MaxMethodLines int `yaml:"max_method_lines"`
	// MaxParameters is the parameter count budget
	MaxParameters int `yaml:"max_parameters"`
	// MaxNesting is the statement nesting budget
	MaxNesting int `yaml:"max_nesting"`
	// MagicNumberAllow lists numeric literals that are never magic
	MagicNumberAllow []string `yaml:"magic_number_allow"`
	// DuplicateStringThreshold is the occurrence count at which a
	// repeated string literal is reported
	DuplicateStringThreshold int `yaml:"duplicate_string_threshold"`
	// MaxClassMethods is the per-type method budget
	MaxClassMethods int `yaml:"max_class_methods"`
	// MaxClassFields is the per-type field budget
	MaxClassFields int `yaml:"max_class_fields"`
	// MinCohesion is the minimum mean fraction of fields a method touches
	MinCohesion float64 `yaml:"min_cohesion"`
	// ShortNameAllow lists single-character names that are conventional
	ShortNameAllow []string `yaml:"short_name_allow"`
	// Disabled lists rule IDs to switch off
	Disabled []string `yaml:"disabled"`
	// Severity overrides the default severity per rule ID
	Severity map[string]string `yaml:"severity"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	// Format is the report format (text, json, checkstyle, markdown)
	Format string `yaml:"format"`
	// Path writes the report to a file instead of stdout
	Path string `yaml:"path"`
}

// GuideConfig configures the style guide document
type GuideConfig struct {
	// Path is the guide markdown file relative to the repo root
	Path string `yaml:"path"`
	// FetchTimeout bounds guide fetching from a URL
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	// MaxFetchSize bounds the fetched document size in bytes
	MaxFetchSize int64 `yaml:"max_fetch_size"`
	// UserAgent is sent when fetching a guide
	UserAgent string `yaml:"user_agent"`
}

// ServeConfig configures the continuous checking service
type ServeConfig struct {
	// Listen is the HTTP listen address for metrics and health
	Listen string `yaml:"listen"`
	// NATSURL is the NATS server URL for report publishing
	NATSURL string `yaml:"nats_url"`
	// Subject is the subject prefix reports are published to
	Subject string `yaml:"subject"`
	// Bucket is the KV bucket holding the latest report
	Bucket string `yaml:"bucket"`
	// Publish enables NATS publishing
	Publish bool `yaml:"publish"`
	// Debounce is how long to wait for more changes before re-checking
	Debounce time.Duration `yaml:"debounce"`
}

// HistoryConfig configures the run history store
type HistoryConfig struct {
	// Path is the SQLite database path relative to the repo root
	Path string `yaml:"path"`
	// Keep is the number of runs retained by pruning
	Keep int `yaml:"keep"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Lint: LintConfig{
			Root:   "", // Auto-detect
			FailOn: "warning",
			Exclude: []string{
				"**/vendor/**",
				"**/testdata/**",
			},
		},
		Rules: Rules{
			MaxMethodLines:           20,
			MaxParameters:            2,
			MaxNesting:               3,
			MagicNumberAllow:         []string{"-1", "0", "1", "2"},
			DuplicateStringThreshold: 3,
			MaxClassMethods:          20,
			MaxClassFields:           15,
			MinCohesion:              0.33,
			ShortNameAllow:           []string{"i", "j", "k", "_"},
		},
		Output: OutputConfig{
			Format: "text",
		},
		Guide: GuideConfig{
			Path:         "STYLEGUIDE.md",
			FetchTimeout: 30 * time.Second,
			MaxFetchSize: 10 * 1024 * 1024,
			UserAgent:    "semlint/1.0",
		},
		Serve: ServeConfig{
			Listen:   ":9167",
			Subject:  "lint.report",
			Bucket:   "semlint-reports",
			Debounce: 500 * time.Millisecond,
		},
		History: HistoryConfig{
			Path: ".semlint/history.db",
			Keep: 30,
		},
	}
}

// validSeverities are the severity names accepted in configuration.
// The lint package owns severity semantics; this list only gates input.
var validSeverities = map[string]bool{
	"info":    true,
	"warning": true,
	"error":   true,
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if !validSeverities[c.Lint.FailOn] {
		return fmt.Errorf("lint.fail_on must be info, warning, or error, got %q", c.Lint.FailOn)
	}
	if c.Rules.MaxMethodLines <= 0 {
		return fmt.Errorf("rules.max_method_lines must be positive")
	}
	if c.Rules.MaxParameters < 0 {
		return fmt.Errorf("rules.max_parameters must not be negative")
	}
	if c.Rules.MaxNesting <= 0 {
		return fmt.Errorf("rules.max_nesting must be positive")
	}
	if c.Rules.DuplicateStringThreshold < 2 {
		return fmt.Errorf("rules.duplicate_string_threshold must be at least 2")
	}
	if c.Rules.MaxClassMethods <= 0 {
		return fmt.Errorf("rules.max_class_methods must be positive")
	}
	if c.Rules.MaxClassFields <= 0 {
		return fmt.Errorf("rules.max_class_fields must be positive")
	}
	if c.Rules.MinCohesion < 0 || c.Rules.MinCohesion > 1 {
		return fmt.Errorf("rules.min_cohesion must be between 0 and 1")
	}
	for id, severity := range c.Rules.Severity {
		if !validSeverities[severity] {
			return fmt.Errorf("rules.severity[%s] must be info, warning, or error, got %q", id, severity)
		}
	}
	if c.Output.Format == "" {
		return fmt.Errorf("output.format is required")
	}
	if c.Guide.FetchTimeout <= 0 {
		return fmt.Errorf("guide.fetch_timeout must be positive")
	}
	if c.Guide.MaxFetchSize <= 0 {
		return fmt.Errorf("guide.max_fetch_size must be positive")
	}
	if c.Serve.Debounce < 0 {
		return fmt.Errorf("serve.debounce must not be negative")
	}
	if c.History.Keep < 0 {
		return fmt.Errorf("history.keep must not be negative")
	}
	return nil
}

// IsRuleDisabled reports whether a rule ID is switched off.
func (r *Rules) IsRuleDisabled(id string) bool {
	for _, d := range r.Disabled {
		if d == id {
			return true
		}
	}
	return false
}

// SeverityOverride returns the configured severity for a rule, if any.
func (r *Rules) SeverityOverride(id string) (string, bool) {
	s, ok := r.Severity[id]
	return s, ok
}

// AllowsNumber reports whether a numeric literal is on the allowlist.
func (r *Rules) AllowsNumber(value string) bool {
	for _, allowed := range r.MagicNumberAllow {
		if allowed == value {
			return true
		}
	}
	return false
}

// AllowsShortName reports whether a single-character name is conventional.
func (r *Rules) AllowsShortName(name string) bool {
	for _, allowed := range r.ShortNameAllow {
		if allowed == name {
			return true
		}
	}
	return false
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Lint
	if other.Lint.Root != "" {
		c.Lint.Root = other.Lint.Root
	}
	if other.Lint.FailOn != "" {
		c.Lint.FailOn = other.Lint.FailOn
	}
	if len(other.Lint.Include) > 0 {
		c.Lint.Include = other.Lint.Include
	}
	if len(other.Lint.Exclude) > 0 {
		c.Lint.Exclude = other.Lint.Exclude
	}
	if len(other.Lint.Languages) > 0 {
		c.Lint.Languages = other.Lint.Languages
	}

	// Rules
	if other.Rules.MaxMethodLines != 0 {
		c.Rules.MaxMethodLines = other.Rules.MaxMethodLines
	}
	if other.Rules.MaxParameters != 0 {
		c.Rules.MaxParameters = other.Rules.MaxParameters
	}
	if other.Rules.MaxNesting != 0 {
		c.Rules.MaxNesting = other.Rules.MaxNesting
	}
	if len(other.Rules.MagicNumberAllow) > 0 {
		c.Rules.MagicNumberAllow = other.Rules.MagicNumberAllow
	}
	if other.Rules.DuplicateStringThreshold != 0 {
		c.Rules.DuplicateStringThreshold = other.Rules.DuplicateStringThreshold
	}
	if other.Rules.MaxClassMethods != 0 {
		c.Rules.MaxClassMethods = other.Rules.MaxClassMethods
	}
	if other.Rules.MaxClassFields != 0 {
		c.Rules.MaxClassFields = other.Rules.MaxClassFields
	}
	if other.Rules.MinCohesion != 0 {
		c.Rules.MinCohesion = other.Rules.MinCohesion
	}
	if len(other.Rules.ShortNameAllow) > 0 {
		c.Rules.ShortNameAllow = other.Rules.ShortNameAllow
	}
	if len(other.Rules.Disabled) > 0 {
		c.Rules.Disabled = other.Rules.Disabled
	}
	if len(other.Rules.Severity) > 0 {
		if c.Rules.Severity == nil {
			c.Rules.Severity = make(map[string]string)
		}
		for id, severity := range other.Rules.Severity {
			c.Rules.Severity[id] = severity
		}
	}

	// Output
	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}
	if other.Output.Path != "" {
		c.Output.Path = other.Output.Path
	}

	// Guide
	if other.Guide.Path != "" {
		c.Guide.Path = other.Guide.Path
	}
	if other.Guide.FetchTimeout != 0 {
		c.Guide.FetchTimeout = other.Guide.FetchTimeout
	}
	if other.Guide.MaxFetchSize != 0 {
		c.Guide.MaxFetchSize = other.Guide.MaxFetchSize
	}
	if other.Guide.UserAgent != "" {
		c.Guide.UserAgent = other.Guide.UserAgent
	}

	// Serve
	if other.Serve.Listen != "" {
		c.Serve.Listen = other.Serve.Listen
	}
	if other.Serve.NATSURL != "" {
		c.Serve.NATSURL = other.Serve.NATSURL
	}
	if other.Serve.Subject != "" {
		c.Serve.Subject = other.Serve.Subject
	}
	if other.Serve.Bucket != "" {
		c.Serve.Bucket = other.Serve.Bucket
	}
	if other.Serve.Publish {
		c.Serve.Publish = true
	}
	if other.Serve.Debounce != 0 {
		c.Serve.Debounce = other.Serve.Debounce
	}

	// History
	if other.History.Path != "" {
		c.History.Path = other.History.Path
	}
	if other.History.Keep != 0 {
		c.History.Keep = other.History.Keep
	}
}
