package config

import (
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	// ProjectConfigFile is the file name searched for in the project tree.
	ProjectConfigFile = "semlint.yaml"
	// UserConfigDir is the per-user config directory under $HOME.
	UserConfigDir = ".config/semlint"
	// UserConfigFile is the file name inside UserConfigDir.
	UserConfigFile = "config.yaml"
)

// Loader assembles configuration from its layered sources.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a configuration loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load builds the effective configuration: defaults first, then
// ~/.config/semlint/config.yaml, then the nearest semlint.yaml walking
// up from the working directory. Later layers win field by field; flag
// overrides are applied afterwards by the caller.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()
	l.applyUserConfig(cfg)
	l.applyProjectConfig(cfg)
	return l.finish(cfg)
}

// LoadFile loads one explicit config file over the defaults, skipping
// the layered search. Used when --config is given.
func (l *Loader) LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	fileCfg, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	cfg.Merge(fileCfg)

	return l.finish(cfg)
}

func (l *Loader) applyUserConfig(cfg *Config) {
	path := l.userConfigPath()
	userCfg, err := LoadFromFile(path)
	switch {
	case err == nil:
		l.logger.Debug("Loaded user config", slog.String("path", path))
		cfg.Merge(userCfg)
	case !errors.Is(err, os.ErrNotExist):
		l.logger.Warn("Failed to load user config", slog.String("path", path), slog.String("error", err.Error()))
	}
}

func (l *Loader) applyProjectConfig(cfg *Config) {
	path := l.findProjectConfig()
	if path == "" {
		l.logger.Debug("No project config found")
		return
	}

	projectCfg, err := LoadFromFile(path)
	if err != nil {
		l.logger.Warn("Failed to load project config", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	l.logger.Debug("Loaded project config", slog.String("path", path))
	cfg.Merge(projectCfg)
}

// finish fills in the repository root when no layer set one, then
// validates the result.
func (l *Loader) finish(cfg *Config) (*Config, error) {
	if cfg.Lint.Root == "" {
		cfg.Lint.Root = l.defaultRoot()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// defaultRoot prefers the enclosing git repository, then the working
// directory.
func (l *Loader) defaultRoot() string {
	if root := gitRoot(); root != "" {
		l.logger.Debug("Auto-detected git root", slog.String("path", root))
		return root
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return cwd
}

// userConfigPath returns the path of the user-level config file.
func (l *Loader) userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// findProjectConfig walks from the working directory toward the
// filesystem root looking for semlint.yaml.
func (l *Loader) findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		candidate := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func gitRoot() string {
	out, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// ProjectTemplate is the commented starter config written by
// "semlint config init".
const ProjectTemplate = `# semlint project configuration
lint:
  # Severity at or above which findings fail the run: info, warning, error
  fail_on: warning
  exclude:
    - "**/vendor/**"
    - "**/testdata/**"

rules:
  max_method_lines: 20
  max_parameters: 2
  max_nesting: 3
  magic_number_allow: ["-1", "0", "1", "2"]
  duplicate_string_threshold: 3
  max_class_methods: 20
  max_class_fields: 15
  min_cohesion: 0.33
  short_name_allow: ["i", "j", "k", "_"]
  # disabled:
  #   - todo-comment
  # severity:
  #   magic-number: error

output:
  format: text

guide:
  path: STYLEGUIDE.md
`
