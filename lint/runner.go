package lint

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/c360studio/semlint/ast"
	"github.com/c360studio/semlint/config"
)

// RunnerConfig configures a Runner. Zero-value registries fall back to
// the process-wide defaults.
type RunnerConfig struct {
	// Root is the repository root findings are reported relative to
	Root string
	// Config carries the rule thresholds and target filters
	Config *config.Config
	// Rules is the rule catalog (defaults to DefaultRegistry)
	Rules *Registry
	// Parsers is the language front end catalog (defaults to ast.DefaultRegistry)
	Parsers *ast.ParserRegistry
	// Logger for diagnostics (defaults to slog.Default)
	Logger *slog.Logger
	// Version is stamped into reports
	Version string
}

// Runner drives a check: it resolves targets, parses each file through
// the registered front end, and evaluates every enabled rule against
// the result.
type Runner struct {
	root    string
	cfg     *config.Config
	rules   *Registry
	parsers *ast.ParserRegistry
	logger  *slog.Logger
	version string

	mu          sync.Mutex
	parserCache map[string]ast.FileParser
}

// NewRunner creates a runner from the given configuration.
func NewRunner(rc RunnerConfig) *Runner {
	cfg := rc.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	rules := rc.Rules
	if rules == nil {
		rules = DefaultRegistry
	}
	parsers := rc.Parsers
	if parsers == nil {
		parsers = ast.DefaultRegistry
	}
	logger := rc.Logger
	if logger == nil {
		logger = slog.Default()
	}
	root := rc.Root
	if root == "" {
		root = cfg.Lint.Root
	}
	if root == "" {
		root = "."
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &Runner{
		root:        root,
		cfg:         cfg,
		rules:       rules,
		parsers:     parsers,
		logger:      logger,
		version:     rc.Version,
		parserCache: make(map[string]ast.FileParser),
	}
}

// Root returns the repository root the runner reports against.
func (r *Runner) Root() string {
	return r.root
}

// Version returns the tool version stamped into reports.
func (r *Runner) Version() string {
	return r.version
}

// Config returns the runner's configuration.
func (r *Runner) Config() *config.Config {
	return r.cfg
}

// Run checks the given targets and returns the finished report.
// An empty target list means the whole repository root. Files that
// fail to parse contribute a single parse-error finding instead of
// aborting the run.
func (r *Runner) Run(ctx context.Context, targets []string) (*Report, error) {
	report := NewReport(r.version, r.root)

	files, err := ResolveTargets(r.root, targets, r.cfg.Lint, r.parsers)
	if err != nil {
		return nil, fmt.Errorf("resolve targets: %w", err)
	}
	r.logger.Debug("Resolved check targets", "files", len(files))

	for _, path := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		findings, failed := r.checkPath(ctx, path)
		if failed {
			report.FilesFailed++
		} else {
			report.FilesScanned++
		}
		report.Add(findings...)
	}

	report.Finish()
	return report, nil
}

// CheckFile parses and evaluates a single file. Used by watch mode,
// where the target set is already known.
func (r *Runner) CheckFile(ctx context.Context, path string) ([]Finding, error) {
	parser, err := r.parserFor(path)
	if err != nil {
		return nil, err
	}
	file, err := parser.ParseFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return r.Evaluate(file), nil
}

// CheckSource parses source held in memory with the named front end
// and evaluates it. The name is used as the finding path.
func (r *Runner) CheckSource(ctx context.Context, language, name string, content []byte) ([]Finding, error) {
	parser, err := r.parsers.CreateParser(language, r.root)
	if err != nil {
		return nil, err
	}
	file, err := parser.ParseSource(ctx, name, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return r.Evaluate(file), nil
}

// Evaluate runs every enabled rule against a parsed file, applying
// severity overrides and inline suppressions.
func (r *Runner) Evaluate(file *ast.File) []Finding {
	var findings []Finding
	for _, rule := range r.rules.List() {
		if r.cfg.Rules.IsRuleDisabled(rule.ID()) {
			continue
		}
		for _, f := range rule.Check(file, &r.cfg.Rules) {
			if f.RuleID == "" {
				f.RuleID = rule.ID()
			}
			if f.Category == "" {
				f.Category = rule.Category()
			}
			if f.Severity == "" {
				f.Severity = rule.DefaultSeverity()
			}
			if override, ok := r.cfg.Rules.SeverityOverride(f.RuleID); ok {
				if s, err := ParseSeverity(override); err == nil {
					f.Severity = s
				}
			}
			if f.Path == "" {
				f.Path = r.displayPath(file.Path)
			}
			if r.suppressed(file, f) {
				continue
			}
			findings = append(findings, f)
		}
	}
	SortFindings(findings)
	return findings
}

// checkPath parses one file and evaluates it, converting a parse
// failure into a finding so the run keeps going.
func (r *Runner) checkPath(ctx context.Context, path string) ([]Finding, bool) {
	parser, err := r.parserFor(path)
	if err != nil {
		r.logger.Warn("No parser for file", "path", path, "error", err)
		return []Finding{r.parseFailure(path, err)}, true
	}
	file, err := parser.ParseFile(ctx, path)
	if err != nil {
		r.logger.Warn("Failed to parse file", "path", path, "error", err)
		return []Finding{r.parseFailure(path, err)}, true
	}
	return r.Evaluate(file), false
}

// parseFailure builds the engine finding that stands in for a file
// that could not be parsed.
func (r *Runner) parseFailure(path string, err error) Finding {
	return Finding{
		RuleID:   ParseErrorID,
		Category: CategoryEngine,
		Severity: SeverityError,
		Message:  fmt.Sprintf("cannot parse file: %v", err),
		Path:     r.displayPath(path),
		Line:     1,
	}
}

// suppressed reports whether an inline directive covers the finding.
func (r *Runner) suppressed(file *ast.File, f Finding) bool {
	for _, s := range file.Suppressions {
		if s.Matches(f.RuleID, f.Line) {
			return true
		}
	}
	return false
}

// displayPath makes finding paths root-relative where possible.
func (r *Runner) displayPath(path string) string {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(r.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// parserFor returns the cached front end for a file's extension.
func (r *Runner) parserFor(path string) (ast.FileParser, error) {
	ext := filepath.Ext(path)
	name, ok := r.parsers.GetParserName(ext)
	if !ok {
		return nil, fmt.Errorf("no parser registered for extension %q", ext)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if parser, ok := r.parserCache[name]; ok {
		return parser, nil
	}
	parser, err := r.parsers.CreateParser(name, r.root)
	if err != nil {
		return nil, err
	}
	r.parserCache[name] = parser
	return parser, nil
}
