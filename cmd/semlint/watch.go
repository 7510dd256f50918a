package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/c360studio/semlint/ast"
	"github.com/c360studio/semlint/config"
	"github.com/c360studio/semlint/lint"
	"github.com/c360studio/semlint/report"
	"github.com/spf13/cobra"
)

func watchCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Re-check files as they change",
		Long: `Watch performs a full check, then stays in the foreground and re-checks
each file as it is saved, printing new findings as text. Paths restrict
which changes are reported; the whole repository is checked otherwise.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			runner := lint.NewRunner(lint.RunnerConfig{Config: cfg, Version: Version})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runWatch(ctx, runner, cfg, args)
		},
	}
}

func runWatch(ctx context.Context, runner *lint.Runner, cfg *config.Config, targets []string) error {
	rep, err := runner.Run(ctx, targets)
	if err != nil {
		return fmt.Errorf("initial run: %w", err)
	}
	if err := report.Write(os.Stdout, rep, report.FormatText); err != nil {
		return err
	}

	filter, err := newTargetFilter(runner.Root(), targets)
	if err != nil {
		return err
	}

	watcher, err := ast.NewWatcher(ast.WatcherConfig{
		RepoRoot:      runner.Root(),
		DebounceDelay: cfg.Serve.Debounce,
		Logger:        slog.Default(),
	})
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer func() { _ = watcher.Stop() }()

	slog.Info("Watching for changes", "root", runner.Root())

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-watcher.Events():
			handleWatchEvent(runner, filter, ev)
		}
	}
}

func handleWatchEvent(runner *lint.Runner, filter *targetFilter, ev ast.WatchEvent) {
	if !filter.keep(ev.Path) {
		return
	}

	switch {
	case ev.Operation == ast.OpDelete:
		slog.Debug("File removed", "path", ev.Path)

	case ev.Error != nil:
		f := lint.Finding{
			RuleID:   lint.ParseErrorID,
			Category: lint.CategoryEngine,
			Severity: lint.SeverityError,
			Message:  fmt.Sprintf("cannot parse file: %v", ev.Error),
			Path:     ev.Path,
			Line:     1,
		}
		fmt.Println(f.String())

	default:
		findings := runner.Evaluate(ev.File)
		if len(findings) == 0 {
			slog.Info("Clean", "path", ev.Path)
			return
		}
		for _, f := range findings {
			fmt.Println(f.String())
		}
	}
}

// targetFilter restricts watch output to the paths named on the command
// line. Paths are kept root-relative in slash form, matching watcher
// event paths.
type targetFilter struct {
	prefixes []string
	patterns []string
}

func newTargetFilter(root string, targets []string) (*targetFilter, error) {
	filter := &targetFilter{}
	for _, target := range targets {
		if strings.ContainsAny(target, "*?[{") {
			filter.patterns = append(filter.patterns, filepath.ToSlash(target))
			continue
		}

		abs, err := filepath.Abs(target)
		if err != nil {
			return nil, fmt.Errorf("resolve target %s: %w", target, err)
		}
		rel, err := filepath.Rel(root, abs)
		if err != nil || strings.HasPrefix(rel, "..") {
			return nil, fmt.Errorf("target %s is outside the repository root", target)
		}
		filter.prefixes = append(filter.prefixes, filepath.ToSlash(rel))
	}
	return filter, nil
}

func (f *targetFilter) keep(relPath string) bool {
	if len(f.prefixes) == 0 && len(f.patterns) == 0 {
		return true
	}

	relPath = filepath.ToSlash(relPath)
	for _, prefix := range f.prefixes {
		if prefix == "." || relPath == prefix || strings.HasPrefix(relPath, prefix+"/") {
			return true
		}
	}
	for _, pattern := range f.patterns {
		if ok, err := doublestar.Match(pattern, relPath); err == nil && ok {
			return true
		}
	}
	return false
}
