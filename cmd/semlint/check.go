package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/c360studio/semlint/config"
	"github.com/c360studio/semlint/history"
	"github.com/c360studio/semlint/lint"
	"github.com/c360studio/semlint/report"
	"github.com/spf13/cobra"
)

func checkCmd(opts *globalOptions) *cobra.Command {
	var (
		format     string
		outputPath string
		failOn     string
		ruleIDs    []string
		record     bool
	)

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check source files against the rule catalog",
		Long: `Check runs every enabled rule over the given paths (files, directories,
or doublestar globs). With no paths it checks the whole repository root.

The exit code is 0 when no finding reaches the fail-on severity, 1 when
at least one does, and 2 on usage or engine errors.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := applyCheckFlags(cfg, format, outputPath, failOn); err != nil {
				return err
			}

			registry, err := subsetRegistry(ruleIDs)
			if err != nil {
				return err
			}

			runner := lint.NewRunner(lint.RunnerConfig{
				Config:  cfg,
				Rules:   registry,
				Version: Version,
			})

			rep, err := runner.Run(cmd.Context(), args)
			if err != nil {
				return fmt.Errorf("run check: %w", err)
			}

			if err := writeReport(rep, cfg); err != nil {
				return err
			}

			if record {
				if err := recordRun(cmd.Context(), cfg, rep); err != nil {
					return err
				}
			}

			failSeverity, err := lint.ParseSeverity(cfg.Lint.FailOn)
			if err != nil {
				return err
			}
			if rep.Failed(failSeverity) {
				return errCheckFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Report format (text, json, checkstyle, markdown)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().StringVar(&failOn, "fail-on", "", "Severity at or above which findings fail the run (info, warning, error)")
	cmd.Flags().StringSliceVar(&ruleIDs, "rules", nil, "Check only the named rules (comma-separated IDs)")
	cmd.Flags().BoolVar(&record, "record", false, "Record the run in the history database")

	return cmd
}

// applyCheckFlags layers flag values over the loaded configuration.
func applyCheckFlags(cfg *config.Config, format, outputPath, failOn string) error {
	if format != "" {
		parsed, err := report.ParseFormat(format)
		if err != nil {
			return err
		}
		cfg.Output.Format = string(parsed)
	}
	if outputPath != "" {
		cfg.Output.Path = outputPath
	}
	if failOn != "" {
		if _, err := lint.ParseSeverity(failOn); err != nil {
			return err
		}
		cfg.Lint.FailOn = failOn
	}
	return nil
}

// subsetRegistry returns the default registry, or one restricted to the
// named rules when any were given.
func subsetRegistry(ruleIDs []string) (*lint.Registry, error) {
	if len(ruleIDs) == 0 {
		return lint.DefaultRegistry, nil
	}

	subset := lint.NewRegistry()
	for _, id := range ruleIDs {
		id = strings.TrimSpace(id)
		rule, ok := lint.DefaultRegistry.Get(id)
		if !ok {
			return nil, fmt.Errorf("unknown rule %q (known: %s)",
				id, strings.Join(lint.DefaultRegistry.IDs(), ", "))
		}
		subset.Register(rule)
	}
	return subset, nil
}

// writeReport renders the report to stdout or the configured path.
func writeReport(rep *lint.Report, cfg *config.Config) error {
	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if cfg.Output.Path != "" {
		f, err := os.Create(cfg.Output.Path)
		if err != nil {
			return fmt.Errorf("create report file: %w", err)
		}
		defer f.Close()
		w = f
	}

	return report.Write(w, rep, format)
}

// recordRun stores the run in the history database and applies the
// retention policy.
func recordRun(ctx context.Context, cfg *config.Config, rep *lint.Report) error {
	store, err := history.Open(historyPath(cfg), slog.Default())
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	if err := store.RecordRun(ctx, rep); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	if _, err := store.Prune(ctx, cfg.History.Keep); err != nil {
		return fmt.Errorf("prune history: %w", err)
	}
	return nil
}

// historyPath resolves the history database path against the repo root.
func historyPath(cfg *config.Config) string {
	if filepath.IsAbs(cfg.History.Path) {
		return cfg.History.Path
	}
	return filepath.Join(cfg.Lint.Root, cfg.History.Path)
}
