package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/c360studio/semlint/history"
	"github.com/spf13/cobra"
)

func historyCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded runs",
		Long: `History reads the run database written by "semlint check --record":
run summaries, and per-rule trends between two runs.`,
	}

	cmd.AddCommand(
		historyListCmd(opts),
		historyTrendCmd(opts),
	)

	return cmd
}

func historyListCmd(opts *globalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			store, err := history.Open(historyPath(cfg), slog.Default())
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("No recorded runs. Run \"semlint check --record\" first.")
				return nil
			}

			fmt.Printf("%-36s %-20s %8s %6s %8s %9s %6s\n",
				"RUN", "STARTED", "DURATION", "FILES", "ERRORS", "WARNINGS", "INFOS")
			for _, run := range runs {
				fmt.Printf("%-36s %-20s %7dms %6d %8d %9d %6d\n",
					run.ID,
					run.StartedAt.Local().Format(time.DateTime),
					run.DurationMS,
					run.FilesScanned,
					run.Errors,
					run.Warnings,
					run.Infos)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of runs to list (0 = all)")

	return cmd
}

func historyTrendCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "trend [from-run] [to-run]",
		Short: "Compare per-rule finding counts between two runs",
		Long: `Trend compares per-rule finding counts between two recorded runs.
Without arguments it compares the two most recent runs.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			store, err := history.Open(historyPath(cfg), slog.Default())
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			var fromID, toID string
			if len(args) > 0 {
				fromID = args[0]
			}
			if len(args) > 1 {
				toID = args[1]
			}

			trend, err := store.ComputeTrend(cmd.Context(), fromID, toID)
			if err != nil {
				return err
			}

			printTrend(trend)
			return nil
		},
	}
}

func printTrend(trend *history.Trend) {
	fmt.Printf("from %s (%s, %d findings)\n",
		trend.From.ID, trend.From.StartedAt.Local().Format(time.DateTime), trend.From.Total())
	fmt.Printf("to   %s (%s, %d findings)\n\n",
		trend.To.ID, trend.To.StartedAt.Local().Format(time.DateTime), trend.To.Total())

	if len(trend.Rules) == 0 {
		fmt.Println("No rule findings in either run.")
		return
	}

	fmt.Printf("%-28s %6s %6s %7s\n", "RULE", "FROM", "TO", "CHANGE")
	for _, rule := range trend.Rules {
		change := "="
		if d := rule.Delta(); d != 0 {
			change = fmt.Sprintf("%+d", d)
		}
		fmt.Printf("%-28s %6d %6d %7s\n", rule.RuleID, rule.From, rule.To, change)
	}

	fmt.Printf("\n%d new, %d fixed\n", trend.New(), trend.Fixed())
}
