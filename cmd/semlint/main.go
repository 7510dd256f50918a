// Package main provides the semlint binary entry point.
// Semlint checks Java and Go sources against a clean-code rule catalog
// and keeps the project style guide honest about its own examples.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	// Register language front ends via init()
	_ "github.com/c360studio/semlint/ast/golang"
	_ "github.com/c360studio/semlint/ast/java"

	// Register the rule catalog via init()
	_ "github.com/c360studio/semlint/lint/rules"

	"github.com/c360studio/semlint/config"
	"github.com/spf13/cobra"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "semlint"
)

// errCheckFailed marks a run that completed but found problems. The
// report has already been written; main maps this to exit code 1,
// keeping 2 for usage and engine errors.
var errCheckFailed = errors.New("check failed")

func main() {
	defer exitOnPanic()

	err := rootCmd().Execute()
	if err == nil {
		return
	}
	if errors.Is(err, errCheckFailed) {
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(2)
}

// exitOnPanic prints the panic and a stack trace before exiting with
// the engine-error code.
func exitOnPanic() {
	r := recover()
	if r == nil {
		return
	}
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	fmt.Fprintf(os.Stderr, "panic: %v\n\n%s\n", r, buf[:n])
	os.Exit(2)
}

// globalOptions holds the persistent flags every subcommand sees.
type globalOptions struct {
	configPath string
	logLevel   string
}

// loadConfig resolves the layered configuration, or just the named file
// when --config was given.
func (g *globalOptions) loadConfig() (*config.Config, error) {
	loader := config.NewLoader(slog.Default())
	if g.configPath != "" {
		return loader.LoadFile(g.configPath)
	}
	return loader.Load()
}

func rootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "semlint",
		Short: "Clean-code checker for Java and Go",
		Long: `Semlint checks source files against a catalog of clean-code rules:
naming conventions, boolean-literal comparisons, magic numbers, method
length, parameter counts, nesting depth, class size, commented-out
code, and exception handling.

It also maintains the project style guide: every rule section carries
paired bad/good snippets, and semlint verifies the bad snippet really
triggers the rule while the good one stays clean.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(opts.logLevel)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		checkCmd(opts),
		rulesCmd(opts),
		guideCmd(opts),
		watchCmd(opts),
		serveCmd(opts),
		historyCmd(opts),
		configCmd(),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s %s (build %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// setupLogging installs the default logger at the requested level.
// Logs go to stderr so report output on stdout stays clean.
func setupLogging(logLevel string) {
	level, ok := logLevels[strings.ToLower(logLevel)]
	if !ok {
		level = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
