package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/c360studio/semlint/config"
	"github.com/c360studio/semlint/guide"
	"github.com/c360studio/semlint/lint"
	"github.com/spf13/cobra"
)

func guideCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "guide",
		Short: "Verify, fetch, or show the project style guide",
	}

	cmd.AddCommand(
		guideVerifyCmd(opts),
		guideFetchCmd(opts),
		guideShowCmd(opts),
	)

	return cmd
}

func guideVerifyCmd(opts *globalOptions) *cobra.Command {
	var checkSnippets bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the style guide's structure and snippets",
		Long: `Verify checks that every bad snippet in the guide has a paired good
snippet in the same section. With --check-snippets it also runs the
engine over each snippet: a bad snippet must trigger its section's
mapped rule, a good snippet must not.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			g, err := guide.Load(guidePath(cfg))
			if err != nil {
				return fmt.Errorf("load guide: %w", err)
			}

			problems := g.Verify()
			if checkSnippets {
				runner := lint.NewRunner(lint.RunnerConfig{Config: cfg, Version: Version})
				problems = append(problems, g.CheckSnippets(cmd.Context(), runner.CheckSource)...)
			}

			for _, p := range problems {
				fmt.Println(p.String())
			}
			if len(problems) > 0 {
				return errCheckFailed
			}

			snippets := 0
			for _, section := range g.Sections {
				snippets += len(section.Snippets)
			}
			fmt.Printf("guide OK: %d sections, %d snippets\n", len(g.Sections), snippets)
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkSnippets, "check-snippets", false, "Run the engine over every snippet")

	return cmd
}

func guideFetchCmd(opts *globalOptions) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Fetch a style guide from a URL",
		Long: `Fetch downloads a guide document over HTTPS, converts HTML to markdown
when needed, and writes it to the configured guide path. The fetched
document must parse as a guide before anything is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			fetcher := guide.NewFetcher(cfg.Guide.FetchTimeout, cfg.Guide.UserAgent, cfg.Guide.MaxFetchSize)
			result, err := fetcher.Fetch(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetch guide: %w", err)
			}

			content := result.Body
			if guide.NeedsConversion(result.ContentType) {
				converted, err := guide.NewConverter().Convert(result.Body, args[0])
				if err != nil {
					return fmt.Errorf("convert guide: %w", err)
				}
				content = []byte(converted.Markdown)
			}

			path := outputPath
			if path == "" {
				path = guidePath(cfg)
			}

			parsed, err := guide.Parse(path, content)
			if err != nil {
				return fmt.Errorf("fetched document is not a guide: %w", err)
			}

			if err := os.WriteFile(path, content, 0o644); err != nil {
				return fmt.Errorf("write guide: %w", err)
			}

			fmt.Printf("wrote %s: %q, %d sections\n", path, parsed.Title, len(parsed.Sections))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the guide to this path instead")

	return cmd
}

func guideShowCmd(opts *globalOptions) *cobra.Command {
	var showDiff bool

	cmd := &cobra.Command{
		Use:   "show <section>",
		Short: "Print one guide section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			g, err := guide.Load(guidePath(cfg))
			if err != nil {
				return fmt.Errorf("load guide: %w", err)
			}

			section, ok := g.Section(args[0])
			if !ok {
				return fmt.Errorf("no section %q (available: %s)",
					args[0], strings.Join(sectionSlugs(g), ", "))
			}

			if showDiff {
				return showSectionDiff(section)
			}

			if ruleID, ok := g.RuleFor(section.Slug); ok {
				fmt.Printf("rule: %s\n\n", ruleID)
			}
			fmt.Println(strings.TrimRight(section.Body, "\n"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showDiff, "diff", false, "Render bad snippets against their good pair as a diff")

	return cmd
}

// showSectionDiff prints a line diff from each bad snippet to its
// positional good pair.
func showSectionDiff(section *guide.Section) error {
	bads := section.ByLabel(guide.LabelBad)
	goods := section.ByLabel(guide.LabelGood)
	if len(bads) == 0 || len(goods) == 0 {
		return fmt.Errorf("section %q has no bad/good pair to diff", section.Slug)
	}

	pairs := len(bads)
	if len(goods) < pairs {
		pairs = len(goods)
	}
	for i := 0; i < pairs; i++ {
		if i > 0 {
			fmt.Println()
		}
		fmt.Print(guide.DiffSnippets(bads[i].Code, goods[i].Code))
	}
	return nil
}

func sectionSlugs(g *guide.Guide) []string {
	slugs := make([]string, 0, len(g.Sections))
	for _, section := range g.Sections {
		slugs = append(slugs, section.Slug)
	}
	return slugs
}

// guidePath resolves the configured guide path against the repo root.
func guidePath(cfg *config.Config) string {
	if filepath.IsAbs(cfg.Guide.Path) {
		return cfg.Guide.Path
	}
	return filepath.Join(cfg.Lint.Root, cfg.Guide.Path)
}
