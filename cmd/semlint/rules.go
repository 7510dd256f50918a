package main

import (
	"fmt"
	"strings"

	"github.com/c360studio/semlint/config"
	"github.com/c360studio/semlint/lint"
	"github.com/spf13/cobra"
)

func rulesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rules [id]",
		Short: "List the rule catalog or describe one rule",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			if len(args) == 1 {
				return describeRule(args[0], cfg)
			}

			listRules(cfg)
			return nil
		},
	}
}

func listRules(cfg *config.Config) {
	fmt.Printf("%-28s %-14s %-8s %s\n", "RULE", "CATEGORY", "SEVERITY", "DESCRIPTION")
	for _, rule := range lint.DefaultRegistry.List() {
		severity := effectiveSeverity(rule, cfg)
		state := ""
		if cfg.Rules.IsRuleDisabled(rule.ID()) {
			state = " (disabled)"
		}
		fmt.Printf("%-28s %-14s %-8s %s%s\n",
			rule.ID(), rule.Category(), severity, rule.Describe(), state)
	}
}

func describeRule(id string, cfg *config.Config) error {
	rule, ok := lint.DefaultRegistry.Get(id)
	if !ok {
		return fmt.Errorf("unknown rule %q (known: %s)",
			id, strings.Join(lint.DefaultRegistry.IDs(), ", "))
	}

	fmt.Printf("rule:     %s\n", rule.ID())
	fmt.Printf("category: %s\n", rule.Category())
	fmt.Printf("severity: %s\n", effectiveSeverity(rule, cfg))
	if cfg.Rules.IsRuleDisabled(rule.ID()) {
		fmt.Println("disabled: yes")
	}
	fmt.Printf("\n%s\n", rule.Describe())

	if settings := ruleSettings(rule.ID(), cfg); len(settings) > 0 {
		fmt.Println("\nsettings:")
		for _, s := range settings {
			fmt.Printf("  %s\n", s)
		}
	}
	return nil
}

func effectiveSeverity(rule lint.Rule, cfg *config.Config) lint.Severity {
	if name, ok := cfg.Rules.SeverityOverride(rule.ID()); ok {
		if severity, err := lint.ParseSeverity(name); err == nil {
			return severity
		}
	}
	return rule.DefaultSeverity()
}

// ruleSettings returns the configuration knobs that drive a rule, with
// their current values.
func ruleSettings(id string, cfg *config.Config) []string {
	r := cfg.Rules
	switch id {
	case "method-length":
		return []string{fmt.Sprintf("max_method_lines: %d", r.MaxMethodLines)}
	case "parameter-count":
		return []string{fmt.Sprintf("max_parameters: %d", r.MaxParameters)}
	case "nesting-depth":
		return []string{fmt.Sprintf("max_nesting: %d", r.MaxNesting)}
	case "magic-number":
		return []string{fmt.Sprintf("magic_number_allow: [%s]", strings.Join(r.MagicNumberAllow, ", "))}
	case "magic-string":
		return []string{fmt.Sprintf("duplicate_string_threshold: %d", r.DuplicateStringThreshold)}
	case "class-size":
		return []string{
			fmt.Sprintf("max_class_methods: %d", r.MaxClassMethods),
			fmt.Sprintf("max_class_fields: %d", r.MaxClassFields),
		}
	case "low-cohesion":
		return []string{fmt.Sprintf("min_cohesion: %.2f", r.MinCohesion)}
	case "short-name":
		return []string{fmt.Sprintf("short_name_allow: [%s]", strings.Join(r.ShortNameAllow, ", "))}
	default:
		return nil
	}
}
