// Package lint implements the rule evaluation engine: rules inspect the
// normalised source model and report findings, the runner resolves
// targets, applies the configured rule set, and assembles reports.
package lint

import "fmt"

// Severity grades a finding.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Rank orders severities for threshold comparisons.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether s is at or above the given threshold.
func (s Severity) AtLeast(threshold Severity) bool {
	return s.Rank() >= threshold.Rank()
}

// ParseSeverity converts a severity name to a Severity.
func ParseSeverity(name string) (Severity, error) {
	switch Severity(name) {
	case SeverityInfo, SeverityWarning, SeverityError:
		return Severity(name), nil
	}
	return "", fmt.Errorf("unknown severity: %s", name)
}

// Category groups rules by the concern they check.
type Category string

const (
	CategoryNaming       Category = "naming"
	CategoryConditionals Category = "conditionals"
	CategoryMethods      Category = "methods"
	CategoryLiterals     Category = "literals"
	CategoryClasses      Category = "classes"
	CategoryComments     Category = "comments"
	CategoryErrors       Category = "errors"

	// CategoryEngine is reserved for findings the engine itself emits,
	// such as parse failures.
	CategoryEngine Category = "engine"
)
