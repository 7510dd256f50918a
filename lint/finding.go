package lint

import (
	"fmt"
	"sort"
)

// ParseErrorID is the rule ID attached to parse failures. A file that
// cannot be parsed yields exactly one finding under this ID and is
// excluded from rule evaluation.
const ParseErrorID = "parse-error"

// Finding is one rule violation at a source position.
type Finding struct {
	RuleID   string   `json:"rule_id"`
	Category Category `json:"category"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Path     string   `json:"path"`
	Line     int      `json:"line"`
	Column   int      `json:"column,omitempty"`
	Symbol   string   `json:"symbol,omitempty"`
}

// String renders the finding in the conventional path:line:col form.
func (f Finding) String() string {
	if f.Column > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %s [%s]", f.Path, f.Line, f.Column, f.Severity, f.Message, f.RuleID)
	}
	return fmt.Sprintf("%s:%d: %s: %s [%s]", f.Path, f.Line, f.Severity, f.Message, f.RuleID)
}

// SortFindings orders findings deterministically: by path, line, column,
// then rule ID. Every output format renders this order.
func SortFindings(findings []Finding) {
	sort.Slice(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.RuleID < b.RuleID
	})
}
