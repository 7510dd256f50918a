package lint

import (
	"time"

	"github.com/google/uuid"
)

// Report is the result of one engine run.
type Report struct {
	// ID uniquely identifies the run.
	ID string `json:"id"`

	// Version is the tool version that produced the report.
	Version string `json:"version"`

	// Root is the repository root the run was resolved against.
	Root string `json:"root"`

	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`

	FilesScanned int `json:"files_scanned"`
	FilesFailed  int `json:"files_failed"`

	// Findings in deterministic order: path, line, column, rule ID.
	Findings []Finding `json:"findings"`

	BySeverity map[Severity]int `json:"by_severity"`
	ByRule     map[string]int   `json:"by_rule"`
}

// NewReport creates an empty report stamped with a fresh run ID.
func NewReport(version, root string) *Report {
	return &Report{
		ID:         uuid.New().String(),
		Version:    version,
		Root:       root,
		StartedAt:  time.Now().UTC(),
		Findings:   make([]Finding, 0),
		BySeverity: make(map[Severity]int),
		ByRule:     make(map[string]int),
	}
}

// Add appends findings and updates the counters.
func (r *Report) Add(findings ...Finding) {
	for _, f := range findings {
		r.Findings = append(r.Findings, f)
		r.BySeverity[f.Severity]++
		r.ByRule[f.RuleID]++
	}
}

// Finish sorts the findings and stamps the duration.
func (r *Report) Finish() {
	SortFindings(r.Findings)
	r.DurationMS = time.Since(r.StartedAt).Milliseconds()
}

// Total returns the total finding count.
func (r *Report) Total() int {
	return len(r.Findings)
}

// CountAtOrAbove returns the number of findings at or above a severity.
func (r *Report) CountAtOrAbove(threshold Severity) int {
	count := 0
	for _, f := range r.Findings {
		if f.Severity.AtLeast(threshold) {
			count++
		}
	}
	return count
}

// Failed reports whether the run fails against the configured
// threshold.
func (r *Report) Failed(failOn Severity) bool {
	return r.CountAtOrAbove(failOn) > 0
}
