package serve

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/c360studio/semlint/lint"
)

func sampleRunReport() *lint.Report {
	report := lint.NewReport("1.0.0", "/repo")
	report.Add(
		lint.Finding{
			RuleID:   "magic-number",
			Category: lint.CategoryLiterals,
			Severity: lint.SeverityWarning,
			Path:     "src/Main.java",
			Line:     10,
		},
		lint.Finding{
			RuleID:   "magic-number",
			Category: lint.CategoryLiterals,
			Severity: lint.SeverityWarning,
			Path:     "src/Main.java",
			Line:     12,
		},
	)
	report.FilesScanned = 3
	report.FilesFailed = 1
	report.Finish()
	return report
}

func TestServer_Healthz_BeforeFirstRun(t *testing.T) {
	srv := NewServer(":0", NewMetrics(), nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var status healthStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if status.Status != "ok" {
		t.Errorf("status = %q, want %q", status.Status, "ok")
	}
	if status.LastRun != nil {
		t.Errorf("last_run should be absent before the first run, got %+v", status.LastRun)
	}
}

func TestServer_Healthz_AfterRun(t *testing.T) {
	srv := NewServer(":0", NewMetrics(), nil)
	report := sampleRunReport()
	srv.SetLastReport(report)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var status healthStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if status.LastRun == nil {
		t.Fatal("last_run missing after SetLastReport")
	}
	if status.LastRun.ID != report.ID {
		t.Errorf("last_run.id = %q, want %q", status.LastRun.ID, report.ID)
	}
	if status.LastRun.FilesScanned != 3 {
		t.Errorf("files_scanned = %d, want 3", status.LastRun.FilesScanned)
	}
	if status.LastRun.FilesFailed != 1 {
		t.Errorf("files_failed = %d, want 1", status.LastRun.FilesFailed)
	}
	if status.LastRun.Findings != 2 {
		t.Errorf("findings = %d, want 2", status.LastRun.Findings)
	}
	if status.LastRun.BySeverity[lint.SeverityWarning] != 2 {
		t.Errorf("by_severity[warning] = %d, want 2", status.LastRun.BySeverity[lint.SeverityWarning])
	}
}

func TestServer_Metrics_Exposition(t *testing.T) {
	metrics := NewMetrics()
	metrics.ObserveRun(sampleRunReport())
	srv := NewServer(":0", metrics, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"semlint_files_checked_total 3",
		"semlint_parse_failures_total 1",
		`semlint_findings_total{rule="magic-number",severity="warning"} 2`,
		"semlint_open_findings 2",
		"semlint_run_duration_seconds_count 1",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}

func TestMetrics_ObserveFile(t *testing.T) {
	metrics := NewMetrics()

	metrics.ObserveFile([]lint.Finding{{RuleID: "short-name", Severity: lint.SeverityInfo}}, false)
	metrics.ObserveFile(nil, true)
	metrics.SetOpenFindings(1)

	srv := NewServer(":0", metrics, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		"semlint_files_checked_total 1",
		"semlint_parse_failures_total 1",
		`semlint_findings_total{rule="short-name",severity="info"} 1`,
		"semlint_open_findings 1",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
