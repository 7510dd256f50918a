package guide

import (
	"context"
	"testing"
	"time"
)

// TestFetcher_RejectsUnsafeURLs covers the validation the fetcher runs
// before any request goes out. The full rule set is tested in
// weburl/weburl_test.go; this ensures Fetch wires it in.
func TestFetcher_RejectsUnsafeURLs(t *testing.T) {
	fetcher := NewFetcher(5*time.Second, "semlint/1.0", 1<<20)

	tests := []struct {
		name string
		url  string
	}{
		{
			name: "http scheme",
			url:  "http://example.com/guide.md",
		},
		{
			name: "localhost",
			url:  "https://localhost:9167/guide.md",
		},
		{
			name: "private IP",
			url:  "https://10.0.0.8/guide.md",
		},
		{
			name: "local domain",
			url:  "https://wiki.internal/guide.md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := fetcher.Fetch(context.Background(), tt.url); err == nil {
				t.Errorf("Fetch(%q) should refuse before any request is made", tt.url)
			}
		})
	}
}
