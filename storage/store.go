// Package storage keeps the latest lint report per project in NATS KV,
// so dashboards and other consumers read state without re-running the
// engine.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360studio/semlint/lint"
)

// DefaultBucket is the KV bucket holding the latest report per project.
const DefaultBucket = "semlint-reports"

// Store provides report storage operations backed by NATS KV.
type Store struct {
	reports jetstream.KeyValue
}

// NewStore creates a Store over the given JetStream context, creating
// the bucket if it doesn't exist. An empty bucket name uses
// DefaultBucket.
func NewStore(ctx context.Context, js jetstream.JetStream, bucket string) (*Store, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}
	kv, err := getOrCreateBucket(ctx, js, bucket)
	if err != nil {
		return nil, fmt.Errorf("create reports bucket: %w", err)
	}
	return &Store{reports: kv}, nil
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}
	// Bucket doesn't exist, create it
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: "Latest lint report per project",
		History:     5, // Keep last 5 revisions
	})
}

// PutLatest stores the report as the project's latest.
func (s *Store) PutLatest(ctx context.Context, project string, report *lint.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if _, err := s.reports.Put(ctx, ProjectKey(project), data); err != nil {
		return fmt.Errorf("store report: %w", err)
	}
	return nil
}

// GetLatest retrieves the project's latest report.
func (s *Store) GetLatest(ctx context.Context, project string) (*lint.Report, error) {
	entry, err := s.reports.Get(ctx, ProjectKey(project))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get report: %w", err)
	}

	var report lint.Report
	if err := json.Unmarshal(entry.Value(), &report); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &report, nil
}

// ListProjects returns the projects with a stored report.
func (s *Store) ListProjects(ctx context.Context) ([]string, error) {
	keys, err := s.reports.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("list report keys: %w", err)
	}
	return keys, nil
}

// ProjectKey turns a project name or repository root into a KV key:
// the base name, lower case, with anything outside [a-z0-9-] collapsed
// to hyphens.
func ProjectKey(project string) string {
	base := filepath.Base(strings.TrimRight(project, "/"))
	var sb strings.Builder
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteRune('-')
		}
	}
	key := sb.String()
	for strings.Contains(key, "--") {
		key = strings.ReplaceAll(key, "--", "-")
	}
	key = strings.Trim(key, "-")
	if key == "" {
		key = "project"
	}
	return key
}
