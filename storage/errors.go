package storage

import "errors"

// ErrNotFound is returned when no report is stored for a project.
var ErrNotFound = errors.New("report not found")
