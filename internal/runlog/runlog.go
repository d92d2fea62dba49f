// Package runlog writes the file artifacts other tooling watches: a success
// marker checked by the scheduler and an alert file tailed by the email
// relay.
package runlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	successMarkerName = "pipeline_health_last_success.txt"
	alertFileName     = "pipeline_alerts.txt"
)

// Files manages run artifacts under a single directory.
type Files struct {
	dir string
}

// New creates a Files rooted at dir. The directory is created on first
// write, not here, so a misconfigured path fails the run that uses it.
func New(dir string) *Files {
	return &Files{dir: dir}
}

// WriteSuccessMarker overwrites the marker with the time of the last fully
// healthy run.
func (f *Files) WriteSuccessMarker(now time.Time) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create run log dir: %w", err)
	}

	path := filepath.Join(f.dir, successMarkerName)
	if err := os.WriteFile(path, []byte(now.Format(time.RFC3339)), 0o644); err != nil {
		return fmt.Errorf("failed to write success marker: %w", err)
	}

	return nil
}

// AppendAlert appends one timestamped alert block to the alert file. The
// trailing separator line keeps the file splittable by the relay script.
func (f *Files) AppendAlert(text string, now time.Time) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create run log dir: %w", err)
	}

	path := filepath.Join(f.dir, alertFileName)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open alert file: %w", err)
	}
	defer file.Close()

	block := fmt.Sprintf("\n%s\n%s\n%s\n", now.Format(time.RFC3339), text, strings.Repeat("=", 50))
	if _, err := file.WriteString(block); err != nil {
		return fmt.Errorf("failed to append alert: %w", err)
	}

	return nil
}
