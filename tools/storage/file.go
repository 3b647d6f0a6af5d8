package storage

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"gitlab.com/mediafxuz/media-fx/pkg/logger"
)

// TempFiles manages the working directory for job artifacts. Names are
// uuids so concurrent jobs never collide; whoever creates a file is
// responsible for removing it, with the sweep as a backstop for files
// orphaned by crashes.
type TempFiles struct {
	dir         string
	maxAge      time.Duration
	sweepChance float64
	log         logger.Logger
	client      *http.Client
}

// NewTempFiles creates the temp directory if needed
func NewTempFiles(log logger.Logger, dir string, maxAgeHours int, sweepChance float64) (*TempFiles, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create temp dir %s: %w", dir, err)
	}

	return &TempFiles{
		dir:         dir,
		maxAge:      time.Duration(maxAgeHours) * time.Hour,
		sweepChance: sweepChance,
		log:         log,
		client:      &http.Client{Timeout: 10 * time.Minute},
	}, nil
}

// NewTemp returns a fresh path in the temp dir with the given
// extension. The file itself is not created.
func (t *TempFiles) NewTemp(ext string) string {
	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}
	return filepath.Join(t.dir, uuid.NewString()+ext)
}

// Remove deletes an artifact. Removal failures are logged and
// swallowed so they never mask the error that actually failed a job.
func (t *TempFiles) Remove(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			t.log.Warn("could not remove temp file", logger.String("path", p), logger.Error(err))
		}
	}
}

// MaybeSweep runs the orphan sweep on a fraction of calls. Invoked once
// per job intake.
func (t *TempFiles) MaybeSweep() {
	if rand.Float64() < t.sweepChance {
		t.Sweep()
	}
}

// Sweep removes temp files older than the configured age
func (t *TempFiles) Sweep() int {
	entries, err := os.ReadDir(t.dir)
	if err != nil {
		t.log.Warn("temp sweep failed", logger.Error(err))
		return 0
	}

	cutoff := time.Now().Add(-t.maxAge)
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(t.dir, e.Name())); err == nil {
			removed++
		}
	}

	if removed > 0 {
		t.log.Info("swept stale temp files", logger.Int("removed", removed))
	}
	return removed
}

// Download fetches a URL into a new temp file and returns its path. The
// partial file is removed on any failure.
func (t *TempFiles) Download(ctx context.Context, url, ext string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	path := t.NewTemp(ext)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		t.Remove(path)
		return "", fmt.Errorf("download %s: %w", url, err)
	}
	if err := out.Close(); err != nil {
		t.Remove(path)
		return "", fmt.Errorf("download %s: %w", url, err)
	}

	return path, nil
}
