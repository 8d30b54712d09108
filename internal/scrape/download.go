package scrape

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// Downloader writes report PDFs under a data directory, skipping files
// already present and discarding truncated downloads.
type Downloader struct {
	fetch    FetchFunc
	dir      string
	minBytes int64
}

// NewDownloader creates a downloader writing into dir. Downloads smaller
// than minBytes are treated as failures; error pages served as PDFs are
// typically a few hundred bytes.
func NewDownloader(fetch FetchFunc, dir string, minBytes int64) *Downloader {
	return &Downloader{fetch: fetch, dir: dir, minBytes: minBytes}
}

var unsafeFilenameChars = regexp.MustCompile(`[^\w\s-]`)

// SafeFileName reduces a company name to a filesystem-safe stem.
func SafeFileName(company string) string {
	safe := unsafeFilenameChars.ReplaceAllString(company, "")
	if len(safe) > 50 {
		safe = safe[:50]
	}
	return safe
}

// Download fetches one report PDF and returns its path. An existing file
// of plausible size short-circuits the network entirely, so re-runs only
// fetch what is missing.
func (d *Downloader) Download(ctx context.Context, rawURL, company string, year int) (string, error) {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating download dir: %w", err)
	}

	filename := fmt.Sprintf("%s_%d.pdf", SafeFileName(company), year)
	path := filepath.Join(d.dir, filename)

	if info, err := os.Stat(path); err == nil && info.Size() > d.minBytes {
		return path, nil
	}

	data, err := d.fetch(ctx, rawURL)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", rawURL, err)
	}
	if int64(len(data)) < d.minBytes {
		return "", fmt.Errorf("download %s: too small (%d bytes)", rawURL, len(data))
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
