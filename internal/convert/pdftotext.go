// Package convert turns downloaded report PDFs into the plain text the
// extraction engine consumes. Conversion shells out to the poppler
// pdftotext tool rather than linking a PDF parser.
package convert

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

const pdftotextBin = "pdftotext"

// Converter extracts text from PDFs. Only the leading pages are read;
// Scope 3 disclosures sit in the front sections of annual reports and
// full conversion of a 300-page filing is wasted work.
type Converter struct {
	exec     executor
	maxPages int
	minChars int
}

// NewConverter creates a converter reading at most maxPages pages and
// rejecting output shorter than minChars characters.
func NewConverter(maxPages, minChars int) *Converter {
	return &Converter{exec: &osExecutor{}, maxPages: maxPages, minChars: minChars}
}

// Available reports whether the pdftotext binary is on PATH.
func (c *Converter) Available() bool {
	_, err := c.exec.LookPath(pdftotextBin)
	return err == nil
}

// Convert extracts text from pdfPath and writes it to textPath. The
// extracted text is returned for immediate use.
func (c *Converter) Convert(ctx context.Context, pdfPath, textPath string) (string, error) {
	if _, err := c.exec.LookPath(pdftotextBin); err != nil {
		return "", fmt.Errorf("%s not found on PATH: %w", pdftotextBin, err)
	}

	args := []string{
		"-l", strconv.Itoa(c.maxPages),
		"-enc", "UTF-8",
		pdfPath,
		"-", // stdout
	}
	out, err := c.exec.Output(ctx, pdftotextBin, args...)
	if err != nil {
		return "", fmt.Errorf("pdftotext %s: %w", pdfPath, err)
	}

	text := strings.TrimSpace(string(out))
	if len(text) < c.minChars {
		return "", fmt.Errorf("pdftotext %s: output too short (%d chars)", pdfPath, len(text))
	}

	if err := os.WriteFile(textPath, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", textPath, err)
	}
	return text, nil
}
