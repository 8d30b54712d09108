package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	available bool
	output    []byte
	err       error
	lastArgs  []string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.available {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.lastArgs = append([]string{name}, args...)
	return m.output, m.err
}

func TestConverter_Available(t *testing.T) {
	c := NewConverter(50, 500)
	c.exec = &mockExecutor{available: true}
	if !c.Available() {
		t.Error("expected available")
	}
	c.exec = &mockExecutor{available: false}
	if c.Available() {
		t.Error("expected unavailable")
	}
}

func TestConverter_Convert(t *testing.T) {
	text := strings.Repeat("Our Scope 3 emissions totaled 1.2 million tonnes CO2e. ", 20)
	mock := &mockExecutor{available: true, output: []byte(text + "\n")}
	c := NewConverter(50, 500)
	c.exec = mock

	textPath := filepath.Join(t.TempDir(), "report.txt")
	got, err := c.Convert(context.Background(), "/data/pdfs/report.pdf", textPath)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if got != strings.TrimSpace(text) {
		t.Error("returned text does not match converter output")
	}

	onDisk, err := os.ReadFile(textPath)
	if err != nil {
		t.Fatalf("read text file: %v", err)
	}
	if string(onDisk) != got {
		t.Error("file content does not match returned text")
	}

	// Page cap and encoding are passed through to the tool.
	joined := strings.Join(mock.lastArgs, " ")
	if !strings.Contains(joined, "-l 50") || !strings.Contains(joined, "-enc UTF-8") {
		t.Errorf("unexpected pdftotext args: %v", mock.lastArgs)
	}
}

func TestConverter_RejectsShortOutput(t *testing.T) {
	c := NewConverter(50, 500)
	c.exec = &mockExecutor{available: true, output: []byte("cover page only")}

	textPath := filepath.Join(t.TempDir(), "report.txt")
	if _, err := c.Convert(context.Background(), "/data/pdfs/report.pdf", textPath); err == nil {
		t.Fatal("expected error for short output")
	}
	if _, err := os.Stat(textPath); !os.IsNotExist(err) {
		t.Error("short output must not be written to disk")
	}
}

func TestConverter_MissingBinary(t *testing.T) {
	c := NewConverter(50, 500)
	c.exec = &mockExecutor{available: false}

	if _, err := c.Convert(context.Background(), "in.pdf", "out.txt"); err == nil {
		t.Fatal("expected error when pdftotext is missing")
	}
}
