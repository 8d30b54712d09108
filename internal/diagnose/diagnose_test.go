package diagnose

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestScanText_FindsPatternFamilies(t *testing.T) {
	content := "In 2023 we reported our Scope 3 emissions of 1.2 million tonnes. " +
		"Scope 1, Scope 2 and Scope 3 are covered by our inventory."

	result := ScanText("acme_2023.txt", content)
	if !result.HasScope3 {
		t.Fatal("expected Scope 3 mentions")
	}

	found := make(map[string]bool)
	for _, p := range result.PatternsFound {
		found[p] = true
	}
	for _, want := range []string{"basic", "reporting", "emissions", "value", "all_three"} {
		if !found[want] {
			t.Errorf("missing pattern family %q in %v", want, result.PatternsFound)
		}
	}
	if len(result.SampleContexts) == 0 || len(result.SampleContexts) > 3 {
		t.Errorf("expected 1-3 sample contexts, got %d", len(result.SampleContexts))
	}
	for _, ctx := range result.SampleContexts {
		if len(ctx.Context) > 200 {
			t.Errorf("context exceeds 200 chars: %d", len(ctx.Context))
		}
	}
}

// Context boundaries must land on rune boundaries even when the match
// sits in the middle of multi-byte text.
func TestScanText_MultibyteContexts(t *testing.T) {
	padding := strings.Repeat("émissions de gaz à effet de serre ", 10)
	content := padding + "Scope 3 emissions totaled 1.2 million tonnes of CO₂e. " + padding

	result := ScanText("société_2023.txt", content)
	if !result.HasScope3 {
		t.Fatal("expected Scope 3 mentions")
	}
	if len(result.SampleContexts) == 0 {
		t.Fatal("expected sample contexts")
	}
	for _, ctx := range result.SampleContexts {
		if !utf8.ValidString(ctx.Context) {
			t.Errorf("context contains a split rune: %q", ctx.Context)
		}
		if n := utf8.RuneCountInString(ctx.Context); n > 200 {
			t.Errorf("context exceeds 200 runes: %d", n)
		}
	}
}

func TestScanText_RomanNumerals(t *testing.T) {
	result := ScanText("x.txt", "Our Scope III emissions remain under assessment.")
	if !result.HasScope3 {
		t.Fatal("expected roman numeral mention to count")
	}
	if result.PatternsFound[0] != "roman" {
		t.Errorf("expected roman family, got %v", result.PatternsFound)
	}
}

func TestScanText_NoMentions(t *testing.T) {
	result := ScanText("x.txt", "Revenue grew by 12% across all segments.")
	if result.HasScope3 || result.MentionCount != 0 {
		t.Errorf("unexpected mentions: %+v", result)
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"acme_2023.txt":   "We reported Scope 3 emissions of 1.2 million tonnes.",
		"globex_2023.txt": "Revenue grew by 12% across all segments.",
		"notes.md":        "Scope 3 mention in a non-text file is ignored.",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	summary, err := ScanDir(dir)
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	if summary.FilesScanned != 2 {
		t.Errorf("expected 2 scanned files, got %d", summary.FilesScanned)
	}
	if summary.FilesWithScope != 1 {
		t.Errorf("expected 1 file with mentions, got %d", summary.FilesWithScope)
	}
	if summary.Percentage() != 50 {
		t.Errorf("expected 50%%, got %v", summary.Percentage())
	}
}

func TestSummary_WriteCSV(t *testing.T) {
	summary := &Summary{
		FilesScanned:   2,
		FilesWithScope: 1,
		Results: []FileResult{
			{File: "acme_2023.txt", HasScope3: true, MentionCount: 3, PatternsFound: []string{"basic", "value"}},
			{File: "globex_2023.txt"},
		},
	}

	path := filepath.Join(t.TempDir(), "census.csv")
	if err := summary.WriteCSV(path); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 records, got %d lines", len(lines))
	}
	if lines[0] != "file,has_scope3,count,patterns" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "basic,value") && !strings.Contains(lines[1], `"basic,value"`) {
		t.Errorf("pattern list missing from record: %q", lines[1])
	}
	if !strings.Contains(lines[2], "none") {
		t.Errorf("files without mentions should record none: %q", lines[2])
	}
}
