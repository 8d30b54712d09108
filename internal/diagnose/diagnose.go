// Package diagnose scans converted report texts for Scope 3 mentions.
// When a dataset run produces no positive labels, the census here shows
// whether the source texts lack Scope 3 disclosures or the labeling
// rules are rejecting them.
package diagnose

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Pattern families, loosest to tightest. "basic" catches any literal
// mention; "value" and "reporting" suggest actual disclosure.
var scope3Patterns = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"basic", regexp.MustCompile(`(?i)\bscope\s*3\b`)},
	{"roman", regexp.MustCompile(`(?i)\bscope\s*iii\b`)},
	{"numeric", regexp.MustCompile(`(?i)\bscope\s*three\b`)},
	{"reporting", regexp.MustCompile(`(?i)report.*scope\s*3`)},
	{"emissions", regexp.MustCompile(`(?i)scope\s*3.*emissions?`)},
	{"value", regexp.MustCompile(`(?i)scope\s*3.*\d+`)},
	{"all_three", regexp.MustCompile(`(?i)(?:scope\s*1|scope\s*2|scope\s*3).*(?:scope\s*1|scope\s*2|scope\s*3).*(?:scope\s*1|scope\s*2|scope\s*3)`)},
}

// SampleContext is a snippet around a pattern's first match.
type SampleContext struct {
	Pattern string
	Context string
}

// FileResult is the census for one text file.
type FileResult struct {
	File           string
	HasScope3      bool
	MentionCount   int
	PatternsFound  []string
	SampleContexts []SampleContext
}

// Summary aggregates a directory scan.
type Summary struct {
	FilesScanned   int
	FilesWithScope int
	Results        []FileResult
}

// Percentage returns the share of scanned files mentioning Scope 3.
func (s Summary) Percentage() float64 {
	if s.FilesScanned == 0 {
		return 0
	}
	return float64(s.FilesWithScope) / float64(s.FilesScanned) * 100
}

// ScanText runs every pattern family over one document's text.
func ScanText(name, content string) FileResult {
	result := FileResult{File: name}

	for _, family := range scope3Patterns {
		locs := family.pattern.FindAllStringIndex(content, -1)
		if len(locs) == 0 {
			continue
		}
		result.HasScope3 = true
		result.MentionCount += len(locs)
		result.PatternsFound = append(result.PatternsFound, family.name)

		if len(result.SampleContexts) < 3 {
			result.SampleContexts = append(result.SampleContexts, SampleContext{
				Pattern: family.name,
				Context: contextAround(content, locs[0][0], locs[0][1]),
			})
		}
	}
	return result
}

const (
	contextRadius   = 100 // Runes kept either side of a match
	maxContextRunes = 200
)

// contextAround returns the text surrounding the byte span [matchStart,
// matchEnd). Boundaries move by whole runes so a snippet never splits a
// multi-byte character.
func contextAround(content string, matchStart, matchEnd int) string {
	start := matchStart
	for i := 0; i < contextRadius && start > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(content[:start])
		start -= size
	}
	end := matchEnd
	for i := 0; i < contextRadius && end < len(content); i++ {
		_, size := utf8.DecodeRuneInString(content[end:])
		end += size
	}

	snippet := strings.ReplaceAll(content[start:end], "\n", " ")
	if runes := []rune(snippet); len(runes) > maxContextRunes {
		snippet = string(runes[:maxContextRunes])
	}
	return snippet
}

// ScanDir censuses every .txt file under dir, sorted by filename.
func ScanDir(dir string) (*Summary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".txt") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	summary := &Summary{}
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		result := ScanText(name, string(content))
		summary.FilesScanned++
		if result.HasScope3 {
			summary.FilesWithScope++
		}
		summary.Results = append(summary.Results, result)
	}
	return summary, nil
}

// WriteCSV writes the per-file census to path.
func (s *Summary) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"file", "has_scope3", "count", "patterns"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range s.Results {
		patterns := "none"
		if len(r.PatternsFound) > 0 {
			patterns = strings.Join(r.PatternsFound, ",")
		}
		record := []string{
			r.File,
			strconv.FormatBool(r.HasScope3),
			strconv.Itoa(r.MentionCount),
			patterns,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
