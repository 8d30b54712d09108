package model

import "strings"

// Document is one report's extracted text, split into lines. The engine
// only ever reads it.
type Document struct {
	ID    string   `json:"id"`    // Usually the source text path
	Lines []string `json:"lines"` // Newline-split raw text, order preserved
}

// NewDocument splits raw text into lines.
func NewDocument(id, rawText string) Document {
	return Document{
		ID:    id,
		Lines: strings.Split(rawText, "\n"),
	}
}

// ContextWindow is a candidate passage anchored on a line that mentions
// "scope", joined with its surrounding lines. Created transiently per
// anchor; never persisted.
type ContextWindow struct {
	AnchorIndex int    `json:"anchor_index"` // 0-based line index of the anchor
	Text        string `json:"text"`         // Space-joined lines [anchor-3, anchor+3], clipped
	Scope1      bool   `json:"scope_1"`
	Scope2      bool   `json:"scope_2"`
	Scope3      bool   `json:"scope_3"`
}

// Excerpt is the engine's unit of output: a bounded passage plus its
// binary label. Immutable once produced.
type Excerpt struct {
	Text   string `json:"text"`  // At most the configured excerpt cap
	Label  int    `json:"label"` // 1 = reports Scope 3 now, 0 = not
	Scope1 bool   `json:"scope_1"`
	Scope2 bool   `json:"scope_2"`
	Scope3 bool   `json:"scope_3"`
}

// DatasetRow joins an Excerpt with the document-level metadata supplied
// by the caller. One row per surviving excerpt.
type DatasetRow struct {
	CompanyName string `json:"company_name"`
	Exchange    string `json:"exchange"`
	Year        int    `json:"year"`
	TextExcerpt string `json:"text_excerpt"`
	Label       int    `json:"label"`
}

// ReportMeta describes one acquired annual report: where it came from and
// where its downloaded artifacts live. Produced by the scraper, consumed
// by the dataset builder.
type ReportMeta struct {
	Company  string `json:"company"`
	Exchange string `json:"exchange"`
	Year     int    `json:"year"`
	URL      string `json:"url,omitempty"`
	PDFPath  string `json:"pdf_path,omitempty"`
	TextPath string `json:"text_path"`
}

// Valid reports whether the metadata row carries the fields the dataset
// builder requires. Malformed rows are skipped, not fatal.
func (m ReportMeta) Valid() bool {
	return m.Company != "" && m.Exchange != "" && m.Year > 0 && m.TextPath != ""
}
