// Package store persists scraped report metadata and labeled excerpts in
// a SQLite database, so scrape and dataset runs can resume and the
// dataset can be rebuilt without re-downloading anything.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/carbonlens/scope3scan/internal/model"
)

// Store manages the scope3scan SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path, creating the schema when
// it does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS reports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			company TEXT NOT NULL,
			exchange TEXT NOT NULL,
			year INTEGER NOT NULL,
			source_url TEXT,
			pdf_path TEXT,
			text_path TEXT,
			UNIQUE(company, year)
		)`,
		`CREATE TABLE IF NOT EXISTS excerpts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			company TEXT NOT NULL,
			exchange TEXT NOT NULL,
			year INTEGER NOT NULL,
			text_excerpt TEXT NOT NULL,
			label INTEGER NOT NULL CHECK (label IN (0, 1))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_excerpts_label ON excerpts(label)`,
		`CREATE INDEX IF NOT EXISTS idx_excerpts_company ON excerpts(company)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// UpsertReport records one scraped report. A company/year pair already
// present is updated in place, so re-scrapes refresh paths.
func (s *Store) UpsertReport(ctx context.Context, meta model.ReportMeta) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (company, exchange, year, source_url, pdf_path, text_path)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(company, year) DO UPDATE SET
			exchange=excluded.exchange, source_url=excluded.source_url,
			pdf_path=excluded.pdf_path, text_path=excluded.text_path`,
		meta.Company, meta.Exchange, meta.Year, meta.URL, meta.PDFPath, meta.TextPath,
	)
	if err != nil {
		return fmt.Errorf("upserting report %s %d: %w", meta.Company, meta.Year, err)
	}
	return nil
}

// ListReports returns all recorded reports ordered by company and year.
func (s *Store) ListReports(ctx context.Context) ([]model.ReportMeta, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT company, exchange, year, source_url, pdf_path, text_path
		 FROM reports ORDER BY company, year`)
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}
	defer rows.Close()

	var metas []model.ReportMeta
	for rows.Next() {
		var m model.ReportMeta
		if err := rows.Scan(&m.Company, &m.Exchange, &m.Year, &m.URL, &m.PDFPath, &m.TextPath); err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// ReplaceRows swaps the stored dataset for rows in one transaction.
func (s *Store) ReplaceRows(ctx context.Context, rows []model.DatasetRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM excerpts`); err != nil {
		return fmt.Errorf("clearing excerpts: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO excerpts (company, exchange, year, text_excerpt, label)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx,
			row.CompanyName, row.Exchange, row.Year, row.TextExcerpt, row.Label,
		); err != nil {
			return fmt.Errorf("inserting excerpt for %s: %w", row.CompanyName, err)
		}
	}
	return tx.Commit()
}

// ListRows returns the stored dataset in insertion order.
func (s *Store) ListRows(ctx context.Context) ([]model.DatasetRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT company, exchange, year, text_excerpt, label FROM excerpts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying excerpts: %w", err)
	}
	defer rows.Close()

	var out []model.DatasetRow
	for rows.Next() {
		var r model.DatasetRow
		if err := rows.Scan(&r.CompanyName, &r.Exchange, &r.Year, &r.TextExcerpt, &r.Label); err != nil {
			return nil, fmt.Errorf("scanning excerpt: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LabelCounts returns how many stored excerpts carry each label.
func (s *Store) LabelCounts(ctx context.Context) (map[int]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT label, COUNT(*) FROM excerpts GROUP BY label`)
	if err != nil {
		return nil, fmt.Errorf("counting labels: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var label, count int
		if err := rows.Scan(&label, &count); err != nil {
			return nil, fmt.Errorf("scanning label count: %w", err)
		}
		counts[label] = count
	}
	return counts, rows.Err()
}
