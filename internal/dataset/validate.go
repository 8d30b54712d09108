package dataset

import (
	"fmt"
	"sort"

	"github.com/carbonlens/scope3scan/internal/model"
)

// Validation is the result of checking a built dataset against the output
// contract: exact columns, no missing values, excerpt lengths in [1, 500],
// binary labels, and a usable label balance.
type Validation struct {
	Rows      int
	Label0    int
	Label1    int
	Companies int
	Exchanges []string
	Years     []int
	MinLen    int
	MaxLen    int
	Errors    []string
	Warnings  []string
}

// OK reports whether the dataset passed every hard check.
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// Validate checks dataset rows. Errors are contract violations; warnings
// flag datasets that are valid but unlikely to train well.
func Validate(rows []model.DatasetRow, maxExcerptChars int) Validation {
	v := Validation{Rows: len(rows)}

	if len(rows) == 0 {
		v.Errors = append(v.Errors, "dataset is empty")
		return v
	}

	companies := make(map[string]bool)
	exchanges := make(map[string]bool)
	years := make(map[int]bool)
	v.MinLen = -1

	for i, row := range rows {
		if row.CompanyName == "" || row.Exchange == "" {
			v.Errors = append(v.Errors, fmt.Sprintf("row %d: missing company or exchange", i+1))
		}
		if row.Year <= 0 {
			v.Errors = append(v.Errors, fmt.Sprintf("row %d: missing year", i+1))
		}

		n := len([]rune(row.TextExcerpt))
		if n == 0 {
			v.Errors = append(v.Errors, fmt.Sprintf("row %d: empty text excerpt", i+1))
		}
		if n > maxExcerptChars {
			v.Errors = append(v.Errors, fmt.Sprintf("row %d: excerpt is %d chars, max %d", i+1, n, maxExcerptChars))
		}
		if v.MinLen == -1 || n < v.MinLen {
			v.MinLen = n
		}
		if n > v.MaxLen {
			v.MaxLen = n
		}

		switch row.Label {
		case 0:
			v.Label0++
		case 1:
			v.Label1++
		default:
			v.Errors = append(v.Errors, fmt.Sprintf("row %d: label %d is not binary", i+1, row.Label))
		}

		companies[row.CompanyName] = true
		exchanges[row.Exchange] = true
		years[row.Year] = true
	}

	v.Companies = len(companies)
	for ex := range exchanges {
		v.Exchanges = append(v.Exchanges, ex)
	}
	sort.Strings(v.Exchanges)
	for y := range years {
		v.Years = append(v.Years, y)
	}
	sort.Ints(v.Years)

	if v.Label1 == 0 {
		v.Errors = append(v.Errors, "no label 1 examples found: training cannot proceed with a single-class dataset")
	}
	if v.Companies < 10 {
		v.Warnings = append(v.Warnings, fmt.Sprintf("only %d unique companies; aim for at least 10 for diversity", v.Companies))
	}

	return v
}
