// Package mapper reshapes worksheet rows into one locale map per language.
//
// Row layout (zero-based columns, defaults shown):
//
//	header row         column 3 "key", 4 "ko", 5 "en" (checked only when markers are configured)
//	SkipRows rows      banner rows, discarded unconditionally
//	data rows          column 3 = key, column 4 = ko text, column 5 = en text
//
// A cell equal to the sentinel leaves the key out of that language. An empty
// or missing cell is written as the sentinel.
package mapper

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/minios-linux/sheetsync/config"
	"github.com/minios-linux/sheetsync/gsheet"
	"github.com/minios-linux/sheetsync/localejson"
)

// ErrHeaderMismatch is returned when the header row does not carry the
// configured markers.
var ErrHeaderMismatch = errors.New("header row does not match expected layout")

// Result holds one locale map per configured language, in config order.
type Result struct {
	Languages []string
	Maps      map[string]*localejson.Map
	// SheetFound is false when the configured worksheet does not exist.
	SheetFound bool
	// Rows is the number of data rows read after the banner skip.
	Rows int
	// SkippedRows counts data rows dropped for having no key.
	SkippedRows int
}

// Map returns the locale map for lang, never nil for a configured language.
func (r *Result) Map(lang string) *localejson.Map {
	if m, ok := r.Maps[lang]; ok {
		return m
	}
	return localejson.New()
}

func newResult(cfg *config.Config) *Result {
	r := &Result{
		Languages: cfg.LanguageCodes(),
		Maps:      make(map[string]*localejson.Map, len(cfg.Languages)),
	}
	for _, lang := range r.Languages {
		r.Maps[lang] = localejson.New()
	}
	return r
}

// Map reads the configured worksheet of doc and builds the locale maps.
// A missing worksheet yields empty maps and no error.
func Map(ctx context.Context, doc *gsheet.Document, cfg *config.Config) (*Result, error) {
	result := newResult(cfg)

	ws, ok := doc.SheetByID(cfg.SheetID)
	if !ok {
		return result, nil
	}
	result.SheetFound = true

	rows, err := ws.Rows(ctx)
	if err != nil {
		return nil, err
	}

	if err := CheckHeader(rows.Header, cfg.HeaderMarkers); err != nil {
		return nil, fmt.Errorf("sheet %q: %w", ws.Title, err)
	}

	MapRows(result, rows.Data, cfg)
	return result, nil
}

// MapRows adds the data rows to result. The first cfg.SkipRows rows are
// discarded.
func MapRows(result *Result, data [][]string, cfg *config.Config) {
	if len(data) <= cfg.SkipRows {
		return
	}

	for _, row := range data[cfg.SkipRows:] {
		result.Rows++

		key := gsheet.Cell(row, cfg.KeyColumn)
		if key == "" {
			result.SkippedRows++
			continue
		}

		for _, lang := range cfg.Languages {
			translation := gsheet.Cell(row, lang.Column)
			if translation == cfg.Sentinel {
				continue
			}
			if translation == "" {
				translation = cfg.Sentinel
			}
			result.Maps[lang.Code].Set(key, translation)
		}
	}
}

// CheckHeader verifies that header holds every marker value at its column.
func CheckHeader(header []string, markers []config.HeaderMarker) error {
	var mismatches []string
	for _, m := range markers {
		got := strings.TrimSpace(gsheet.Cell(header, m.Column))
		if got != m.Value {
			mismatches = append(mismatches, fmt.Sprintf("column %d is %q, want %q", m.Column, got, m.Value))
		}
	}
	if len(mismatches) > 0 {
		return fmt.Errorf("%w: %s", ErrHeaderMismatch, strings.Join(mismatches, "; "))
	}
	return nil
}
