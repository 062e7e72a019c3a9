// Package gsheet reads worksheet rows from a spreadsheet document.
//
// The first row of a worksheet is its header row; every following row is a
// data row. Cells are raw strings indexed by column, and trailing empty
// cells may be missing from a row.
package gsheet

import (
	"context"
	"fmt"
)

// Client opens spreadsheet documents.
type Client interface {
	// Open loads document metadata and its worksheet handles.
	Open(ctx context.Context, documentID string) (*Document, error)
}

// Document is a loaded spreadsheet with its worksheets.
type Document struct {
	ID     string
	Title  string
	sheets []*Worksheet
}

// NewDocument returns a document holding the given worksheets.
func NewDocument(id, title string, sheets ...*Worksheet) *Document {
	return &Document{ID: id, Title: title, sheets: sheets}
}

// Sheets returns the worksheets in document order.
func (d *Document) Sheets() []*Worksheet {
	return d.sheets
}

// SheetByID returns the worksheet with the given gid.
func (d *Document) SheetByID(id int64) (*Worksheet, bool) {
	for _, s := range d.sheets {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// LoadFunc fetches all values of a worksheet, header row included.
type LoadFunc func(ctx context.Context) ([][]string, error)

// Worksheet is a handle to one tab of a document. Rows are fetched lazily.
type Worksheet struct {
	ID    int64
	Title string
	load  LoadFunc
}

// NewWorksheet returns a worksheet whose rows come from load.
func NewWorksheet(id int64, title string, load LoadFunc) *Worksheet {
	return &Worksheet{ID: id, Title: title, load: load}
}

// StaticWorksheet returns a worksheet over fixed values.
func StaticWorksheet(id int64, title string, values [][]string) *Worksheet {
	return NewWorksheet(id, title, func(context.Context) ([][]string, error) {
		return values, nil
	})
}

// Rows holds the header row and data rows of a worksheet.
type Rows struct {
	Header []string
	Data   [][]string
}

// Rows fetches all rows of the worksheet.
func (w *Worksheet) Rows(ctx context.Context) (*Rows, error) {
	if w.load == nil {
		return &Rows{}, nil
	}
	values, err := w.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading rows of sheet %q: %w", w.Title, err)
	}
	if len(values) == 0 {
		return &Rows{}, nil
	}
	return &Rows{Header: values[0], Data: values[1:]}, nil
}

// Cell returns row[i], or "" when the row is too short.
func Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
