package gsheet

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// documentFields limits Spreadsheets.Get to the metadata Open needs.
const documentFields = "spreadsheetId,properties.title,sheets.properties(sheetId,title)"

// GoogleClient reads documents through the Google Sheets v4 API.
type GoogleClient struct {
	srv *sheets.Service
}

var _ Client = (*GoogleClient)(nil)

// NewGoogleClient authenticates with a service-account key and returns a
// read-only Sheets client.
func NewGoogleClient(ctx context.Context, credentialJSON []byte) (*GoogleClient, error) {
	jwt, err := google.JWTConfigFromJSON(credentialJSON, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parsing service-account key: %w", err)
	}
	return NewGoogleClientWithOptions(ctx, option.WithHTTPClient(jwt.Client(ctx)))
}

// NewGoogleClientWithOptions builds the client from raw API options.
func NewGoogleClientWithOptions(ctx context.Context, opts ...option.ClientOption) (*GoogleClient, error) {
	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("building sheets service: %w", err)
	}
	return &GoogleClient{srv: srv}, nil
}

// Open loads document properties and worksheet handles.
func (c *GoogleClient) Open(ctx context.Context, documentID string) (*Document, error) {
	resp, err := c.srv.Spreadsheets.Get(documentID).
		Fields(documentFields).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("fetching spreadsheet %s: %w", documentID, err)
	}

	doc := &Document{ID: documentID}
	if resp.Properties != nil {
		doc.Title = resp.Properties.Title
	}

	for _, s := range resp.Sheets {
		if s.Properties == nil {
			continue
		}
		title := s.Properties.Title
		doc.sheets = append(doc.sheets, NewWorksheet(s.Properties.SheetId, title, c.loader(documentID, title)))
	}

	return doc, nil
}

func (c *GoogleClient) loader(documentID, title string) LoadFunc {
	return func(ctx context.Context) ([][]string, error) {
		resp, err := c.srv.Spreadsheets.Values.Get(documentID, quoteSheetTitle(title)).
			MajorDimension("ROWS").
			ValueRenderOption("FORMATTED_VALUE").
			Context(ctx).
			Do()
		if err != nil {
			return nil, err
		}

		rows := make([][]string, len(resp.Values))
		for i, raw := range resp.Values {
			row := make([]string, len(raw))
			for j, v := range raw {
				row[j] = cellString(v)
			}
			rows[i] = row
		}
		return rows, nil
	}
}

// quoteSheetTitle returns an A1 range covering the whole sheet.
func quoteSheetTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func cellString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
