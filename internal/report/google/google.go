package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/sanri/eve-online-tools/internal/core"
	"github.com/sanri/eve-online-tools/internal/report"
)

// Renderer writes reports into a Google spreadsheet: one sheet for the raw
// journal, one for the per-user tax summary.
type Renderer struct {
	svc           *gsheet.Service
	spreadsheetID string
	journalSheet  string
	taxSheet      string
}

var (
	_ report.JournalWriter = (*Renderer)(nil)
	_ report.TaxWriter     = (*Renderer)(nil)
)

// New creates a Renderer against the given spreadsheet. Credentials come
// from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, spreadsheetID, journalSheet, taxSheet string) (*Renderer, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Renderer{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		journalSheet:  journalSheet,
		taxSheet:      taxSheet,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		data, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// WriteJournal replaces the journal sheet's contents with the given rows.
func (r *Renderer) WriteJournal(ctx context.Context, start, end core.Period, rows []report.JournalRow) error {
	return r.replaceSheet(ctx, r.journalSheet, journalValues(rows))
}

// WriteTaxSummary replaces the tax sheet's contents with the summary grid.
func (r *Renderer) WriteTaxSummary(ctx context.Context, start, end core.Period, rows []report.TaxRow) error {
	values, err := taxValues(start, end, rows)
	if err != nil {
		return fmt.Errorf("build tax grid: %w", err)
	}
	return r.replaceSheet(ctx, r.taxSheet, values)
}

func (r *Renderer) replaceSheet(ctx context.Context, sheet string, values [][]any) error {
	if r.svc == nil {
		return errors.New("sheets service not initialized")
	}

	clearRange := fmt.Sprintf("%s!A:ZZ", sheet)
	_, err := r.svc.Spreadsheets.Values.Clear(r.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear sheet %s: %w", sheet, err)
	}

	writeRange := fmt.Sprintf("%s!A1", sheet)
	vr := &gsheet.ValueRange{Values: values}
	_, err = r.svc.Spreadsheets.Values.Update(r.spreadsheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update sheet %s: %w", sheet, err)
	}
	return nil
}
