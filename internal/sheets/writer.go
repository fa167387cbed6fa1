package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/maglo/internal/common"
	"github.com/Veraticus/maglo/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	defaultTab  = "Ledger"
	maxTabTitle = 100

	currencyPattern = "$#,##0.00"
	signedPattern   = "[Green]+$#,##0.00;[Red]-$#,##0.00"
)

// Writer publishes reports to a Google spreadsheet, one tab per report title.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter validates the config and opens an authenticated Sheets client.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	srv, err := newSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{config: config, service: srv, logger: logger}, nil
}

// Write replaces the report's tab with freshly laid out rows.
func (w *Writer) Write(ctx context.Context, report *Report) error {
	if report == nil {
		return errors.New("nil report")
	}
	rows, layout := layoutRows(report)
	values := sheetValues(rows)
	tab := tabTitle(report.Title)

	w.logger.Info("exporting report to sheets",
		"tab", tab,
		"records", len(report.Records),
		"range", report.RangeLabel())

	retry := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	var spreadsheetID string
	var sheetID int64
	err := common.WithRetry(ctx, func() error {
		var err error
		spreadsheetID, sheetID, err = w.prepareTab(ctx, tab)
		return classify(err)
	}, retry)
	if err != nil {
		return fmt.Errorf("failed to prepare tab %q: %w", tab, err)
	}

	err = common.WithRetry(ctx, func() error {
		return classify(w.writeValues(ctx, spreadsheetID, tab, values))
	}, retry)
	if err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}

	if w.config.EnableFormatting {
		requests := formatRequests(sheetID, layout, len(values))
		err = common.WithRetry(ctx, func() error {
			_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID,
				&sheets.BatchUpdateSpreadsheetRequest{Requests: requests}).Context(ctx).Do()
			return classify(err)
		}, retry)
		if err != nil {
			w.logger.Warn("formatting failed, values were written", "error", err)
		}
	}

	w.logger.Info("report exported",
		"spreadsheet_id", spreadsheetID,
		"tab", tab,
		"rows", len(values))
	return nil
}

func newSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var source oauth2.TokenSource
	if config.HasServiceAccount() {
		key, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("reading service account key: %w", err)
		}
		jwt, err := google.JWTConfigFromJSON(key, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("parsing service account key: %w", err)
		}
		source = jwt.TokenSource(ctx)
	} else {
		source = OAuthConfig(config.ClientID, config.ClientSecret, "").
			TokenSource(ctx, &oauth2.Token{RefreshToken: config.RefreshToken, TokenType: "Bearer"})
	}

	return sheets.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, source)))
}

// prepareTab resolves the spreadsheet and makes sure the tab exists and is
// empty. A new spreadsheet is created when none is configured.
func (w *Writer) prepareTab(ctx context.Context, tab string) (string, int64, error) {
	if w.config.SpreadsheetID == "" {
		created, err := w.createSpreadsheet(ctx, tab)
		if err != nil {
			return "", 0, err
		}
		// Later reports in this process land in the same spreadsheet.
		w.config.SpreadsheetID = created.SpreadsheetId
		for _, sheet := range created.Sheets {
			if sheet.Properties != nil && sheet.Properties.Title == tab {
				return created.SpreadsheetId, sheet.Properties.SheetId, nil
			}
		}
		return created.SpreadsheetId, 0, nil
	}

	id := w.config.SpreadsheetID
	sheetID, err := w.ensureTab(ctx, id, tab)
	if err != nil {
		return "", 0, err
	}
	_, err = w.service.Spreadsheets.Values.Clear(id, quoteRange(tab, "A:Z"), &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return "", 0, fmt.Errorf("clearing tab: %w", err)
	}
	return id, sheetID, nil
}

func (w *Writer) createSpreadsheet(ctx context.Context, tab string) (*sheets.Spreadsheet, error) {
	props := &sheets.SpreadsheetProperties{Title: w.config.SpreadsheetName}
	if w.config.TimeZone != "" {
		props.TimeZone = w.config.TimeZone
	}
	created, err := w.service.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: props,
		Sheets:     []*sheets.Sheet{{Properties: &sheets.SheetProperties{Title: tab}}},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("creating spreadsheet: %w", err)
	}
	w.logger.Info("created spreadsheet", "id", created.SpreadsheetId, "url", created.SpreadsheetUrl)
	return created, nil
}

// ensureTab returns the sheet id of tab, adding the tab if it is missing.
func (w *Writer) ensureTab(ctx context.Context, spreadsheetID, tab string) (int64, error) {
	existing, err := w.service.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("opening spreadsheet %s: %w", spreadsheetID, err)
	}
	for _, sheet := range existing.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == tab {
			return sheet.Properties.SheetId, nil
		}
	}

	resp, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: tab}},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("adding tab %q: %w", tab, err)
	}
	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil || resp.Replies[0].AddSheet.Properties == nil {
		return 0, fmt.Errorf("adding tab %q: empty reply", tab)
	}
	w.logger.Debug("added tab", "tab", tab)
	return resp.Replies[0].AddSheet.Properties.SheetId, nil
}

func (w *Writer) writeValues(ctx context.Context, spreadsheetID, tab string, values [][]any) error {
	batch := w.config.BatchSize
	for start := 0; start < len(values); start += batch {
		end := min(start+batch, len(values))
		_, err := w.service.Spreadsheets.Values.
			Update(spreadsheetID, quoteRange(tab, fmt.Sprintf("A%d", start+1)), &sheets.ValueRange{Values: values[start:end]}).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("writing rows %d-%d: %w", start+1, end, err)
		}
		w.logger.Debug("wrote rows", "from", start+1, "to", end)
	}
	return nil
}

// classify marks API errors for the retry loop. Throttling waits the
// longest delay; other client errors fail immediately.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
	case apiErr.Code >= 400 && apiErr.Code < 500:
		return &common.RetryableError{Err: err, Retryable: false}
	}
	return err
}

// tabTitle turns a report title into a usable sheet name.
func tabTitle(title string) string {
	title = strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', '*', '?', ':', '/', '\\', '\'':
			return ' '
		}
		return r
	}, title)
	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		return defaultTab
	}
	if r := []rune(title); len(r) > maxTabTitle {
		title = strings.TrimSpace(string(r[:maxTabTitle]))
	}
	return title
}

func quoteRange(tab, cells string) string {
	return fmt.Sprintf("'%s'!%s", tab, cells)
}

// formatRequests styles a written report: a large title, bold section and
// table headers, currency columns, and auto-sized columns.
func formatRequests(sheetID int64, layout sheetLayout, totalRows int) []*sheets.Request {
	grid := func(r cellRange) *sheets.GridRange {
		return &sheets.GridRange{
			SheetId:          sheetID,
			StartRowIndex:    int64(r.startRow),
			EndRowIndex:      int64(r.endRow),
			StartColumnIndex: int64(r.startCol),
			EndColumnIndex:   int64(r.endCol),
		}
	}
	text := func(r cellRange, format *sheets.TextFormat) *sheets.Request {
		return &sheets.Request{RepeatCell: &sheets.RepeatCellRequest{
			Range:  grid(r),
			Cell:   &sheets.CellData{UserEnteredFormat: &sheets.CellFormat{TextFormat: format}},
			Fields: "userEnteredFormat.textFormat",
		}}
	}
	number := func(r cellRange, pattern string) *sheets.Request {
		return &sheets.Request{RepeatCell: &sheets.RepeatCellRequest{
			Range: grid(r),
			Cell: &sheets.CellData{UserEnteredFormat: &sheets.CellFormat{
				NumberFormat: &sheets.NumberFormat{Type: "CURRENCY", Pattern: pattern},
			}},
			Fields: "userEnteredFormat.numberFormat",
		}}
	}

	width := len(DetailHeader)
	requests := []*sheets.Request{text(cellRange{0, 1, 0, 2}, &sheets.TextFormat{Bold: true, FontSize: 16})}

	for _, row := range layout.sections {
		requests = append(requests, text(cellRange{row, row + 1, 0, 1}, &sheets.TextFormat{Bold: true}))
	}
	for _, row := range layout.headers {
		requests = append(requests, &sheets.Request{RepeatCell: &sheets.RepeatCellRequest{
			Range: grid(cellRange{row, row + 1, 0, width}),
			Cell: &sheets.CellData{UserEnteredFormat: &sheets.CellFormat{
				TextFormat:      &sheets.TextFormat{Bold: true},
				BackgroundColor: &sheets.Color{Red: 0.9, Green: 0.9, Blue: 0.9},
			}},
			Fields: "userEnteredFormat(textFormat,backgroundColor)",
		}})
	}
	for _, r := range layout.currency {
		if r.endRow > r.startRow {
			requests = append(requests, number(r, currencyPattern))
		}
	}
	if layout.signed.endRow > layout.signed.startRow {
		requests = append(requests, number(layout.signed, signedPattern))
	}

	if totalRows > 0 {
		requests = append(requests, &sheets.Request{AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
			Dimensions: &sheets.DimensionRange{
				SheetId:    sheetID,
				Dimension:  "COLUMNS",
				StartIndex: 0,
				EndIndex:   int64(width),
			},
		}})
	}
	return requests
}
