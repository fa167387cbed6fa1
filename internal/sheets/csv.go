package sheets

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/shopspring/decimal"
)

// CSVWriter writes reports as CSV. It implements ReportWriter.
type CSVWriter struct {
	out    io.Writer
	logger *slog.Logger
	// DetailsOnly drops the summary sections and writes only the record table.
	DetailsOnly bool
}

// NewCSVWriter creates a CSV report writer on out.
func NewCSVWriter(out io.Writer, logger *slog.Logger) *CSVWriter {
	return &CSVWriter{out: out, logger: logger}
}

// Write implements the ReportWriter interface.
func (w *CSVWriter) Write(ctx context.Context, report *Report) error {
	if report == nil {
		return fmt.Errorf("nil report")
	}

	rows := reportRows(report)
	if w.DetailsOnly {
		rows = detailRows(rows)
	}

	cw := csv.NewWriter(w.out)
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := cw.Write(csvRecord(row)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	w.logger.Debug("wrote csv report", "rows", len(rows))
	return nil
}

// detailRows returns the detail header and everything after it.
func detailRows(rows [][]any) [][]any {
	for i := len(rows) - 1; i >= 0; i-- {
		if len(rows[i]) == len(DetailHeader) && rows[i][0] == DetailHeader[0] && rows[i][1] == DetailHeader[1] {
			return rows[i:]
		}
	}
	return rows
}

func csvRecord(row []any) []string {
	record := make([]string, len(row))
	for i, cell := range row {
		switch v := cell.(type) {
		case string:
			record[i] = v
		case int:
			record[i] = strconv.Itoa(v)
		case decimal.Decimal:
			record[i] = v.StringFixed(2)
		default:
			record[i] = fmt.Sprint(v)
		}
	}
	return record
}
