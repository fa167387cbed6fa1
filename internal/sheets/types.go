package sheets

import (
	"context"
	"time"

	"github.com/Veraticus/maglo/internal/ledger"
	"github.com/Veraticus/maglo/internal/model"
)

// ReportWriter writes a ledger report somewhere.
type ReportWriter interface {
	Write(ctx context.Context, report *Report) error
}

// Report is a filtered slice of the ledger plus its aggregates.
type Report struct {
	DateRange  DateRange
	Totals     ledger.Totals
	Title      string
	Criteria   ledger.Criteria
	Summary    ledger.Summary
	Categories []ledger.CategoryShare
	Months     []ledger.MonthStat
	Records    []model.Record
}

// DateRange represents the time period covered by the report. Zero times
// mean the range is open on that side.
type DateRange struct {
	Start time.Time
	End   time.Time
}
