package sheets

import (
	"fmt"
	"time"

	"github.com/Veraticus/maglo/internal/ledger"
	"github.com/Veraticus/maglo/internal/model"
)

// BuildReport filters records and computes the aggregates written to a
// report. Records are ordered newest first.
func BuildReport(title string, records []model.Record, criteria ledger.Criteria) *Report {
	loc := criteria.Location
	if loc == nil {
		loc = time.Local
	}

	matched := ledger.Sort(ledger.Filter(records, criteria), ledger.DefaultSort())

	report := &Report{
		Title:      title,
		Criteria:   criteria,
		Records:    matched,
		Summary:    ledger.Summarize(matched),
		Totals:     ledger.ComputeTotals(matched),
		Categories: ledger.Breakdown(matched, model.KindExpense),
		Months:     ledger.MonthlyTrend(matched, loc),
	}
	if start, ok := ledger.ParseDay(criteria.Start, loc); ok {
		report.DateRange.Start = start
	}
	if end, ok := ledger.ParseDay(criteria.End, loc); ok {
		report.DateRange.End = end
	}
	return report
}

// RangeLabel renders the report period for headers.
func (r *Report) RangeLabel() string {
	const layout = "Jan 2, 2006"
	start, end := r.DateRange.Start, r.DateRange.End
	switch {
	case start.IsZero() && end.IsZero():
		return "All time"
	case start.IsZero():
		return "Through " + end.Format(layout)
	case end.IsZero():
		return "Since " + start.Format(layout)
	}
	return fmt.Sprintf("%s - %s", start.Format(layout), end.Format(layout))
}
