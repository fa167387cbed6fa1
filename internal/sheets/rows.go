package sheets

import (
	"github.com/Veraticus/maglo/internal/ledger"
	"github.com/shopspring/decimal"
)

// DetailHeader is the column header of the record detail table.
var DetailHeader = []any{"Date", "Title", "Kind", "Category", "Amount", "Signed", "Status", "Recipient", "Payment Method", "Notes"}

// Detail table columns holding money.
const (
	amountColumn = 4
	signedColumn = 5
)

// cellRange is a half-open block of rows and columns, zero based.
type cellRange struct {
	startRow, endRow int
	startCol, endCol int
}

// sheetLayout records where each part of a report landed so the writer can
// format it.
type sheetLayout struct {
	sections []int
	headers  []int
	currency []cellRange
	signed   cellRange
}

// rowBuilder appends rows and notes their positions.
type rowBuilder struct {
	rows   [][]any
	layout sheetLayout
}

func (b *rowBuilder) add(cells ...any) int {
	b.rows = append(b.rows, cells)
	return len(b.rows) - 1
}

func (b *rowBuilder) section(title string) {
	if len(b.rows) > 0 {
		b.add()
	}
	b.layout.sections = append(b.layout.sections, b.add(title))
}

func (b *rowBuilder) header(cells ...any) {
	b.layout.headers = append(b.layout.headers, b.add(cells...))
}

// money adds a label/amount row with the amount formatted as currency.
func (b *rowBuilder) money(label string, amount decimal.Decimal) {
	row := b.add(label, amount)
	b.layout.currency = append(b.layout.currency, cellRange{row, row + 1, 1, 2})
}

// reportRows lays out a report as rows of cells. Amount cells are left as
// decimals so each writer can render them natively.
func reportRows(report *Report) [][]any {
	rows, _ := layoutRows(report)
	return rows
}

func layoutRows(report *Report) ([][]any, sheetLayout) {
	b := &rowBuilder{rows: make([][]any, 0, 24+len(report.Categories)+len(report.Months)+len(report.Records))}

	b.add(report.Title, report.RangeLabel())

	b.section("Summary")
	b.add("Records", report.Summary.Count)
	b.money("Total Amount", report.Summary.Total)
	b.money("Income", report.Totals.Income)
	b.money("Expenses", report.Totals.Expense)
	b.money("Transfers", report.Totals.Transfer)
	b.money("Net", report.Totals.Net)
	b.add("Savings Rate %", report.Totals.SavingsRate)

	b.section("Spending by Category")
	b.header("Category", "Count", "Amount", "Share %")
	start := len(b.rows)
	for _, share := range report.Categories {
		b.add(share.Category, share.Count, share.Amount, share.Percentage)
	}
	b.layout.currency = append(b.layout.currency, cellRange{start, len(b.rows), 2, 3})

	b.section("Monthly Trend")
	b.header("Month", "Income", "Expense")
	start = len(b.rows)
	for _, m := range report.Months {
		b.add(m.Label(), m.Income, m.Expense)
	}
	b.layout.currency = append(b.layout.currency, cellRange{start, len(b.rows), 1, 3})

	b.section("Record Details")
	b.header(DetailHeader...)
	start = len(b.rows)
	for i := range report.Records {
		r := &report.Records[i]
		b.add(
			r.Date.Format("2006-01-02"),
			r.Title,
			string(r.Kind),
			r.Category,
			r.Amount,
			ledger.SignedAmount(*r),
			string(r.Status),
			r.Recipient,
			r.PaymentMethod,
			r.Notes,
		)
	}
	b.layout.currency = append(b.layout.currency, cellRange{start, len(b.rows), amountColumn, amountColumn + 1})
	b.layout.signed = cellRange{start, len(b.rows), signedColumn, signedColumn + 1}

	return b.rows, b.layout
}

// sheetValues converts decimal cells to numbers for the Sheets API.
func sheetValues(rows [][]any) [][]any {
	out := make([][]any, len(rows))
	for i, row := range rows {
		converted := make([]any, len(row))
		for j, cell := range row {
			if d, ok := cell.(decimal.Decimal); ok {
				converted[j] = d.InexactFloat64()
				continue
			}
			converted[j] = cell
		}
		out[i] = converted
	}
	return out
}
