package ledger

import (
	"testing"
	"time"

	"github.com/Veraticus/maglo/internal/fixtures"
	"github.com/Veraticus/maglo/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func TestComputeTotals(t *testing.T) {
	totals := ComputeTotals(fixtures.Transactions())

	assertDecimal(t, "4450.00", totals.Income)
	assertDecimal(t, "226.77", totals.Expense)
	assertDecimal(t, "500.00", totals.Transfer)
	assertDecimal(t, "4223.23", totals.Net)
	assertDecimal(t, "94.9", totals.SavingsRate)
}

func TestComputeTotals_NoIncome(t *testing.T) {
	records := Filter(fixtures.Transactions(), Criteria{Kind: model.KindExpense})
	totals := ComputeTotals(records)

	assertDecimal(t, "0", totals.Income)
	assertDecimal(t, "-226.77", totals.Net)
	assert.True(t, totals.SavingsRate.IsZero())
}

func TestSignedAmount(t *testing.T) {
	txns := fixtures.Transactions()
	assertDecimal(t, "-54.99", SignedAmount(txns[0]))
	assertDecimal(t, "1250", SignedAmount(txns[1]))
	assertDecimal(t, "500", SignedAmount(txns[4]))
	assertDecimal(t, "2500", SignedAmount(fixtures.Invoices()[0]))
}

func TestByKind_Invoices(t *testing.T) {
	got := ByKind(fixtures.Invoices())

	require.Len(t, got, 3)
	assert.Equal(t, 2, got[model.KindPending].Count)
	assertDecimal(t, "13300.50", got[model.KindPending].Total)
	assertDecimal(t, "1200", got[model.KindOverdue].Total)
	assertDecimal(t, "2500", got[model.KindPaid].Total)
	_, ok := got[model.KindDraft]
	assert.False(t, ok)
}

func TestBreakdown(t *testing.T) {
	shares := Breakdown(fixtures.Transactions(), model.KindExpense)

	require.Len(t, shares, 3)
	assert.Equal(t, "Groceries", shares[0].Category)
	assertDecimal(t, "142.8", shares[0].Amount)
	assertDecimal(t, "62.97", shares[0].Percentage)

	assert.Equal(t, "Subscription", shares[1].Category)
	assert.Equal(t, "Entertainment", shares[2].Category)
	assert.Equal(t, 2, shares[2].Count)
	assertDecimal(t, "28.98", shares[2].Amount)
}

func TestBreakdown_Empty(t *testing.T) {
	assert.Empty(t, Breakdown(nil, model.KindExpense))
	assert.Empty(t, Breakdown(fixtures.Transactions(), model.KindDraft))
}

func TestMonthlyTrend(t *testing.T) {
	loc := time.UTC
	records := []model.Record{
		{ID: "a", Kind: model.KindIncome, Amount: dec("100"), Date: time.Date(2024, 2, 3, 0, 0, 0, 0, loc)},
		{ID: "b", Kind: model.KindExpense, Amount: dec("40"), Date: time.Date(2024, 1, 31, 23, 0, 0, 0, loc)},
		{ID: "c", Kind: model.KindExpense, Amount: dec("10"), Date: time.Date(2024, 2, 28, 0, 0, 0, 0, loc)},
		{ID: "d", Kind: model.KindTransfer, Amount: dec("999"), Date: time.Date(2024, 3, 1, 0, 0, 0, 0, loc)},
	}

	trend := MonthlyTrend(records, loc)
	require.Len(t, trend, 2)

	assert.Equal(t, "Jan 2024", trend[0].Label())
	assertDecimal(t, "0", trend[0].Income)
	assertDecimal(t, "40", trend[0].Expense)

	assert.Equal(t, "Feb 2024", trend[1].Label())
	assertDecimal(t, "100", trend[1].Income)
	assertDecimal(t, "10", trend[1].Expense)
}

func TestMonthlyTrend_UsesLocation(t *testing.T) {
	r := model.Record{ID: "x", Kind: model.KindIncome, Amount: dec("1"), Date: time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC)}
	trend := MonthlyTrend([]model.Record{r}, time.FixedZone("plus2", 2*3600))
	require.Len(t, trend, 1)
	assert.Equal(t, time.February, trend[0].Month.Month())
}
