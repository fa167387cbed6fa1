package ledger

import (
	"sort"
	"time"

	"github.com/Veraticus/maglo/internal/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Totals are the dashboard figures for a set of transactions.
type Totals struct {
	Income      decimal.Decimal `json:"totalIncome"`
	Expense     decimal.Decimal `json:"totalExpenses"`
	Transfer    decimal.Decimal `json:"totalTransfers"`
	Net         decimal.Decimal `json:"net"`
	SavingsRate decimal.Decimal `json:"savingsRate"`
}

// CategoryShare is one slice of the spending-by-category breakdown.
type CategoryShare struct {
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
	Count      int             `json:"count"`
}

// MonthStat is the income and expense of one calendar month.
type MonthStat struct {
	Month   time.Time       `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// Label formats the month the way the dashboard chart axis does.
func (m MonthStat) Label() string {
	return m.Month.Format("Jan 2006")
}

// SignedAmount applies the display sign policy: income is positive,
// expense negative, and transfers and invoices keep their magnitude.
func SignedAmount(r model.Record) decimal.Decimal {
	if r.Kind.Direction() < 0 {
		return r.Amount.Neg()
	}
	return r.Amount
}

// ComputeTotals sums transactions by kind. Net is income minus expense and the
// savings rate is net as a percentage of income, rounded to two places.
func ComputeTotals(records []model.Record) Totals {
	t := Totals{
		Income:      decimal.Zero,
		Expense:     decimal.Zero,
		Transfer:    decimal.Zero,
		SavingsRate: decimal.Zero,
	}
	for i := range records {
		switch records[i].Kind {
		case model.KindIncome:
			t.Income = t.Income.Add(records[i].Amount)
		case model.KindExpense:
			t.Expense = t.Expense.Add(records[i].Amount)
		case model.KindTransfer:
			t.Transfer = t.Transfer.Add(records[i].Amount)
		}
	}
	t.Net = t.Income.Sub(t.Expense)
	if t.Income.IsPositive() {
		t.SavingsRate = t.Net.Div(t.Income).Mul(hundred).Round(2)
	}
	return t
}

// ByKind summarizes records per kind. Kinds with no records are absent.
func ByKind(records []model.Record) map[model.Kind]Summary {
	out := make(map[model.Kind]Summary)
	for i := range records {
		s, ok := out[records[i].Kind]
		if !ok {
			s.Total = decimal.Zero
		}
		s.Count++
		s.Total = s.Total.Add(records[i].Amount)
		out[records[i].Kind] = s
	}
	return out
}

// Breakdown splits the records of one kind by category. Shares are ordered
// by amount descending, then category name.
func Breakdown(records []model.Record, kind model.Kind) []CategoryShare {
	index := make(map[string]int)
	var shares []CategoryShare
	total := decimal.Zero

	for i := range records {
		r := &records[i]
		if r.Kind != kind {
			continue
		}
		total = total.Add(r.Amount)
		pos, ok := index[r.Category]
		if !ok {
			pos = len(shares)
			index[r.Category] = pos
			shares = append(shares, CategoryShare{Category: r.Category, Amount: decimal.Zero})
		}
		shares[pos].Amount = shares[pos].Amount.Add(r.Amount)
		shares[pos].Count++
	}

	for i := range shares {
		shares[i].Percentage = decimal.Zero
		if total.IsPositive() {
			shares[i].Percentage = shares[i].Amount.Div(total).Mul(hundred).Round(2)
		}
	}

	sort.SliceStable(shares, func(i, j int) bool {
		if c := shares[i].Amount.Cmp(shares[j].Amount); c != 0 {
			return c > 0
		}
		return shares[i].Category < shares[j].Category
	})
	return shares
}

// MonthlyTrend buckets income and expense by calendar month in loc,
// oldest month first. Months without transactions are not emitted.
func MonthlyTrend(records []model.Record, loc *time.Location) []MonthStat {
	if loc == nil {
		loc = time.Local
	}
	index := make(map[time.Time]int)
	var months []MonthStat

	for i := range records {
		r := &records[i]
		if r.Kind != model.KindIncome && r.Kind != model.KindExpense {
			continue
		}
		d := r.Date.In(loc)
		key := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, loc)
		pos, ok := index[key]
		if !ok {
			pos = len(months)
			index[key] = pos
			months = append(months, MonthStat{Month: key, Income: decimal.Zero, Expense: decimal.Zero})
		}
		if r.Kind == model.KindIncome {
			months[pos].Income = months[pos].Income.Add(r.Amount)
		} else {
			months[pos].Expense = months[pos].Expense.Add(r.Amount)
		}
	}

	sort.Slice(months, func(i, j int) bool {
		return months[i].Month.Before(months[j].Month)
	})
	return months
}
