// Package ledger filters and aggregates record collections for display.
//
// Every function in this package is pure: inputs are never modified, results
// are freshly allocated and no error is ever returned. Callers own all filter
// state and pass it in wholesale on each call.
package ledger

import (
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/maglo/internal/model"
	"github.com/shopspring/decimal"
)

// All is the sentinel filter value meaning "no constraint".
const All = "All"

// Criteria is the set of active filter constraints for one query.
type Criteria struct {
	// Location used to resolve Start and End day bounds. Nil means time.Local.
	Location *time.Location
	// Search is matched case-insensitively against title and recipient.
	Search string
	// Kind restricts results to one kind. Empty or "All" disables it.
	Kind model.Kind
	// Category restricts results to one exact category. Empty or "All"
	// disables it.
	Category string
	// Start and End are raw day strings. Unparseable values are ignored.
	Start string
	End   string
}

// Summary is the count and unsigned total of a record list.
type Summary struct {
	Total decimal.Decimal `json:"totalAmount"`
	Count int             `json:"count"`
}

// ListCategories returns "All" followed by every distinct category in
// lexicographic order.
func ListCategories(records []model.Record) []string {
	seen := make(map[string]struct{}, len(records))
	categories := make([]string, 0, len(records))
	for i := range records {
		c := records[i].Category
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		categories = append(categories, c)
	}
	sort.Strings(categories)

	return append([]string{All}, categories...)
}

// Filter returns the records matching every predicate in c, preserving
// their original relative order.
func Filter(records []model.Record, c Criteria) []model.Record {
	p := compile(c)

	result := make([]model.Record, 0, len(records))
	for i := range records {
		if p.matches(&records[i]) {
			result = append(result, records[i])
		}
	}
	return result
}

// Summarize counts records and sums their amounts without applying any
// sign. Sign policy is a display concern; see SignedAmount and Totals.
func Summarize(records []model.Record) Summary {
	total := decimal.Zero
	for i := range records {
		total = total.Add(records[i].Amount)
	}
	return Summary{Count: len(records), Total: total}
}

// predicate is Criteria resolved once per query.
type predicate struct {
	start    time.Time
	end      time.Time
	search   string
	category string
	kind     model.Kind
	hasStart bool
	hasEnd   bool
}

func compile(c Criteria) predicate {
	p := predicate{
		search:   strings.ToLower(c.Search),
		kind:     c.Kind,
		category: c.Category,
	}
	if p.kind == model.AllKinds {
		p.kind = ""
	}
	if p.category == All {
		p.category = ""
	}

	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	if day, ok := ParseDay(c.Start, loc); ok {
		p.start, p.hasStart = day, true
	}
	if day, ok := ParseDay(c.End, loc); ok {
		// Inclusive through the last instant of the end day.
		p.end, p.hasEnd = day.AddDate(0, 0, 1), true
	}
	return p
}

func (p *predicate) matches(r *model.Record) bool {
	if p.search != "" &&
		!strings.Contains(strings.ToLower(r.Title), p.search) &&
		!(r.HasRecipient() && strings.Contains(strings.ToLower(r.Recipient), p.search)) {
		return false
	}
	if p.kind != "" && r.Kind != p.kind {
		return false
	}
	if p.category != "" && r.Category != p.category {
		return false
	}
	if p.hasStart && r.Date.Before(p.start) {
		return false
	}
	if p.hasEnd && !r.Date.Before(p.end) {
		return false
	}
	return true
}

// ParseDay parses a date bound and truncates it to midnight in loc. It
// reports false for empty or unparseable input.
func ParseDay(s string, loc *time.Location) (time.Time, bool) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := model.ParseTimestamp(s, loc)
	if err != nil {
		return time.Time{}, false
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), true
}
