package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Veraticus/maglo/internal/model"
	"github.com/agnivade/levenshtein"
)

// SortField names a sortable record column.
type SortField string

// Sort fields.
const (
	SortByDate   SortField = "date"
	SortByAmount SortField = "amount"
	SortByTitle  SortField = "title"
)

// SortOptions holds sorting preferences.
type SortOptions struct {
	Field      SortField
	Descending bool
}

// DefaultSort is newest first, matching the ledger screen.
func DefaultSort() SortOptions {
	return SortOptions{Field: SortByDate, Descending: true}
}

// ParseSortField resolves a user supplied field name.
func ParseSortField(s string) (SortField, error) {
	switch SortField(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByDate:
		return SortByDate, nil
	case SortByAmount:
		return SortByAmount, nil
	case SortByTitle:
		return SortByTitle, nil
	}
	return "", fmt.Errorf("unknown sort field %q", s)
}

// Sort returns a sorted copy of records. Ties keep their input order.
func Sort(records []model.Record, opts SortOptions) []model.Record {
	out := make([]model.Record, len(records))
	copy(out, records)

	less := func(a, b *model.Record) int {
		switch opts.Field {
		case SortByAmount:
			return a.Amount.Cmp(b.Amount)
		case SortByTitle:
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		default:
			return a.Date.Compare(b.Date)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := less(&out[i], &out[j])
		if opts.Descending {
			return c > 0
		}
		return c < 0
	})
	return out
}

// Paginate returns the window [offset, offset+limit) of records, clamped to
// the slice bounds. A non-positive limit returns everything from offset.
func Paginate(records []model.Record, offset, limit int) []model.Record {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(records) {
		return []model.Record{}
	}
	end := len(records)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]model.Record, end-offset)
	copy(out, records[offset:end])
	return out
}

// Suggest returns the category closest to input by edit distance, ignoring
// case. It reports false when categories is empty or the best match is
// further than half the input length away.
func Suggest(categories []string, input string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(input))
	if needle == "" {
		return "", false
	}

	best, bestDist := "", -1
	for _, c := range categories {
		if c == All {
			continue
		}
		d := levenshtein.ComputeDistance(needle, strings.ToLower(c))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist < 0 || bestDist > (len(needle)+1)/2 {
		return "", false
	}
	return best, true
}
