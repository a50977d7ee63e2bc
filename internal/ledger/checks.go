package ledger

import (
	"fmt"
	"time"

	"github.com/oakmere/ledgermatch/internal/money"
)

// CheckResult is the outcome of a duplicate/gap query. These feed manual
// audit reports: Comment is a human-readable sentence describing the
// first matching entry. Code is reserved and always zero.
type CheckResult struct {
	Found   bool   `json:"found"`
	Code    int    `json:"code"`
	Comment string `json:"comment"`
}

// TransactionsInMonth reports whether any entry was posted against the
// nominal account during the calendar month containing date.
func (r *Repository) TransactionsInMonth(account string, date time.Time) CheckResult {
	return r.monthCheck(account, date, nil)
}

// TransactionsInMonthDetailed is TransactionsInMonth narrowed to entries
// whose details text matches exactly. Exact match is fine here since the
// query hunts machine-generated duplicates.
func (r *Repository) TransactionsInMonthDetailed(account string, date time.Time, details string) CheckResult {
	return r.monthCheck(account, date, &details)
}

func (r *Repository) monthCheck(account string, date time.Time, details *string) CheckResult {
	start := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	end := start.AddDate(0, 1, 0).AddDate(0, 0, -1)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []Entry

	for _, e := range r.tables.Entries {
		if e.AccountRef != Ref(account) {
			continue
		}

		if e.Date.Before(start) || e.Date.After(end) {
			continue
		}

		if details != nil && e.Details != *details {
			continue
		}

		matches = append(matches, e)
	}

	if len(matches) == 0 {
		return CheckResult{
			Comment: fmt.Sprintf("Found no transactions from %s upto %s.",
				start.Format(time.DateOnly), end.Format(time.DateOnly)),
		}
	}

	first := matches[0]

	return CheckResult{
		Found: true,
		Comment: fmt.Sprintf("Found %d transactions from %s upto %s. First was on %s: details %s: for %s.",
			len(matches), start.Format(time.DateOnly), end.Format(time.DateOnly),
			first.Date.Format(time.DateOnly), first.Details, money.Round(first.Amount)),
	}
}

// TransactionsOnDay reports whether an entry of the given type was posted
// against the customer account on exactly that day.
func (r *Repository) TransactionsOnDay(entryType EntryType, account string, date time.Time) CheckResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []Entry

	for _, e := range r.tables.Entries {
		if e.Type != entryType || e.AltRef != Ref(account) {
			continue
		}

		if !sameDay(e.Date, date) {
			continue
		}

		matches = append(matches, e)
	}

	if len(matches) == 0 {
		return CheckResult{
			Comment: fmt.Sprintf("Found no transactions on %s.", date.Format(time.DateOnly)),
		}
	}

	first := matches[0]

	return CheckResult{
		Found: true,
		Comment: fmt.Sprintf("Found %d transactions on %s. First was on %s: details %s: for %s.",
			len(matches), date.Format(time.DateOnly),
			first.Date.Format(time.DateOnly), first.Details, money.Round(first.Amount)),
	}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
