package metrics

import (
	"time"

	"github.com/avrm/opsdash/internal/core"
)

// DefaultExpenseMonths is the trailing window used when none is requested.
const DefaultExpenseMonths = 12

// WindowStart returns the first month of a trailing window of the given
// length ending now: the month `months` months before the current one.
func WindowStart(now time.Time, months int) core.Month {
	if months <= 0 {
		months = DefaultExpenseMonths
	}
	return core.MonthOf(now).AddMonths(-months)
}

// Expenses totals entries on or after since, overall, per month and per
// source. Entries with no resolvable source are grouped under the unknown
// label.
func Expenses(entries []core.ExpenseEntry, since core.Month, months int) core.ExpenseSummary {
	summary := core.ExpenseSummary{
		Months:  months,
		Since:   since,
		Entries: make([]core.ExpenseEntry, 0, len(entries)),
	}

	for _, e := range entries {
		if e.Month.Before(since) {
			continue
		}
		e.SourceName = e.DisplaySource()
		summary.Entries = append(summary.Entries, e)
		summary.TTMTotal = summary.TTMTotal.Plus(e.Amount)
		summary.ByMonth.Add(e.Month.String(), e.Amount)
		summary.BySource.Add(e.SourceName, e.Amount)
	}
	return summary
}
