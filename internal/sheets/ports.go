package sheets

import (
	"context"
	"strconv"
	"time"

	"github.com/avrm/opsdash/internal/core"
)

// LedgerHeader names the ledger columns, in order.
var LedgerHeader = []string{"Key", "Month", "Source", "Amount", "Notes", "Updated"}

// LedgerRow is one mirrored expense entry. Key identifies the row.
type LedgerRow struct {
	Key     string
	Month   string
	Source  string
	Amount  string
	Notes   string
	Updated time.Time
}

// Values returns the row cells in LedgerHeader order.
func (r LedgerRow) Values() []any {
	return []any{r.Key, r.Month, r.Source, r.Amount, r.Notes, r.Updated.UTC().Format(time.RFC3339)}
}

// LedgerKey is the natural key of an entry in the ledger: sourceID|month.
// The display name lives in the Source column only, since names are neither
// unique nor stable.
func LedgerKey(e core.ExpenseEntry) string {
	return strconv.FormatInt(e.SourceID, 10) + "|" + e.Month.String()
}

// RowFromEntry builds the ledger row for e.
func RowFromEntry(e core.ExpenseEntry, at time.Time) LedgerRow {
	return LedgerRow{
		Key:     LedgerKey(e),
		Month:   e.Month.String(),
		Source:  e.DisplaySource(),
		Amount:  e.Amount.StringFixed(2),
		Notes:   e.Notes,
		Updated: at,
	}
}

// LedgerWriter is the outbound port for the expense ledger mirror.
type LedgerWriter interface {
	// UpsertRow replaces the row with the same key, or appends it.
	UpsertRow(ctx context.Context, row LedgerRow) (rowRef string, err error)
}
