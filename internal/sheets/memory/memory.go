package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/avrm/opsdash/internal/sheets"
)

// Ledger is an in-process LedgerWriter used by dry runs and tests.
type Ledger struct {
	mu    sync.Mutex
	index map[string]int
	rows  []sheets.LedgerRow
}

var _ sheets.LedgerWriter = (*Ledger)(nil)

func New() *Ledger {
	return &Ledger{index: map[string]int{}}
}

func (l *Ledger) UpsertRow(_ context.Context, row sheets.LedgerRow) (string, error) {
	if row.Key == "" {
		return "", errors.New("ledger row without key")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if i, ok := l.index[row.Key]; ok {
		l.rows[i] = row
		return fmt.Sprintf("mem:%d", i+1), nil
	}
	l.rows = append(l.rows, row)
	l.index[row.Key] = len(l.rows) - 1
	return fmt.Sprintf("mem:%d", len(l.rows)), nil
}

// Rows returns a copy of the stored rows in insertion order.
func (l *Ledger) Rows() []sheets.LedgerRow {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]sheets.LedgerRow(nil), l.rows...)
}

// Row looks a row up by key.
func (l *Ledger) Row(key string) (sheets.LedgerRow, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i, ok := l.index[key]
	if !ok {
		return sheets.LedgerRow{}, false
	}
	return l.rows[i], true
}
