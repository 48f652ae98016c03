package memory

import (
	"context"
	"testing"
	"time"

	"github.com/avrm/opsdash/internal/sheets"
)

func TestLedgerUpsertReplacesByKey(t *testing.T) {
	l := New()
	ctx := context.Background()
	at := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)

	ref, err := l.UpsertRow(ctx, sheets.LedgerRow{Key: "Software|2024-03-01", Amount: "10.00", Updated: at})
	if err != nil || ref != "mem:1" {
		t.Fatalf("first upsert: ref=%q err=%v", ref, err)
	}
	if _, err := l.UpsertRow(ctx, sheets.LedgerRow{Key: "Cleaning|2024-03-01", Amount: "80.00", Updated: at}); err != nil {
		t.Fatal(err)
	}

	ref, err = l.UpsertRow(ctx, sheets.LedgerRow{Key: "Software|2024-03-01", Amount: "12.00", Updated: at})
	if err != nil || ref != "mem:1" {
		t.Fatalf("second upsert: ref=%q err=%v", ref, err)
	}

	if rows := l.Rows(); len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	row, ok := l.Row("Software|2024-03-01")
	if !ok || row.Amount != "12.00" {
		t.Fatalf("unexpected row %+v (found=%v)", row, ok)
	}
}

func TestLedgerRejectsEmptyKey(t *testing.T) {
	if _, err := New().UpsertRow(context.Background(), sheets.LedgerRow{}); err == nil {
		t.Fatal("expected error for empty key")
	}
}
