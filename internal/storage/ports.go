package storage

import (
	"context"
	"time"

	"github.com/avrm/opsdash/internal/core"
)

// PropertySettingsStore persists per-listing include/exclude flags.
type PropertySettingsStore interface {
	ListPropertySettings(ctx context.Context) ([]core.PropertySetting, error)
	UpsertPropertySetting(ctx context.Context, id, name string, include bool) (core.PropertySetting, error)
	SyncProperties(ctx context.Context, listings []core.HostawayListing, at time.Time) (int, error)
}

// ExpenseStore persists expense sources and monthly entries.
type ExpenseStore interface {
	ListActiveSources(ctx context.Context) ([]core.ExpenseSource, error)
	CreateSource(ctx context.Context, s core.ExpenseSource) (core.ExpenseSource, error)
	UpsertExpenseEntry(ctx context.Context, e core.ExpenseEntry) (core.ExpenseEntry, error)
	GetExpenseEntry(ctx context.Context, id int64) (core.ExpenseEntry, error)
	ListExpenseEntries(ctx context.Context, since core.Month) ([]core.ExpenseEntry, error)
}
