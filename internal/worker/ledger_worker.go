package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/avrm/opsdash/internal/amqp"
	"github.com/avrm/opsdash/internal/core"
	"github.com/avrm/opsdash/internal/metrics"
	"github.com/avrm/opsdash/internal/sheets"
)

// EntryReader is the part of the expense store the worker reads.
type EntryReader interface {
	GetExpenseEntry(ctx context.Context, id int64) (core.ExpenseEntry, error)
	ListExpenseEntries(ctx context.Context, since core.Month) ([]core.ExpenseEntry, error)
}

// Consumer delivers expense entry events.
type Consumer interface {
	Consume(ctx context.Context, handler amqp.Handler) error
}

// Config tunes the periodic sweep.
type Config struct {
	// SweepInterval is how often the whole window is re-mirrored.
	SweepInterval time.Duration
	// Months is the length of the swept window.
	Months int
}

func DefaultConfig() Config {
	return Config{
		SweepInterval: 15 * time.Minute,
		Months:        metrics.DefaultExpenseMonths,
	}
}

// LedgerWorker mirrors expense entries into the ledger, one row per
// (source, month). Events keep the ledger current; the sweep repairs rows
// whose events were lost.
type LedgerWorker struct {
	store  EntryReader
	ledger sheets.LedgerWriter
	config Config
	now    func() time.Time
}

func NewLedgerWorker(store EntryReader, ledger sheets.LedgerWriter, cfg Config) *LedgerWorker {
	def := DefaultConfig()
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = def.SweepInterval
	}
	if cfg.Months <= 0 {
		cfg.Months = def.Months
	}
	return &LedgerWorker{
		store:  store,
		ledger: ledger,
		config: cfg,
		now:    time.Now,
	}
}

// HandleEntryEvent mirrors the entry named by msg. Entries that no longer
// exist are skipped.
func (w *LedgerWorker) HandleEntryEvent(ctx context.Context, msg *amqp.ExpenseEntryMessage) error {
	entry, err := w.store.GetExpenseEntry(ctx, msg.EntryID)
	if errors.Is(err, core.ErrNotFound) {
		slog.WarnContext(ctx, "Expense entry vanished before mirroring",
			"entry_id", msg.EntryID,
			"message_id", msg.MessageID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load expense entry %d: %w", msg.EntryID, err)
	}

	ref, err := w.ledger.UpsertRow(ctx, sheets.RowFromEntry(entry, w.now()))
	if err != nil {
		return fmt.Errorf("mirror expense entry %d: %w", entry.ID, err)
	}

	slog.InfoContext(ctx, "Mirrored expense entry",
		"entry_id", entry.ID,
		"month", entry.Month.String(),
		"ledger_ref", ref)
	return nil
}

// Sweep re-mirrors every entry of the current window and returns how many
// rows were written. It keeps going past individual failures.
func (w *LedgerWorker) Sweep(ctx context.Context) (int, error) {
	since := metrics.WindowStart(w.now(), w.config.Months)
	entries, err := w.store.ListExpenseEntries(ctx, since)
	if err != nil {
		return 0, fmt.Errorf("list expense entries: %w", err)
	}

	var (
		written int
		errs    []error
	)
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		if _, err := w.ledger.UpsertRow(ctx, sheets.RowFromEntry(e, w.now())); err != nil {
			errs = append(errs, fmt.Errorf("entry %d: %w", e.ID, err))
			continue
		}
		written++
	}

	slog.InfoContext(ctx, "Ledger sweep finished",
		"since", since.String(),
		"written", written,
		"failed", len(errs))
	return written, errors.Join(errs...)
}

// Run consumes events and sweeps on startup and every SweepInterval until
// ctx is cancelled. A nil consumer runs the sweep alone.
func (w *LedgerWorker) Run(ctx context.Context, consumer Consumer) error {
	g, ctx := errgroup.WithContext(ctx)

	if consumer != nil {
		g.Go(func() error {
			return consumer.Consume(ctx, w.HandleEntryEvent)
		})
	}

	g.Go(func() error {
		ticker := time.NewTicker(w.config.SweepInterval)
		defer ticker.Stop()

		for {
			if _, err := w.Sweep(ctx); err != nil && ctx.Err() == nil {
				slog.ErrorContext(ctx, "Ledger sweep failed", "error", err)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
