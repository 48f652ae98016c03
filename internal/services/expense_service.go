package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avrm/opsdash/internal/amqp"
	"github.com/avrm/opsdash/internal/core"
	"github.com/avrm/opsdash/internal/metrics"
	"github.com/avrm/opsdash/internal/storage"
)

// EntryPublisher announces expense entry writes to the ledger mirror.
type EntryPublisher interface {
	PublishEntryUpserted(ctx context.Context, msg *amqp.ExpenseEntryMessage) error
	Close() error
}

// ExpenseService orchestrates expense writes across the database and the
// optional event publisher.
type ExpenseService struct {
	store     storage.ExpenseStore
	publisher EntryPublisher
	now       func() time.Time
}

// NewExpenseService wires the store with an optional publisher (nil disables
// the ledger mirror).
func NewExpenseService(store storage.ExpenseStore, publisher EntryPublisher) *ExpenseService {
	return &ExpenseService{
		store:     store,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *ExpenseService) Sources(ctx context.Context) ([]core.ExpenseSource, error) {
	return s.store.ListActiveSources(ctx)
}

// CreateSource validates and stores a new source.
func (s *ExpenseService) CreateSource(ctx context.Context, src core.ExpenseSource) (core.ExpenseSource, error) {
	if err := src.Validate(); err != nil {
		return core.ExpenseSource{}, core.AsValidation(err)
	}
	return s.store.CreateSource(ctx, src)
}

// UpsertEntry saves the entry for its (source, month) pair and then
// publishes an event. A publish failure is logged and never fails the write.
func (s *ExpenseService) UpsertEntry(ctx context.Context, e core.ExpenseEntry) (core.ExpenseEntry, error) {
	if err := e.Validate(); err != nil {
		return core.ExpenseEntry{}, core.AsValidation(err)
	}

	saved, err := s.store.UpsertExpenseEntry(ctx, e)
	if err != nil {
		return core.ExpenseEntry{}, fmt.Errorf("save expense entry: %w", err)
	}

	if err := s.publish(ctx, saved); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense entry event",
			"id", saved.ID,
			"error", err)
	}
	return saved, nil
}

func (s *ExpenseService) publish(ctx context.Context, e core.ExpenseEntry) error {
	if s.publisher == nil {
		return nil
	}
	return s.publisher.PublishEntryUpserted(ctx, amqp.NewExpenseEntryMessage(e.ID, e.SourceID, e.Month.String()))
}

// Summary aggregates the trailing window of the given number of months.
func (s *ExpenseService) Summary(ctx context.Context, months int) (core.ExpenseSummary, error) {
	if months <= 0 {
		months = metrics.DefaultExpenseMonths
	}
	since := metrics.WindowStart(s.now(), months)

	entries, err := s.store.ListExpenseEntries(ctx, since)
	if err != nil {
		return core.ExpenseSummary{}, err
	}
	return metrics.Expenses(entries, since, months), nil
}

// Close releases the store and the publisher.
func (s *ExpenseService) Close() error {
	var errs []error

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}
	if closer, ok := s.store.(interface{ Close() error }); ok && closer != nil {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %w", errors.Join(errs...))
	}
	return nil
}
