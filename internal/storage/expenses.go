package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/avrm/opsdash/internal/core"
)

// ListActiveSources returns active expense sources ordered by name.
func (r *Repository) ListActiveSources(ctx context.Context) ([]core.ExpenseSource, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, is_recurring, is_active
		FROM expense_sources
		WHERE is_active = TRUE
		ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list expense sources: %w", err)
	}
	defer rows.Close()

	sources := []core.ExpenseSource{}
	for rows.Next() {
		var s core.ExpenseSource
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.IsRecurring, &s.IsActive); err != nil {
			return nil, fmt.Errorf("scan expense source: %w", err)
		}
		sources = append(sources, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expense sources: %w", err)
	}
	return sources, nil
}

// CreateSource inserts an active expense source.
func (r *Repository) CreateSource(ctx context.Context, s core.ExpenseSource) (core.ExpenseSource, error) {
	if err := s.Validate(); err != nil {
		return core.ExpenseSource{}, fmt.Errorf("validate expense source: %w", err)
	}
	s.Name = strings.TrimSpace(s.Name)
	s.IsActive = true

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO expense_sources (name, description, is_recurring, is_active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id`,
		s.Name, s.Description, s.IsRecurring,
	).Scan(&s.ID)
	if err != nil {
		return core.ExpenseSource{}, fmt.Errorf("create expense source: %w", err)
	}

	slog.InfoContext(ctx, "Expense source created", "source_id", s.ID, "name", s.Name)
	return s, nil
}

// UpsertExpenseEntry writes the amount for (source, month), replacing any
// previous amount and notes for that pair.
func (r *Repository) UpsertExpenseEntry(ctx context.Context, e core.ExpenseEntry) (core.ExpenseEntry, error) {
	if err := e.Validate(); err != nil {
		return core.ExpenseEntry{}, fmt.Errorf("validate expense entry: %w", err)
	}

	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO expense_entries (source_id, month, amount, notes, updated_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
		ON CONFLICT (source_id, month) DO UPDATE SET
			amount = excluded.amount,
			notes = excluded.notes,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id`,
		e.SourceID, e.Month, e.Amount.StringFixed(2), e.Notes,
	).Scan(&id)
	if err != nil {
		return core.ExpenseEntry{}, fmt.Errorf("upsert expense entry: %w", err)
	}

	saved, err := r.GetExpenseEntry(ctx, id)
	if err != nil {
		return core.ExpenseEntry{}, err
	}

	slog.InfoContext(ctx, "Expense entry saved",
		"id", saved.ID,
		"source_id", saved.SourceID,
		"month", saved.Month.String(),
		"amount", saved.Amount.String())
	return saved, nil
}

const entrySelect = `
	SELECT e.id, e.source_id, COALESCE(s.name, ''), e.month, e.amount, e.notes
	FROM expense_entries e
	LEFT JOIN expense_sources s ON s.id = e.source_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (core.ExpenseEntry, error) {
	var (
		e        core.ExpenseEntry
		sourceID sql.NullInt64
	)
	if err := row.Scan(&e.ID, &sourceID, &e.SourceName, &e.Month, &e.Amount, &e.Notes); err != nil {
		return core.ExpenseEntry{}, err
	}
	e.SourceID = sourceID.Int64
	return e, nil
}

// GetExpenseEntry loads one entry with its source name.
func (r *Repository) GetExpenseEntry(ctx context.Context, id int64) (core.ExpenseEntry, error) {
	e, err := scanEntry(r.db.QueryRowContext(ctx, entrySelect+` WHERE e.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.ExpenseEntry{}, fmt.Errorf("expense entry %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.ExpenseEntry{}, fmt.Errorf("get expense entry %d: %w", id, err)
	}
	return e, nil
}

// ListExpenseEntries returns entries for months on or after since, newest
// month first.
func (r *Repository) ListExpenseEntries(ctx context.Context, since core.Month) ([]core.ExpenseEntry, error) {
	rows, err := r.db.QueryContext(ctx, entrySelect+`
		WHERE e.month >= $1
		ORDER BY e.month DESC, e.id`, since)
	if err != nil {
		return nil, fmt.Errorf("list expense entries: %w", err)
	}
	defer rows.Close()

	var entries []core.ExpenseEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expense entries: %w", err)
	}
	return entries, nil
}
