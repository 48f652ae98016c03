package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avrm/opsdash/internal/core"
)

// ListPropertySettings returns every stored setting ordered by name.
func (r *Repository) ListPropertySettings(ctx context.Context) ([]core.PropertySetting, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, include_in_metrics, last_synced
		FROM hostaway_properties
		ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list property settings: %w", err)
	}
	defer rows.Close()

	var settings []core.PropertySetting
	for rows.Next() {
		var (
			s      core.PropertySetting
			synced nullTime
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.IncludeInMetrics, &synced); err != nil {
			return nil, fmt.Errorf("scan property setting: %w", err)
		}
		if synced.Valid {
			t := synced.Time
			s.LastSynced = &t
		}
		settings = append(settings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate property settings: %w", err)
	}
	return settings, nil
}

// UpsertPropertySetting sets the include flag for a listing. An empty name
// keeps the cached one.
func (r *Repository) UpsertPropertySetting(ctx context.Context, id, name string, include bool) (core.PropertySetting, error) {
	if id == "" {
		return core.PropertySetting{}, errors.New("upsert property setting: empty id")
	}

	var s core.PropertySetting
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO hostaway_properties (id, name, include_in_metrics, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET
			include_in_metrics = excluded.include_in_metrics,
			name = CASE WHEN excluded.name <> '' THEN excluded.name ELSE hostaway_properties.name END,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id, name, include_in_metrics`,
		id, name, include,
	).Scan(&s.ID, &s.Name, &s.IncludeInMetrics)
	if err != nil {
		return core.PropertySetting{}, fmt.Errorf("upsert property setting %s: %w", id, err)
	}

	slog.InfoContext(ctx, "Property setting saved",
		"listing_id", s.ID,
		"include_in_metrics", s.IncludeInMetrics)
	return s, nil
}

// SyncProperties upserts one row per upstream listing, refreshing the name
// and sync time. Existing include flags are kept; new rows are included.
func (r *Repository) SyncProperties(ctx context.Context, listings []core.HostawayListing, at time.Time) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin sync: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO hostaway_properties (id, name, include_in_metrics, last_synced, updated_at)
		VALUES ($1, $2, TRUE, $3, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			last_synced = excluded.last_synced,
			updated_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return 0, fmt.Errorf("prepare sync: %w", err)
	}
	defer stmt.Close()

	synced := 0
	for _, l := range listings {
		if _, err := stmt.ExecContext(ctx, l.Key(), l.DisplayName(), at.UTC()); err != nil {
			return 0, fmt.Errorf("sync listing %s: %w", l.Key(), err)
		}
		synced++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit sync: %w", err)
	}

	slog.InfoContext(ctx, "Properties synced", "records", synced)
	return synced, nil
}

// nullTime scans timestamps returned either as time.Time or as text.
type nullTime struct {
	Time  time.Time
	Valid bool
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func (n *nullTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*n = nullTime{}
		return nil
	case time.Time:
		*n = nullTime{Time: v, Valid: true}
		return nil
	case []byte:
		return n.Scan(string(v))
	case string:
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				*n = nullTime{Time: t, Valid: true}
				return nil
			}
		}
		return fmt.Errorf("scan timestamp: unrecognised format %q", v)
	default:
		return fmt.Errorf("scan timestamp: unsupported type %T", src)
	}
}

var _ sql.Scanner = (*nullTime)(nil)
