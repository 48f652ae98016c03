package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/avrm/opsdash/internal/amqp"
	"github.com/avrm/opsdash/internal/core"
	"github.com/avrm/opsdash/internal/upstream"
)

type fakeExpenseStore struct {
	mu      sync.Mutex
	sources []core.ExpenseSource
	entries []core.ExpenseEntry
	since   core.Month
	failOn  string
	closed  bool
}

func (f *fakeExpenseStore) ListActiveSources(context.Context) ([]core.ExpenseSource, error) {
	return f.sources, nil
}

func (f *fakeExpenseStore) CreateSource(_ context.Context, s core.ExpenseSource) (core.ExpenseSource, error) {
	s.ID = int64(len(f.sources) + 1)
	s.IsActive = true
	f.sources = append(f.sources, s)
	return s, nil
}

func (f *fakeExpenseStore) UpsertExpenseEntry(_ context.Context, e core.ExpenseEntry) (core.ExpenseEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "upsert" {
		return core.ExpenseEntry{}, errors.New("disk full")
	}
	for i, existing := range f.entries {
		if existing.SourceID == e.SourceID && existing.Month == e.Month {
			e.ID = existing.ID
			f.entries[i] = e
			return e, nil
		}
	}
	e.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, e)
	return e, nil
}

func (f *fakeExpenseStore) GetExpenseEntry(_ context.Context, id int64) (core.ExpenseEntry, error) {
	for _, e := range f.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return core.ExpenseEntry{}, core.ErrNotFound
}

func (f *fakeExpenseStore) ListExpenseEntries(_ context.Context, since core.Month) ([]core.ExpenseEntry, error) {
	f.since = since
	return f.entries, nil
}

func (f *fakeExpenseStore) Close() error {
	f.closed = true
	return nil
}

type fakePublisher struct {
	msgs   []*amqp.ExpenseEntryMessage
	err    error
	closed bool
}

func (p *fakePublisher) PublishEntryUpserted(_ context.Context, msg *amqp.ExpenseEntryMessage) error {
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *fakePublisher) Close() error {
	p.closed = true
	return nil
}

type fakeSettingsStore struct {
	settings []core.PropertySetting
	synced   []core.HostawayListing
	syncedAt time.Time
}

func (f *fakeSettingsStore) ListPropertySettings(context.Context) ([]core.PropertySetting, error) {
	return f.settings, nil
}

func (f *fakeSettingsStore) UpsertPropertySetting(_ context.Context, id, name string, include bool) (core.PropertySetting, error) {
	s := core.PropertySetting{ID: id, Name: name, IncludeInMetrics: include}
	f.settings = append(f.settings, s)
	return s, nil
}

func (f *fakeSettingsStore) SyncProperties(_ context.Context, listings []core.HostawayListing, at time.Time) (int, error) {
	f.synced = listings
	f.syncedAt = at
	return len(listings), nil
}

// fakeUpstream serves canned records for every upstream port.
type fakeUpstream struct {
	listings     []core.Listing
	owners       []core.Owner
	reservations []core.Reservation
	properties   []core.HostawayListing
	reviews      []core.Review
	stages       []core.StageCount
	err          error

	queries      []upstream.Query
	ownerQueries []upstream.Query
	since        time.Time
}

func (f *fakeUpstream) Listings(_ context.Context, q upstream.Query) ([]core.Listing, error) {
	f.queries = append(f.queries, q)
	return f.listings, f.err
}

func (f *fakeUpstream) Owners(_ context.Context, q upstream.Query) ([]core.Owner, error) {
	f.ownerQueries = append(f.ownerQueries, q)
	return f.owners, f.err
}

func (f *fakeUpstream) Reservations(_ context.Context, since time.Time) ([]core.Reservation, error) {
	f.since = since
	return f.reservations, f.err
}

func (f *fakeUpstream) Properties(context.Context) ([]core.HostawayListing, error) {
	return f.properties, f.err
}

func (f *fakeUpstream) Reviews(context.Context) ([]core.Review, error) {
	return f.reviews, f.err
}

func (f *fakeUpstream) StageCounts(context.Context) ([]core.StageCount, error) {
	return f.stages, f.err
}

func ptr[T any](v T) *T { return &v }
