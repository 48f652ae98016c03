// Package upstream defines the read-only collaborators backed by external
// SaaS APIs.
package upstream

import (
	"context"
	"time"

	"github.com/avrm/opsdash/internal/core"
)

// SortField orders CRM records.
type SortField struct {
	Field     string
	Direction string // "asc" or "desc"
}

// Query narrows a CRM table read.
type Query struct {
	Fields     []string
	MaxRecords int
	Sort       []SortField
	Formula    string
	// RecordIDs restricts the read to these records. Ignored when Formula
	// is set.
	RecordIDs []string
}

// ListingReader reads CRM listings.
type ListingReader interface {
	Listings(ctx context.Context, q Query) ([]core.Listing, error)
}

// OwnerReader reads CRM owners.
type OwnerReader interface {
	Owners(ctx context.Context, q Query) ([]core.Owner, error)
}

// ReservationReader reads PMS reservations arriving on or after since.
type ReservationReader interface {
	Reservations(ctx context.Context, since time.Time) ([]core.Reservation, error)
}

// PropertyLister lists PMS listings.
type PropertyLister interface {
	Properties(ctx context.Context) ([]core.HostawayListing, error)
}

// ReviewReader reads PMS guest reviews.
type ReviewReader interface {
	Reviews(ctx context.Context) ([]core.Review, error)
}

// ContactReader reads marketing CRM contacts.
type ContactReader interface {
	Contacts(ctx context.Context, limit int) ([]core.Contact, error)
}

// StageSource provides marketing CRM pipeline stage totals.
type StageSource interface {
	StageCounts(ctx context.Context) ([]core.StageCount, error)
}

// Unavailable stands in for a collaborator that could not be constructed.
// Every call returns the construction error.
type Unavailable struct {
	Err error
}

var (
	_ ListingReader     = Unavailable{}
	_ OwnerReader       = Unavailable{}
	_ ReservationReader = Unavailable{}
	_ PropertyLister    = Unavailable{}
	_ ReviewReader      = Unavailable{}
	_ ContactReader     = Unavailable{}
	_ StageSource       = Unavailable{}
)

func (u Unavailable) Listings(context.Context, Query) ([]core.Listing, error) {
	return nil, u.Err
}

func (u Unavailable) Owners(context.Context, Query) ([]core.Owner, error) {
	return nil, u.Err
}

func (u Unavailable) Reservations(context.Context, time.Time) ([]core.Reservation, error) {
	return nil, u.Err
}

func (u Unavailable) Properties(context.Context) ([]core.HostawayListing, error) {
	return nil, u.Err
}

func (u Unavailable) Reviews(context.Context) ([]core.Review, error) {
	return nil, u.Err
}

func (u Unavailable) Contacts(context.Context, int) ([]core.Contact, error) {
	return nil, u.Err
}

func (u Unavailable) StageCounts(context.Context) ([]core.StageCount, error) {
	return nil, u.Err
}
