package services

import (
	"context"
	"fmt"
	"time"

	"github.com/avrm/opsdash/internal/core"
	"github.com/avrm/opsdash/internal/metrics"
	"github.com/avrm/opsdash/internal/storage"
	"github.com/avrm/opsdash/internal/upstream"
)

// Record caps for CRM reads.
const (
	FullScanMaxRecords = 10000
	TableMaxRecords    = 100
)

// DashboardService computes the read-only dashboard widgets. Every call
// recomputes from a fresh upstream snapshot.
type DashboardService struct {
	listings     upstream.ListingReader
	owners       upstream.OwnerReader
	reservations upstream.ReservationReader
	reviews      upstream.ReviewReader
	stages       upstream.StageSource
	settings     storage.PropertySettingsStore
	now          func() time.Time
}

// DashboardDeps are the collaborators DashboardService reads from.
type DashboardDeps struct {
	Listings     upstream.ListingReader
	Owners       upstream.OwnerReader
	Reservations upstream.ReservationReader
	Reviews      upstream.ReviewReader
	Stages       upstream.StageSource
	Settings     storage.PropertySettingsStore
}

func NewDashboardService(d DashboardDeps) *DashboardService {
	return &DashboardService{
		listings:     d.Listings,
		owners:       d.Owners,
		reservations: d.Reservations,
		reviews:      d.Reviews,
		stages:       d.Stages,
		settings:     d.Settings,
		now:          time.Now,
	}
}

func (s *DashboardService) Enrichment(ctx context.Context) (core.EnrichmentMetrics, error) {
	listings, err := s.listings.Listings(ctx, upstream.Query{
		MaxRecords: FullScanMaxRecords,
		Fields:     []string{core.FieldVerificationStatus, core.FieldExportStatus},
	})
	if err != nil {
		return core.EnrichmentMetrics{}, err
	}
	return metrics.Enrichment(listings), nil
}

// TopListings returns the highest scoring listings.
func (s *DashboardService) TopListings(ctx context.Context) ([]core.Listing, error) {
	return s.listings.Listings(ctx, upstream.Query{
		MaxRecords: TableMaxRecords,
		Sort:       []upstream.SortField{{Field: core.FieldOpportunityScore, Direction: "desc"}},
	})
}

func (s *DashboardService) Owners(ctx context.Context) ([]core.Owner, error) {
	return s.owners.Owners(ctx, upstream.Query{MaxRecords: TableMaxRecords})
}

// Hosting aggregates the trailing twelve months of reservations.
func (s *DashboardService) Hosting(ctx context.Context) (core.HostingMetrics, error) {
	now := s.now()
	since := now.AddDate(-1, 0, 0)

	reservations, err := s.reservations.Reservations(ctx, since)
	if err != nil {
		return core.HostingMetrics{}, err
	}
	settings, err := s.settings.ListPropertySettings(ctx)
	if err != nil {
		return core.HostingMetrics{}, err
	}
	reviews, err := s.reviews.Reviews(ctx)
	if err != nil {
		return core.HostingMetrics{}, err
	}

	return metrics.Hosting(metrics.HostingInput{
		Reservations: reservations,
		Settings:     settings,
		Reviews:      reviews,
		WindowDays:   calendarDays(since, now),
	}), nil
}

// calendarDays counts days between the calendar dates of from and to,
// ignoring clock offsets.
func calendarDays(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

func (s *DashboardService) Revenue(ctx context.Context) (core.RevenueSummary, error) {
	h, err := s.Hosting(ctx)
	if err != nil {
		return core.RevenueSummary{}, err
	}
	return metrics.Revenue(h), nil
}

func (s *DashboardService) Funnel(ctx context.Context) ([]core.FunnelStage, error) {
	listings, err := s.listings.Listings(ctx, upstream.Query{
		MaxRecords: FullScanMaxRecords,
		Fields:     []string{core.FieldVerificationStatus, core.FieldExportStatus, core.FieldAnnualRevenueGap},
	})
	if err != nil {
		return nil, err
	}
	crm, err := s.stages.StageCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("pipeline stages: %w", err)
	}
	return metrics.Funnel(listings, crm), nil
}

// Leads ranks the top listings and names their owners.
func (s *DashboardService) Leads(ctx context.Context) ([]core.Lead, error) {
	listings, err := s.listings.Listings(ctx, upstream.Query{
		MaxRecords: metrics.MaxLeads,
		Sort:       []upstream.SortField{{Field: core.FieldOpportunityScore, Direction: "desc"}},
		Fields: []string{
			core.FieldListingID,
			core.FieldVerifiedAddress,
			core.FieldVerificationStatus,
			core.FieldOpportunityScore,
			core.FieldAnnualRevenueGap,
			core.FieldExportStatus,
			core.FieldOwnerContact,
		},
	})
	if err != nil {
		return nil, err
	}

	owners := map[string]core.Owner{}
	if ids := metrics.OwnerIDs(listings); len(ids) > 0 {
		found, err := s.owners.Owners(ctx, upstream.Query{
			RecordIDs:  ids,
			MaxRecords: len(ids),
			Fields:     []string{core.FieldFirstName, core.FieldLastName},
		})
		if err != nil {
			return nil, fmt.Errorf("resolve owners: %w", err)
		}
		for _, o := range found {
			owners[o.RecordID] = o
		}
	}
	return metrics.Leads(listings, owners), nil
}
