package services

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avrm/opsdash/internal/core"
)

func newDashboard(up *fakeUpstream, settings *fakeSettingsStore) *DashboardService {
	svc := NewDashboardService(DashboardDeps{
		Listings:     up,
		Owners:       up,
		Reservations: up,
		Reviews:      up,
		Stages:       up,
		Settings:     settings,
	})
	svc.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestDashboardService_Enrichment(t *testing.T) {
	up := &fakeUpstream{listings: []core.Listing{
		{VerificationStatus: ptr("Verified")},
		{VerificationStatus: ptr("Not Found")},
		{VerificationStatus: ptr("")},
	}}

	m, err := newDashboard(up, &fakeSettingsStore{}).Enrichment(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, m.AddressVerified)
	assert.Equal(t, 33, m.VerificationCompletionPercent)
	require.Len(t, up.queries, 1)
	assert.Equal(t, FullScanMaxRecords, up.queries[0].MaxRecords)
}

func TestDashboardService_HostingUsesTrailingYear(t *testing.T) {
	up := &fakeUpstream{reservations: []core.Reservation{
		{ListingID: 1, ListingName: "Loft", Status: "confirmed", PMCommissionAmount: ptr(100.0), TotalPrice: ptr(300.0), Nights: ptr(3)},
		{ListingID: 1, Status: "cancelled", PMCommissionAmount: ptr(999.0)},
		{ListingID: 2, Status: "confirmed", PMCommissionAmount: ptr(50.0)},
	}}
	settings := &fakeSettingsStore{settings: []core.PropertySetting{{ID: "2", IncludeInMetrics: false}}}

	m, err := newDashboard(up, settings).Hosting(context.Background())
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), up.since)
	assert.Equal(t, 1, m.ActiveProperties)
	assert.Equal(t, 100.0, m.TotalPMCommission)
	assert.Equal(t, 1, m.TotalBookings)
	require.Len(t, m.Properties, 1)
	assert.Equal(t, 100.0, m.Properties[0].AvgNightlyRate)
}

func TestDashboardService_Revenue(t *testing.T) {
	up := &fakeUpstream{reservations: []core.Reservation{
		{ListingID: 1, Status: "confirmed", PMCommissionAmount: ptr(1200.0)},
	}}

	r, err := newDashboard(up, &fakeSettingsStore{}).Revenue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.RevenueSummary{TTMRevenue: 1200, MonthlyAvg: 100, PropertyCount: 1}, r)
}

func TestDashboardService_Funnel(t *testing.T) {
	up := &fakeUpstream{
		listings: []core.Listing{
			{VerificationStatus: ptr("Verified"), AnnualRevenueGap: ptr(1500.0)},
			{VerificationStatus: ptr("Verified"), ExportStatus: ptr("Exported"), AnnualRevenueGap: ptr(2600.0)},
		},
		stages: []core.StageCount{{Name: "New Lead", Count: 4, Value: "$28K"}},
	}

	stages, err := newDashboard(up, &fakeSettingsStore{}).Funnel(context.Background())
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(stages), 3)
	assert.Equal(t, core.FunnelStage{Name: "Address Verified", Count: 2, Value: "$4K", Color: "#3b82f6"}, stages[0])
	assert.Equal(t, 1, stages[1].Count)
	assert.Equal(t, "$3K", stages[1].Value)
	assert.Equal(t, "$28K", stages[2].Value)
}

func TestDashboardService_LeadsResolvesOwners(t *testing.T) {
	up := &fakeUpstream{
		listings: []core.Listing{
			{RecordID: "rec1", OpportunityScore: ptr(90.0), OwnerContacts: []string{"own1"}, AnnualRevenueGap: ptr(12000.0)},
			{RecordID: "rec2", OpportunityScore: ptr(70.0)},
		},
		owners: []core.Owner{{RecordID: "own1", FirstName: ptr("Ada"), LastName: ptr("Lovelace")}},
	}

	leads, err := newDashboard(up, &fakeSettingsStore{}).Leads(context.Background())
	require.NoError(t, err)

	require.Len(t, leads, 2)
	assert.Equal(t, "Ada Lovelace", leads[0].OwnerName)
	assert.Equal(t, "$1000/mo", leads[0].EstimatedValue)
	assert.Equal(t, core.UnknownLabel, leads[1].OwnerName)
	require.Len(t, up.ownerQueries, 1)
	assert.Equal(t, []string{"own1"}, up.ownerQueries[0].RecordIDs)
}

func TestDashboardService_LeadsSkipOwnerLookup(t *testing.T) {
	up := &fakeUpstream{listings: []core.Listing{{RecordID: "rec1"}}}

	_, err := newDashboard(up, &fakeSettingsStore{}).Leads(context.Background())
	require.NoError(t, err)
	assert.Empty(t, up.ownerQueries)
}

func TestDashboardService_UpstreamFailure(t *testing.T) {
	up := &fakeUpstream{err: &core.UpstreamError{Service: "Airtable", StatusCode: 503, Status: "503 Service Unavailable"}}
	svc := newDashboard(up, &fakeSettingsStore{})

	_, err := svc.Enrichment(context.Background())
	var upErr *core.UpstreamError
	assert.True(t, errors.As(err, &upErr))

	_, err = svc.Hosting(context.Background())
	assert.Error(t, err)
}

func TestCalendarDaysAcrossDaylightSaving(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	now := time.Date(2025, 3, 9, 12, 0, 0, 0, ny)
	since := now.AddDate(-1, 0, 0)
	require.Less(t, now.Sub(since), 365*24*time.Hour)

	assert.Equal(t, 365, calendarDays(since, now))
	assert.Equal(t, 366, calendarDays(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
}
