package metrics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/avrm/opsdash/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func num(f float64) *float64 { return &f }

func nights(n int) *int { return &n }

func listingWithStatus(status *string) core.Listing {
	return core.Listing{VerificationStatus: status}
}

func TestEnrichment(t *testing.T) {
	t.Run("one of each status", func(t *testing.T) {
		got := Enrichment([]core.Listing{
			listingWithStatus(str("Verified")),
			listingWithStatus(str("Not Found")),
			listingWithStatus(str("")),
		})

		assert.Equal(t, 3, got.TotalListings)
		assert.Equal(t, 1, got.AddressVerified)
		assert.Equal(t, 1, got.AddressNotFound)
		assert.Equal(t, 1, got.AddressPending)
		assert.Equal(t, 33, got.VerificationCompletionPercent)
	})

	t.Run("empty set yields zeros", func(t *testing.T) {
		got := Enrichment(nil)
		assert.Equal(t, core.EnrichmentMetrics{}, got)
	})

	t.Run("counts always add up", func(t *testing.T) {
		statuses := []*string{nil, str("Verified"), str("Unverified"), str("Not Found"), str("weird"), str("Verified"), nil}
		var listings []core.Listing
		for i, s := range statuses {
			l := listingWithStatus(s)
			if i%2 == 0 {
				l.ExportStatus = str("Exported")
			}
			listings = append(listings, l)
		}

		got := Enrichment(listings)
		assert.Equal(t, got.TotalListings, got.AddressVerified+got.AddressNotFound+got.AddressPending)
		assert.Equal(t, 2, got.AddressVerified)
		assert.Equal(t, 4, got.TotalExported)
		assert.Equal(t, 29, got.VerificationCompletionPercent)
		assert.Equal(t, 57, got.ExportRatePercent)
	})
}

func TestPercent(t *testing.T) {
	tests := []struct {
		part, total, want int
	}{
		{0, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{1, 8, 13},
		{5, 5, 100},
	}
	for _, tt := range tests {
		if got := Percent(tt.part, tt.total); got != tt.want {
			t.Errorf("Percent(%d, %d) = %d, want %d", tt.part, tt.total, got, tt.want)
		}
	}
}

func TestHosting_ConfirmedOnly(t *testing.T) {
	got := Hosting(HostingInput{
		Reservations: []core.Reservation{
			{ListingID: 1, ListingName: "Beach House", Status: "confirmed", PMCommissionAmount: num(100), TotalPrice: num(300), Nights: nights(3)},
			{ListingID: 1, ListingName: "Beach House", Status: "cancelled", PMCommissionAmount: num(999), TotalPrice: num(5000), Nights: nights(1)},
			{ListingID: 1, ListingName: "Beach House", Status: "pending", PMCommissionAmount: num(50), TotalPrice: num(100), Nights: nights(2)},
		},
	})

	require.Len(t, got.Properties, 1)
	p := got.Properties[0]
	assert.Equal(t, "1", p.PropertyID)
	assert.Equal(t, "Beach House", p.PropertyName)
	assert.Equal(t, 100.0, p.PMCommission)
	assert.Equal(t, 1, p.BookingsCount)
	assert.Equal(t, 100.0, p.AvgNightlyRate)
	assert.True(t, p.IncludeInMetrics)

	assert.Equal(t, 1, got.ActiveProperties)
	assert.Equal(t, 1, got.TotalBookings)
	assert.Equal(t, 100.0, got.TotalPMCommission)
}

func TestHosting_DefaultInclude(t *testing.T) {
	reservations := []core.Reservation{
		{ListingID: 1, ListingName: "Included by default", Status: "confirmed", PMCommissionAmount: num(10), TotalPrice: num(100), Nights: nights(1)},
		{ListingID: 2, ListingName: "Excluded", Status: "confirmed", PMCommissionAmount: num(20), TotalPrice: num(100), Nights: nights(1)},
		{ListingID: 3, ListingName: "Explicitly included", Status: "confirmed", PMCommissionAmount: num(30), TotalPrice: num(100), Nights: nights(1)},
	}
	settings := []core.PropertySetting{
		{ID: "2", IncludeInMetrics: false},
		{ID: "3", IncludeInMetrics: true},
	}

	got := Hosting(HostingInput{Reservations: reservations, Settings: settings})

	var ids []string
	for _, p := range got.Properties {
		ids = append(ids, p.PropertyID)
	}
	assert.Equal(t, []string{"1", "3"}, ids)
	assert.Equal(t, 40.0, got.TotalPMCommission)
	assert.Equal(t, 2, got.TotalBookings)
}

func TestHosting_NoConfirmedBookings(t *testing.T) {
	got := Hosting(HostingInput{
		Reservations: []core.Reservation{
			{ListingID: 9, Status: "cancelled", PMCommissionAmount: num(500)},
		},
		Settings: []core.PropertySetting{{ID: "9", Name: "Cached Name", IncludeInMetrics: true}},
	})

	require.Len(t, got.Properties, 1)
	p := got.Properties[0]
	assert.Equal(t, "Cached Name", p.PropertyName)
	assert.Zero(t, p.AvgNightlyRate)
	assert.Zero(t, p.PMCommission)
	assert.Zero(t, got.TotalBookings)
}

func TestHosting_ZeroNightsDoNotDivide(t *testing.T) {
	got := Hosting(HostingInput{
		Reservations: []core.Reservation{
			{ListingID: 4, Status: "confirmed", PMCommissionAmount: num(10), TotalPrice: num(200), Nights: nights(2)},
			{ListingID: 4, Status: "confirmed", PMCommissionAmount: num(10), TotalPrice: num(200), Nights: nights(0)},
			{ListingID: 4, Status: "confirmed", PMCommissionAmount: num(10), TotalPrice: num(200)},
		},
	})

	p := got.Properties[0]
	assert.Equal(t, 3, p.BookingsCount)
	assert.InDelta(t, 100.0/3, p.AvgNightlyRate, 1e-9)
}

func TestHosting_OccupancyAndReviews(t *testing.T) {
	got := Hosting(HostingInput{
		Reservations: []core.Reservation{
			{ListingID: 1, Status: "confirmed", TotalPrice: num(1000), Nights: nights(10)},
			{ListingID: 2, Status: "confirmed", TotalPrice: num(2000), Nights: nights(200)},
		},
		Reviews: []core.Review{
			{ListingID: 1, Rating: num(5)},
			{ListingID: 1, Rating: num(4)},
			{ListingID: 1, Rating: nil},
			{ListingID: 2, Rating: num(0)},
		},
		WindowDays: 100,
	})

	require.Len(t, got.Properties, 2)
	assert.Equal(t, 10.0, got.Properties[0].OccupancyRate)
	assert.Equal(t, 4.5, got.Properties[0].AvgReviewRating)
	assert.Equal(t, 100.0, got.Properties[1].OccupancyRate)
	assert.Zero(t, got.Properties[1].AvgReviewRating)

	assert.Equal(t, 55.0, got.AvgOccupancy)
	assert.Equal(t, 2.25, got.AvgReviewScore)
}

func TestHosting_Empty(t *testing.T) {
	got := Hosting(HostingInput{})

	assert.Zero(t, got.ActiveProperties)
	assert.Zero(t, got.AvgOccupancy)
	assert.Zero(t, got.AvgReviewScore)
	assert.NotNil(t, got.Properties)

	out, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"properties":[]`)
}

func TestRevenue(t *testing.T) {
	got := Revenue(core.HostingMetrics{TotalPMCommission: 2400, ActiveProperties: 3})
	assert.Equal(t, core.RevenueSummary{TTMRevenue: 2400, MonthlyAvg: 200, PropertyCount: 3}, got)
}

func TestFunnel(t *testing.T) {
	listings := []core.Listing{
		{VerificationStatus: str("Verified"), AnnualRevenueGap: num(1500)},
		{VerificationStatus: str("Verified"), ExportStatus: str("Exported"), AnnualRevenueGap: num(2000)},
		{VerificationStatus: str("Not Found"), AnnualRevenueGap: num(9999)},
		{ExportStatus: str("Exported")},
	}
	crm := []core.StageCount{
		{Name: StageHotLead, Count: 28, Value: "$196K"},
		{Name: "Non-Responsive", Count: 15},
	}

	got := Funnel(listings, crm)

	require.Len(t, got, 7)
	var names []string
	for _, s := range got {
		names = append(names, s.Name)
	}
	assert.Equal(t, StageNames(), names)

	assert.Equal(t, core.FunnelStage{Name: StageAddressVerified, Count: 2, Value: "$4K", Color: "#3b82f6"}, got[0])
	assert.Equal(t, core.FunnelStage{Name: StageExported, Count: 2, Value: "$2K", Color: "#10b981"}, got[1])
	assert.Equal(t, core.FunnelStage{Name: StageNewLead, Count: 0, Value: "$0K", Color: "#8b5cf6"}, got[2])
	assert.Equal(t, core.FunnelStage{Name: StageHotLead, Count: 28, Value: "$196K", Color: "#f59e0b"}, got[3])
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "$0K", FormatThousands(0))
	assert.Equal(t, "$3K", FormatThousands(2500))
	assert.Equal(t, "$315K", FormatThousands(314_600))
	assert.Equal(t, "$2000/mo", FormatMonthly(24_000))
	assert.Equal(t, "$0/mo", FormatMonthly(0))
}

func TestLeads(t *testing.T) {
	listings := []core.Listing{
		{RecordID: "recLow", OpportunityScore: num(10), VerificationStatus: str("Verified"), VerifiedAddress: str("1 Low St"), AnnualRevenueGap: num(1200)},
		{RecordID: "recNone"},
		{RecordID: "recHigh", OpportunityScore: num(90), ExportStatus: str("Exported"), VerificationStatus: str("Verified"), OwnerContacts: []string{"recMissing", "recOwner"}},
	}
	owners := map[string]core.Owner{
		"recOwner": {RecordID: "recOwner", FirstName: str("Grace"), LastName: str("Hopper")},
	}

	got := Leads(listings, owners)

	require.Len(t, got, 3)
	assert.Equal(t, core.Lead{ID: "recHigh", PropertyAddress: "Unknown", OwnerName: "Grace Hopper", OpportunityScore: 90, Stage: "Exported", EstimatedValue: "$0/mo"}, got[0])
	assert.Equal(t, core.Lead{ID: "recLow", PropertyAddress: "1 Low St", OwnerName: "Unknown", OpportunityScore: 10, Stage: "Verified", EstimatedValue: "$100/mo"}, got[1])
	assert.Equal(t, "recNone", got[2].ID)
	assert.Equal(t, "Pending", got[2].Stage)
}

func TestLeads_Capped(t *testing.T) {
	listings := make([]core.Listing, MaxLeads+20)
	for i := range listings {
		listings[i] = core.Listing{OpportunityScore: num(float64(i))}
	}
	got := Leads(listings, nil)
	require.Len(t, got, MaxLeads)
	assert.Equal(t, float64(MaxLeads+19), got[0].OpportunityScore)
}

func TestOwnerIDs(t *testing.T) {
	got := OwnerIDs([]core.Listing{
		{OwnerContacts: []string{"a", "b"}},
		{OwnerContacts: []string{"b", "", "c"}},
	})
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestWindowStart(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2023-03-01", WindowStart(now, 12).String())
	assert.Equal(t, "2024-01-01", WindowStart(now, 2).String())
	assert.Equal(t, "2023-03-01", WindowStart(now, 0).String())
}

func TestExpenses(t *testing.T) {
	amount := func(s string) core.Amount {
		a, err := core.ParseAmount(s)
		require.NoError(t, err)
		return a
	}
	since := core.NewMonth(2024, time.January)
	entries := []core.ExpenseEntry{
		{SourceID: 1, SourceName: "Software", Month: core.NewMonth(2024, time.February), Amount: amount("100.10")},
		{SourceID: 2, SourceName: "Cleaning", Month: core.NewMonth(2024, time.February), Amount: amount("50")},
		{SourceID: 1, SourceName: "Software", Month: core.NewMonth(2024, time.January), Amount: amount("100.10")},
		{SourceID: 3, Month: core.NewMonth(2024, time.January), Amount: amount("7.80")},
		{SourceID: 1, SourceName: "Software", Month: core.NewMonth(2023, time.December), Amount: amount("1000")},
	}

	got := Expenses(entries, since, 12)

	assert.Len(t, got.Entries, 4)
	assert.Equal(t, "258", got.TTMTotal.String())

	jan, ok := got.ByMonth.Get("2024-01-01")
	require.True(t, ok)
	assert.Equal(t, "107.9", jan.String())

	unknown, ok := got.BySource.Get(core.UnknownLabel)
	require.True(t, ok)
	assert.Equal(t, "7.8", unknown.String())

	out, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"byMonth":{"2024-01-01":107.9,"2024-02-01":150.1}`)
	assert.Contains(t, string(out), `"bySource":{"Cleaning":50,"Software":200.2,"Unknown":7.8}`)
	assert.Contains(t, string(out), `"ttmTotal":258`)
}

func TestExpenses_Empty(t *testing.T) {
	got := Expenses(nil, core.NewMonth(2024, time.January), 12)
	assert.True(t, got.TTMTotal.IsZero())

	out, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"entries":[]`)
	assert.Contains(t, string(out), `"byMonth":{}`)
}
