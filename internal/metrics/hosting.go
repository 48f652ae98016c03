package metrics

import (
	"math"

	"github.com/avrm/opsdash/internal/core"
)

// DefaultWindowDays is the trailing reservation window used for occupancy.
const DefaultWindowDays = 365

// HostingInput bundles what the hosting aggregation reads.
type HostingInput struct {
	Reservations []core.Reservation
	Settings     []core.PropertySetting
	Reviews      []core.Review
	// WindowDays is the number of nights available per listing in the
	// reservation window. Zero means DefaultWindowDays.
	WindowDays int
}

type propertyAccumulator struct {
	metrics core.PropertyMetrics
	rateSum float64
	nights  int
}

// Hosting aggregates reservations per included listing.
//
// A listing without a setting row is included. Only confirmed reservations
// add to commission, bookings, nights and the nightly-rate sum; a listing
// whose reservations are all non-confirmed still appears with zeros.
// Properties keep the order in which their first reservation was seen.
func Hosting(in HostingInput) core.HostingMetrics {
	windowDays := in.WindowDays
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	settings := make(map[string]core.PropertySetting, len(in.Settings))
	for _, s := range in.Settings {
		settings[s.ID] = s
	}
	included := func(id string) bool {
		s, ok := settings[id]
		return !ok || s.IncludeInMetrics
	}

	ratings := make(map[string][]float64)
	for _, r := range in.Reviews {
		if rating := core.Float(r.Rating); rating > 0 {
			ratings[r.ListingKey()] = append(ratings[r.ListingKey()], rating)
		}
	}

	var order []string
	acc := make(map[string]*propertyAccumulator)
	totalBookings := 0

	for _, res := range in.Reservations {
		id := res.ListingKey()
		if !included(id) {
			continue
		}

		p, ok := acc[id]
		if !ok {
			name := res.ListingName
			if name == "" {
				name = settings[id].Name
			}
			p = &propertyAccumulator{metrics: core.PropertyMetrics{
				PropertyID:       id,
				PropertyName:     name,
				IncludeInMetrics: true,
			}}
			acc[id] = p
			order = append(order, id)
		}

		if !res.IsConfirmed() {
			continue
		}
		totalBookings++
		p.metrics.PMCommission += core.Float(res.PMCommissionAmount)
		p.metrics.BookingsCount++
		if res.Nights != nil && *res.Nights > 0 {
			p.rateSum += core.Float(res.TotalPrice) / float64(*res.Nights)
			p.nights += *res.Nights
		}
	}

	out := core.HostingMetrics{
		TotalBookings: totalBookings,
		Properties:    make([]core.PropertyMetrics, 0, len(order)),
	}

	var occupancies, reviewScores []float64
	for _, id := range order {
		p := acc[id]
		m := p.metrics
		if m.BookingsCount > 0 {
			m.AvgNightlyRate = p.rateSum / float64(m.BookingsCount)
		}
		m.OccupancyRate = math.Min(100, round1(100*float64(p.nights)/float64(windowDays)))
		m.AvgReviewRating = round1(mean(ratings[id]))

		out.TotalPMCommission += m.PMCommission
		occupancies = append(occupancies, m.OccupancyRate)
		reviewScores = append(reviewScores, m.AvgReviewRating)
		out.Properties = append(out.Properties, m)
	}

	out.ActiveProperties = len(out.Properties)
	out.AvgOccupancy = mean(occupancies)
	out.AvgReviewScore = mean(reviewScores)
	return out
}

// Revenue derives the management revenue summary from hosting metrics.
func Revenue(h core.HostingMetrics) core.RevenueSummary {
	return core.RevenueSummary{
		TTMRevenue:    h.TotalPMCommission,
		MonthlyAvg:    h.TotalPMCommission / 12,
		PropertyCount: h.ActiveProperties,
	}
}
