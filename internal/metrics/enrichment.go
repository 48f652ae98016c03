package metrics

import "github.com/avrm/opsdash/internal/core"

// Enrichment counts listings by verification and export status.
// Verified + NotFound + Pending always equals TotalListings.
func Enrichment(listings []core.Listing) core.EnrichmentMetrics {
	var m core.EnrichmentMetrics
	m.TotalListings = len(listings)

	for _, l := range listings {
		switch l.Verification() {
		case core.VerificationVerified:
			m.AddressVerified++
		case core.VerificationNotFound:
			m.AddressNotFound++
		default:
			m.AddressPending++
		}
		if l.IsExported() {
			m.TotalExported++
		}
	}

	m.VerificationCompletionPercent = Percent(m.AddressVerified, m.TotalListings)
	m.ExportRatePercent = Percent(m.TotalExported, m.TotalListings)
	return m
}
