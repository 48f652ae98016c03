package metrics

import (
	"sort"

	"github.com/avrm/opsdash/internal/core"
)

// MaxLeads caps the pipeline lead table.
const MaxLeads = 100

// LeadStage derives a listing's pipeline stage. Export wins over verification.
func LeadStage(l core.Listing) string {
	switch {
	case l.IsExported():
		return core.LeadStageExported
	case l.Verification() == core.VerificationVerified:
		return core.LeadStageVerified
	default:
		return core.LeadStagePending
	}
}

// Leads ranks listings by opportunity score (highest first, missing scores
// last) and keeps the top MaxLeads. owners maps owner record ids to owners;
// the first linked owner names the lead.
func Leads(listings []core.Listing, owners map[string]core.Owner) []core.Lead {
	ranked := make([]core.Listing, len(listings))
	copy(ranked, listings)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].OpportunityScore, ranked[j].OpportunityScore
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return *a > *b
	})
	if len(ranked) > MaxLeads {
		ranked = ranked[:MaxLeads]
	}

	leads := make([]core.Lead, 0, len(ranked))
	for _, l := range ranked {
		ownerName := core.UnknownLabel
		for _, id := range l.OwnerContacts {
			if o, ok := owners[id]; ok {
				ownerName = o.FullName()
				break
			}
		}
		leads = append(leads, core.Lead{
			ID:               l.RecordID,
			PropertyAddress:  l.Address(),
			OwnerName:        ownerName,
			OpportunityScore: core.Float(l.OpportunityScore),
			Stage:            LeadStage(l),
			EstimatedValue:   FormatMonthly(l.RevenueGap()),
		})
	}
	return leads
}

// OwnerIDs collects the distinct owner record ids linked from listings, in
// first-seen order.
func OwnerIDs(listings []core.Listing) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, l := range listings {
		for _, id := range l.OwnerContacts {
			if id != "" && !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}
