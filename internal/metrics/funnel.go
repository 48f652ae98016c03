package metrics

import "github.com/avrm/opsdash/internal/core"

// Funnel stage names in display order.
const (
	StageAddressVerified = "Address Verified"
	StageExported        = "Exported"
	StageNewLead         = "New Lead"
	StageHotLead         = "Hot Lead"
	StageBookedMeeting   = "Booked Meeting"
	StageDelayed         = "Delayed"
	StageClosed          = "Closed"
)

type stageDef struct {
	name  string
	color string
}

// funnelStages is the fixed lead-to-close order. The first two stages are
// computed from listings, the rest come from the CRM stage source.
var funnelStages = []stageDef{
	{StageAddressVerified, "#3b82f6"},
	{StageExported, "#10b981"},
	{StageNewLead, "#8b5cf6"},
	{StageHotLead, "#f59e0b"},
	{StageBookedMeeting, "#14b8a6"},
	{StageDelayed, "#6366f1"},
	{StageClosed, "#22c55e"},
}

// StageNames returns the funnel stage names in order.
func StageNames() []string {
	names := make([]string, len(funnelStages))
	for i, s := range funnelStages {
		names[i] = s.name
	}
	return names
}

// Funnel builds the pipeline funnel. Listing stages sum the revenue gap of
// their members; CRM stages missing from crm report zero.
func Funnel(listings []core.Listing, crm []core.StageCount) []core.FunnelStage {
	var verifiedCount, exportedCount int
	var verifiedGap, exportedGap float64
	for _, l := range listings {
		if l.Verification() == core.VerificationVerified {
			verifiedCount++
			verifiedGap += l.RevenueGap()
		}
		if l.IsExported() {
			exportedCount++
			exportedGap += l.RevenueGap()
		}
	}

	byName := make(map[string]core.StageCount, len(crm))
	for _, s := range crm {
		byName[s.Name] = s
	}

	stages := make([]core.FunnelStage, 0, len(funnelStages))
	for _, def := range funnelStages {
		stage := core.FunnelStage{Name: def.name, Color: def.color}
		switch def.name {
		case StageAddressVerified:
			stage.Count = verifiedCount
			stage.Value = FormatThousands(verifiedGap)
		case StageExported:
			stage.Count = exportedCount
			stage.Value = FormatThousands(exportedGap)
		default:
			s, ok := byName[def.name]
			stage.Count = s.Count
			stage.Value = s.Value
			if !ok || stage.Value == "" {
				stage.Value = FormatThousands(0)
			}
		}
		stages = append(stages, stage)
	}
	return stages
}
