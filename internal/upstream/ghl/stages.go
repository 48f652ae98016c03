package ghl

import (
	"context"

	"github.com/avrm/opsdash/internal/core"
	"github.com/avrm/opsdash/internal/upstream"
)

// PlaceholderStages serves fixed pipeline stage totals until the CRM's
// opportunities API is wired in.
//
// TODO: replace with a live source reading /opportunities/search grouped by
// pipeline stage once the pipeline ids are configured.
type PlaceholderStages struct{}

var _ upstream.StageSource = PlaceholderStages{}

var placeholderStages = []core.StageCount{
	{Name: "New Lead", Count: 45, Value: "$315K"},
	{Name: "Hot Lead", Count: 28, Value: "$196K"},
	{Name: "Booked Meeting", Count: 12, Value: "$84K"},
	{Name: "No-Show", Count: 3},
	{Name: "Delayed", Count: 8, Value: "$56K"},
	{Name: "Closed", Count: 5, Value: "$35K"},
	{Name: "Non-Responsive", Count: 15},
}

func (PlaceholderStages) StageCounts(context.Context) ([]core.StageCount, error) {
	out := make([]core.StageCount, len(placeholderStages))
	copy(out, placeholderStages)
	return out, nil
}
