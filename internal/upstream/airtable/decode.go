package airtable

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/avrm/opsdash/internal/core"
)

func toListing(r record) core.Listing {
	f := fields(r.Fields)
	return core.Listing{
		RecordID:           r.ID,
		ListingID:          f.text(core.FieldListingID),
		VerifiedAddress:    f.text(core.FieldVerifiedAddress),
		VerificationStatus: f.text(core.FieldVerificationStatus),
		ExportStatus:       f.text(core.FieldExportStatus),
		ExportDate:         f.text(core.FieldExportDate),
		OpportunityScore:   f.num(core.FieldOpportunityScore),
		AnnualRevenueGap:   f.num(core.FieldAnnualRevenueGap),
		Bedrooms:           f.num(core.FieldBedrooms),
		TTMRevenue:         f.num(core.FieldTTMRevenue),
		TTMAvgRate:         f.num(core.FieldTTMAvgRate),
		TTMOccupancy:       f.num(core.FieldTTMOccupancy),
		StarRating:         f.num(core.FieldStarRating),
		SkipTraceStatus:    f.text(core.FieldSkipTraceStatus),
		OwnerContacts:      f.list(core.FieldOwnerContact),
	}
}

func toOwner(r record) core.Owner {
	f := fields(r.Fields)
	return core.Owner{
		RecordID:        r.ID,
		OwnerID:         f.text(core.FieldOwnerID),
		FirstName:       f.text(core.FieldFirstName),
		LastName:        f.text(core.FieldLastName),
		BestPhone:       f.text(core.FieldBestPhone),
		BestEmail:       f.text(core.FieldBestEmail),
		GHLContactID:    f.text(core.FieldGHLContactID),
		Listings:        f.list(core.FieldOwnerListings),
		TotalProperties: f.num(core.FieldTotalProperties),
	}
}

// fields decodes loosely typed cell values. The base is user-editable, so a
// cell may be missing, null, a lookup array or a different scalar type than
// expected; anything unreadable is treated as absent.
type fields map[string]json.RawMessage

func (f fields) text(name string) *string {
	raw, ok := f[name]
	if !ok || isNull(raw) {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return &list[0]
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		v := n.String()
		return &v
	}
	return nil
}

func (f fields) num(name string) *float64 {
	raw, ok := f[name]
	if !ok || isNull(raw) {
		return nil
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n
	}

	var list []float64
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return &list[0]
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		cleaned := strings.NewReplacer("$", "", ",", "", "%", "").Replace(strings.TrimSpace(s))
		if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return &v
		}
	}
	return nil
}

func (f fields) list(name string) []string {
	raw, ok := f[name]
	if !ok || isNull(raw) {
		return nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	if s := f.text(name); s != nil && *s != "" {
		return []string{*s}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}
