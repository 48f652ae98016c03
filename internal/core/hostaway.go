package core

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// FlexBool decodes JSON booleans as well as the 0/1 integers some
// Hostaway endpoints return.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	switch string(data) {
	case "true", "1":
		*b = true
	case "false", "0", "null", "":
		*b = false
	default:
		var v bool
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*b = FlexBool(v)
	}
	return nil
}

// HostawayListing is a property managed on the PMS.
type HostawayListing struct {
	ID                  int64    `json:"id"`
	Name                string   `json:"name"`
	InternalListingName string   `json:"internalListingName"`
	Status              string   `json:"status,omitempty"`
	IsActive            FlexBool `json:"isActive"`
	Currency            string   `json:"currency,omitempty"`
}

// Key is the listing id as stored in property settings.
func (l HostawayListing) Key() string {
	return strconv.FormatInt(l.ID, 10)
}

// DisplayName prefers the public name over the internal one.
func (l HostawayListing) DisplayName() string {
	if l.Name != "" {
		return l.Name
	}
	return l.InternalListingName
}

// Reservation is a booking on the PMS.
type Reservation struct {
	ID                      int64    `json:"id"`
	ListingID               int64    `json:"listingId"`
	ListingName             string   `json:"listingName"`
	Status                  string   `json:"status"`
	ChannelCommissionAmount *float64 `json:"channelCommissionAmount"`
	PMCommissionAmount      *float64 `json:"pmCommissionAmount"`
	ArrivalDate             string   `json:"arrivalDate"`
	DepartureDate           string   `json:"departureDate"`
	GuestName               string   `json:"guestName,omitempty"`
	TotalPrice              *float64 `json:"totalPrice"`
	Nights                  *int     `json:"nights"`
}

// ListingKey is the listing id as stored in property settings.
func (r Reservation) ListingKey() string {
	return strconv.FormatInt(r.ListingID, 10)
}

// IsConfirmed reports whether the reservation contributes to revenue metrics.
func (r Reservation) IsConfirmed() bool {
	return r.Status == ReservationConfirmed
}

// Review is a guest review of a listing.
type Review struct {
	ID        int64    `json:"id"`
	ListingID int64    `json:"listingId"`
	Rating    *float64 `json:"rating"`
	Comment   string   `json:"comment,omitempty"`
	CreatedAt string   `json:"createdAt,omitempty"`
}

// ListingKey is the listing id as stored in property settings.
func (r Review) ListingKey() string {
	return strconv.FormatInt(r.ListingID, 10)
}

// PropertySetting is the first-party include/exclude flag for a listing.
type PropertySetting struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	IncludeInMetrics bool       `json:"includeInMetrics"`
	LastSynced       *time.Time `json:"lastSynced,omitempty"`
}

// PropertyView joins an upstream listing with its local setting.
type PropertyView struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	IsActive         bool   `json:"isActive"`
	IncludeInMetrics bool   `json:"includeInMetrics"`
}
