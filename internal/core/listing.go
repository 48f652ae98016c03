package core

import "strings"

// VerificationStatus is the normalised address verification outcome.
type VerificationStatus string

const (
	VerificationVerified VerificationStatus = "Verified"
	VerificationNotFound VerificationStatus = "Not Found"
	VerificationPending  VerificationStatus = "Pending"
)

// Listing is a row of the CRM "Listings" table. Every field except the
// record id may be absent upstream.
type Listing struct {
	RecordID           string   `json:"id"`
	ListingID          *string  `json:"listingId,omitempty"`
	VerifiedAddress    *string  `json:"verifiedAddress,omitempty"`
	VerificationStatus *string  `json:"verificationStatus,omitempty"`
	ExportStatus       *string  `json:"exportStatus,omitempty"`
	ExportDate         *string  `json:"exportDate,omitempty"`
	OpportunityScore   *float64 `json:"opportunityScore,omitempty"`
	AnnualRevenueGap   *float64 `json:"annualRevenueGap,omitempty"`
	Bedrooms           *float64 `json:"bedrooms,omitempty"`
	TTMRevenue         *float64 `json:"ttmRevenue,omitempty"`
	TTMAvgRate         *float64 `json:"ttmAvgRate,omitempty"`
	TTMOccupancy       *float64 `json:"ttmOccupancy,omitempty"`
	StarRating         *float64 `json:"starRating,omitempty"`
	SkipTraceStatus    *string  `json:"skipTraceStatus,omitempty"`
	OwnerContacts      []string `json:"ownerContacts,omitempty"`
}

// Verification folds the raw status into Verified, Not Found or Pending.
// Missing, empty and "Unverified" values are all Pending.
func (l Listing) Verification() VerificationStatus {
	if l.VerificationStatus == nil {
		return VerificationPending
	}
	switch *l.VerificationStatus {
	case StatusVerified:
		return VerificationVerified
	case StatusNotFound:
		return VerificationNotFound
	default:
		return VerificationPending
	}
}

// IsExported reports whether the listing has been pushed to the marketing CRM.
func (l Listing) IsExported() bool {
	return l.ExportStatus != nil && *l.ExportStatus == StatusExported
}

// RevenueGap returns the annual revenue gap, 0 when absent.
func (l Listing) RevenueGap() float64 {
	return Float(l.AnnualRevenueGap)
}

// Address returns the verified address or the unknown label.
func (l Listing) Address() string {
	if l.VerifiedAddress == nil || strings.TrimSpace(*l.VerifiedAddress) == "" {
		return UnknownLabel
	}
	return *l.VerifiedAddress
}

// Owner is a row of the CRM "Owners" table.
type Owner struct {
	RecordID        string   `json:"id"`
	OwnerID         *string  `json:"ownerId,omitempty"`
	FirstName       *string  `json:"firstName,omitempty"`
	LastName        *string  `json:"lastName,omitempty"`
	BestPhone       *string  `json:"bestPhone,omitempty"`
	BestEmail       *string  `json:"bestEmail,omitempty"`
	GHLContactID    *string  `json:"ghlContactId,omitempty"`
	Listings        []string `json:"listings,omitempty"`
	TotalProperties *float64 `json:"totalProperties,omitempty"`
}

// FullName joins the first and last name, or returns the unknown label.
func (o Owner) FullName() string {
	name := strings.TrimSpace(String(o.FirstName) + " " + String(o.LastName))
	if name == "" {
		return UnknownLabel
	}
	return name
}

// String dereferences s, returning "" for nil.
func String(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Float dereferences f, returning 0 for nil.
func Float(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
