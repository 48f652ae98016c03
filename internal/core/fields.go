package core

// Airtable table names.
const (
	TableListings = "Listings"
	TableOwners   = "Owners"
)

// Airtable "Listings" field names. These are the only place the CRM's
// column names appear.
const (
	FieldListingID          = "Listing ID"
	FieldVerifiedAddress    = "Address Verified"
	FieldVerificationStatus = "Address Verification Status"
	FieldExportStatus       = "GoHighLevel Export Status"
	FieldExportDate         = "Export Date"
	FieldOpportunityScore   = "Overall Opportunity Score"
	FieldAnnualRevenueGap   = "Annual Revenue Gap"
	FieldBedrooms           = "Bedrooms"
	FieldTTMRevenue         = "TTM Revenue"
	FieldTTMAvgRate         = "TTM Avg Rate"
	FieldTTMOccupancy       = "TTM Occupancy"
	FieldStarRating         = "Star Rating"
	FieldOwnerContact       = "Owner Contact"
	FieldSkipTraceStatus    = "Skip Trace Status"
)

// Airtable "Owners" field names.
const (
	FieldOwnerID         = "Owner ID"
	FieldFirstName       = "First Name"
	FieldLastName        = "Last Name"
	FieldBestPhone       = "Best Phone"
	FieldBestEmail       = "Best Email"
	FieldGHLContactID    = "GoHighLevel Contact ID"
	FieldOwnerListings   = "Listings"
	FieldTotalProperties = "Total Properties"
)

// Status values written by the enrichment pipeline.
const (
	StatusVerified = "Verified"
	StatusNotFound = "Not Found"
	StatusExported = "Exported"
)

// Reservation statuses reported by Hostaway.
const (
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"
	ReservationPending   = "pending"
)

// UnknownLabel is shown when a related record cannot be resolved.
const UnknownLabel = "Unknown"
