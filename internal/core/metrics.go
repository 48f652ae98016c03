package core

// EnrichmentMetrics summarises address verification and CRM export progress.
type EnrichmentMetrics struct {
	TotalListings                 int `json:"totalListings"`
	AddressVerified               int `json:"addressVerified"`
	AddressNotFound               int `json:"addressNotFound"`
	AddressPending                int `json:"addressPending"`
	VerificationCompletionPercent int `json:"verificationCompletionPercent"`
	TotalExported                 int `json:"totalExported"`
	ExportRatePercent             int `json:"exportRatePercent"`
}

// PropertyMetrics is the per-listing hosting breakdown.
type PropertyMetrics struct {
	PropertyID       string  `json:"propertyId"`
	PropertyName     string  `json:"propertyName"`
	PMCommission     float64 `json:"pmCommission"`
	OccupancyRate    float64 `json:"occupancyRate"`
	BookingsCount    int     `json:"bookingsCount"`
	AvgNightlyRate   float64 `json:"avgNightlyRate"`
	AvgReviewRating  float64 `json:"avgReviewRating"`
	IncludeInMetrics bool    `json:"includeInMetrics"`
}

// HostingMetrics aggregates PropertyMetrics across included listings.
type HostingMetrics struct {
	ActiveProperties  int               `json:"activeProperties"`
	TotalPMCommission float64           `json:"totalPmCommission"`
	AvgOccupancy      float64           `json:"avgOccupancy"`
	AvgReviewScore    float64           `json:"avgReviewScore"`
	TotalBookings     int               `json:"totalBookings"`
	Properties        []PropertyMetrics `json:"properties"`
}

// RevenueSummary is the trailing-twelve-month management revenue.
type RevenueSummary struct {
	TTMRevenue    float64 `json:"ttmRevenue"`
	MonthlyAvg    float64 `json:"monthlyAvg"`
	PropertyCount int     `json:"propertyCount"`
}

// FunnelStage is one bar of the lead-to-close funnel.
type FunnelStage struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Value string `json:"value"`
	Color string `json:"color"`
}

// StageCount is a CRM-side pipeline stage total.
type StageCount struct {
	Name  string
	Count int
	Value string
}

// Lead stages derived from a listing's enrichment state.
const (
	LeadStageExported = "Exported"
	LeadStageVerified = "Verified"
	LeadStagePending  = "Pending"
)

// Lead is a ranked prospect for the pipeline table.
type Lead struct {
	ID               string  `json:"id"`
	PropertyAddress  string  `json:"propertyAddress"`
	OwnerName        string  `json:"ownerName"`
	OpportunityScore float64 `json:"opportunityScore"`
	Stage            string  `json:"stage"`
	EstimatedValue   string  `json:"estimatedValue"`
}

// ExpenseSummary is the windowed expense breakdown.
type ExpenseSummary struct {
	Months   int            `json:"months"`
	Since    Month          `json:"since"`
	TTMTotal Amount         `json:"ttmTotal"`
	Entries  []ExpenseEntry `json:"entries"`
	ByMonth  AmountsByKey   `json:"byMonth"`
	BySource AmountsByKey   `json:"bySource"`
}

// Contact is a marketing CRM contact.
type Contact struct {
	ID          string   `json:"id"`
	FirstName   string   `json:"firstName,omitempty"`
	LastName    string   `json:"lastName,omitempty"`
	Email       string   `json:"email,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	DateAdded   string   `json:"dateAdded,omitempty"`
	ContactName string   `json:"contactName,omitempty"`
}
