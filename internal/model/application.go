package model

import "time"

// Application status constants as reported by the marketplace API.
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusAccepted = "accepted"
	ApplicationStatusRejected = "rejected"
)

// Application is a provider's application for a gig.
type Application struct {
	// ID is the application's unique identifier in the marketplace.
	ID string `json:"id" db:"id"`

	// GigID and GigTitle identify the gig applied for.
	GigID    string `json:"gigId" db:"gig_id"`
	GigTitle string `json:"gigTitle" db:"gig_title"`

	// ProviderID and ProviderName identify the applying provider.
	ProviderID   string `json:"providerId" db:"provider_id"`
	ProviderName string `json:"providerName" db:"provider_name"`

	// Status is one of the ApplicationStatus* constants.
	Status string `json:"status" db:"status"`

	// Note is the optional cover message the provider attached.
	Note string `json:"note" db:"note"`

	// AppliedAt and UpdatedAt mirror the server-side timestamps.
	AppliedAt time.Time `json:"appliedAt" db:"applied_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// FetchedAt is when this application was last retrieved from the API.
	FetchedAt time.Time `json:"-" db:"fetched_at"`
}

// ApplicationStats holds the dashboard counters for a clinic's applications.
type ApplicationStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}
