package model

import "time"

// Gig status constants as reported by the marketplace API.
const (
	GigStatusActive = "active"
	GigStatusFilled = "filled"
	GigStatusClosed = "closed"
)

// Gig is a short-term healthcare shift posted by a clinic.
type Gig struct {
	// ID is the gig's unique identifier in the marketplace.
	ID string `json:"id" db:"id"`

	// Title is the human-readable summary of the shift.
	Title string `json:"title" db:"title"`

	// Description is the full posting text.
	Description string `json:"description" db:"description"`

	// ClinicID and ClinicName identify the posting clinic.
	ClinicID   string `json:"clinicId" db:"clinic_id"`
	ClinicName string `json:"clinicName" db:"clinic_name"`

	// Location is the facility address or town.
	Location string `json:"location" db:"location"`

	// Specialty is the required provider specialty (e.g., "nurse").
	Specialty string `json:"specialty" db:"specialty"`

	// Rate is the offered pay for the shift, in kwacha.
	Rate float64 `json:"rate" db:"rate"`

	// Status is one of the GigStatus* constants.
	Status string `json:"status" db:"status"`

	// StartsAt and EndsAt bound the shift window.
	StartsAt time.Time `json:"startsAt" db:"starts_at"`
	EndsAt   time.Time `json:"endsAt" db:"ends_at"`

	// ApplicationCount is the number of applications received so far.
	ApplicationCount int `json:"applicationCount" db:"application_count"`

	// CreatedAt and UpdatedAt mirror the server-side timestamps.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// FetchedAt is when this gig was last retrieved from the API.
	FetchedAt time.Time `json:"-" db:"fetched_at"`
}
