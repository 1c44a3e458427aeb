package store

import (
	"context"

	"github.com/carelinkzm/carelink/internal/model"
)

// GigFilter controls filtering, sorting, and pagination for gig queries.
type GigFilter struct {
	Status    *string
	Specialty *string
	ClinicID  *string
	Query     *string
	SortBy    string // "updated_at", "starts_at", "rate", "title", "created_at"
	SortDesc  bool
	Limit     int
	Offset    int
}

// ApplicationFilter controls filtering for application queries.
type ApplicationFilter struct {
	GigID      *string
	ProviderID *string
	Status     *string
	Limit      int
	Offset     int
}

// Store defines the local cache of marketplace data used to render views
// without waiting on the network and to detect changes between polls.
type Store interface {
	// === Gigs ===

	UpsertGigs(ctx context.Context, gigs []model.Gig) error
	GetGigs(ctx context.Context, filter GigFilter) ([]model.Gig, error)
	GetGigByID(ctx context.Context, id string) (*model.Gig, error)

	// === Applications ===

	UpsertApplications(ctx context.Context, apps []model.Application) error
	GetApplications(ctx context.Context, filter ApplicationFilter) ([]model.Application, error)
	GetApplicationByID(ctx context.Context, id string) (*model.Application, error)

	// ApplicationStatuses returns the cached status for every known
	// application, keyed by ID. The poller diffs fresh API results
	// against this map to detect new applications and status changes.
	ApplicationStatuses(ctx context.Context) (map[string]string, error)
}
