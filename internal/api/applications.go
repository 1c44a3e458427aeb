package api

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/carelinkzm/carelink/internal/model"
)

// MyApplications retrieves the authenticated provider's own applications.
func (c *Client) MyApplications(
	ctx context.Context,
) ([]model.Application, error) {
	var resp applicationsResponse
	if err := c.Get(ctx, "/api/applications/mine", &resp); err != nil {
		return nil, fmt.Errorf("fetching my applications: %w", err)
	}

	stampApplications(resp.Applications)
	return resp.Applications, nil
}

// GigApplications retrieves all applications for one of the authenticated
// clinic's gigs.
func (c *Client) GigApplications(
	ctx context.Context,
	gigID string,
) ([]model.Application, error) {
	var resp applicationsResponse
	path := "/api/gigs/" + url.PathEscape(gigID) + "/applications"
	if err := c.Get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("fetching applications for gig %s: %w", gigID, err)
	}

	stampApplications(resp.Applications)
	return resp.Applications, nil
}

// ClinicApplications retrieves applications across all of the
// authenticated clinic's gigs.
func (c *Client) ClinicApplications(
	ctx context.Context,
) ([]model.Application, error) {
	var resp applicationsResponse
	if err := c.Get(ctx, "/api/applications", &resp); err != nil {
		return nil, fmt.Errorf("fetching clinic applications: %w", err)
	}

	stampApplications(resp.Applications)
	return resp.Applications, nil
}

// Apply submits an application for a gig on behalf of the authenticated
// provider, with an optional cover note.
func (c *Client) Apply(
	ctx context.Context,
	gigID string,
	note string,
) (*model.Application, error) {
	body := map[string]string{"note": note}

	var resp applicationResponse
	path := "/api/gigs/" + url.PathEscape(gigID) + "/apply"
	if err := c.Post(ctx, path, body, &resp); err != nil {
		return nil, fmt.Errorf("applying for gig %s: %w", gigID, err)
	}

	resp.Application.FetchedAt = time.Now()
	return &resp.Application, nil
}

// UpdateApplicationStatus accepts or rejects an application on behalf of
// the authenticated clinic. Status must be one of the
// model.ApplicationStatus* constants.
func (c *Client) UpdateApplicationStatus(
	ctx context.Context,
	applicationID string,
	status string,
) (*model.Application, error) {
	body := map[string]string{"status": status}

	var resp applicationResponse
	path := "/api/applications/" + url.PathEscape(applicationID)
	if err := c.Patch(ctx, path, body, &resp); err != nil {
		return nil, fmt.Errorf(
			"updating application %s: %w", applicationID, err,
		)
	}

	resp.Application.FetchedAt = time.Now()
	return &resp.Application, nil
}

// ApplicationStats retrieves the dashboard counters for the authenticated
// clinic's applications.
func (c *Client) ApplicationStats(
	ctx context.Context,
) (*model.ApplicationStats, error) {
	var resp statsResponse
	if err := c.Get(ctx, "/api/applications/stats", &resp); err != nil {
		return nil, fmt.Errorf("fetching application stats: %w", err)
	}

	return &resp.Stats, nil
}

// stampApplications records the retrieval time on a batch of applications.
func stampApplications(apps []model.Application) {
	now := time.Now()
	for i := range apps {
		apps[i].FetchedAt = now
	}
}
