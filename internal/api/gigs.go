package api

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/carelinkzm/carelink/internal/model"
)

// GigFilter controls filtering and pagination for gig list queries.
type GigFilter struct {
	Status    string
	Specialty string
	Query     string
	Page      int
	PageSize  int
}

// ListGigs retrieves a page of public gig postings.
func (c *Client) ListGigs(
	ctx context.Context,
	filter GigFilter,
) ([]model.Gig, error) {
	q := url.Values{}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if filter.Specialty != "" {
		q.Set("specialty", filter.Specialty)
	}
	if filter.Query != "" {
		q.Set("q", filter.Query)
	}
	if filter.Page > 0 {
		q.Set("page", fmt.Sprint(filter.Page))
	}
	if filter.PageSize > 0 {
		q.Set("pageSize", fmt.Sprint(filter.PageSize))
	}

	path := "/api/gigs"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var resp gigsResponse
	if err := c.Get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("fetching gigs: %w", err)
	}

	stampFetched(resp.Gigs)
	return resp.Gigs, nil
}

// MyGigs retrieves the authenticated clinic's own gig postings.
func (c *Client) MyGigs(ctx context.Context) ([]model.Gig, error) {
	var resp gigsResponse
	if err := c.Get(ctx, "/api/gigs/my-gigs", &resp); err != nil {
		return nil, fmt.Errorf("fetching my gigs: %w", err)
	}

	stampFetched(resp.Gigs)
	return resp.Gigs, nil
}

// GetGig retrieves a single gig by ID.
func (c *Client) GetGig(ctx context.Context, id string) (*model.Gig, error) {
	var resp gigResponse
	path := "/api/gigs/" + url.PathEscape(id)
	if err := c.Get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("fetching gig %s: %w", id, err)
	}

	resp.Gig.FetchedAt = time.Now()
	return &resp.Gig, nil
}

// CreateGig posts a new gig on behalf of the authenticated clinic.
func (c *Client) CreateGig(
	ctx context.Context,
	gig model.Gig,
) (*model.Gig, error) {
	var resp gigResponse
	if err := c.Post(ctx, "/api/gigs", gig, &resp); err != nil {
		return nil, fmt.Errorf("creating gig: %w", err)
	}

	resp.Gig.FetchedAt = time.Now()
	return &resp.Gig, nil
}

// stampFetched records the retrieval time on a batch of gigs.
func stampFetched(gigs []model.Gig) {
	now := time.Now()
	for i := range gigs {
		gigs[i].FetchedAt = now
	}
}
