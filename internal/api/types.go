package api

import "github.com/carelinkzm/carelink/internal/model"

// errorEnvelope is the failure body the API returns on non-2xx statuses.
type errorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// loginResponse is the body of POST /api/auth/login.
type loginResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	User    *model.User `json:"user"`
	Message string      `json:"message"`
}

// gigsResponse is the body of gig list endpoints.
type gigsResponse struct {
	Success bool        `json:"success"`
	Gigs    []model.Gig `json:"gigs"`
	Total   int         `json:"total"`
}

// gigResponse is the body of single-gig endpoints.
type gigResponse struct {
	Success bool      `json:"success"`
	Gig     model.Gig `json:"gig"`
}

// applicationsResponse is the body of application list endpoints.
type applicationsResponse struct {
	Success      bool                `json:"success"`
	Applications []model.Application `json:"applications"`
	Total        int                 `json:"total"`
}

// applicationResponse is the body of single-application endpoints.
type applicationResponse struct {
	Success     bool              `json:"success"`
	Application model.Application `json:"application"`
}

// statsResponse is the body of GET /api/applications/stats.
type statsResponse struct {
	Success bool                   `json:"success"`
	Stats   model.ApplicationStats `json:"stats"`
}
