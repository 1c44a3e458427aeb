package api

import (
	"context"
	"fmt"

	"github.com/carelinkzm/carelink/internal/model"
)

// AuthResult is the outcome of a login attempt as reported by the API.
// Success=false carries the server's rejection message; transport
// failures are returned as an error instead.
type AuthResult struct {
	Success bool
	Token   string
	User    *model.User
	Message string
}

// Login authenticates against POST /api/auth/login with the given
// identifier and secret. A rejected login (bad credentials) is not an
// error: it is an AuthResult with Success=false.
func (c *Client) Login(
	ctx context.Context,
	identifier string,
	secret string,
) (*AuthResult, error) {
	body := map[string]string{
		"email":    identifier,
		"password": secret,
	}

	var resp loginResponse
	if err := c.do(ctx, "POST", "/api/auth/login", body, &resp); err != nil {
		// The API answers failed logins with a 401/400 envelope; fold
		// those into a structured failure rather than a transport error.
		if apiErr, ok := err.(*APIError); ok {
			return &AuthResult{Success: false, Message: apiErr.Message}, nil
		}
		if authErr, ok := err.(*AuthError); ok {
			return &AuthResult{Success: false, Message: authErr.Message}, nil
		}
		return nil, fmt.Errorf("calling login endpoint: %w", err)
	}

	if !resp.Success {
		return &AuthResult{Success: false, Message: resp.Message}, nil
	}

	return &AuthResult{
		Success: true,
		Token:   resp.Token,
		User:    resp.User,
	}, nil
}
