package client

import (
	"context"
	"fmt"
	"net/http"

	"stayhub/pkg/model"
)

// IdentityClient resolves bearer tokens against the external identity
// provider. The provider owns user records; this service only ever sees the
// resolved principal.
type IdentityClient struct {
	http *HttpClient
}

func NewIdentityClient(providerURL string) *IdentityClient {
	return &IdentityClient{
		http: NewHttpClient(providerURL),
	}
}

type verifyResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Verify exchanges a bearer token for the principal it belongs to. A 401 from
// the provider means the token is invalid or expired; any other non-200 is a
// provider fault.
func (c *IdentityClient) Verify(ctx context.Context, token string) (*model.Principal, error) {
	resp, err := c.http.GET(ctx, "/v1/sessions/verify", map[string]string{
		"Authorization": "Bearer " + token,
	})
	if err != nil {
		return nil, fmt.Errorf("identity provider request failed: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, ErrTokenInvalid
	default:
		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var body verifyResponse
	if err := resp.DecodeJSON(&body); err != nil {
		return nil, fmt.Errorf("failed to decode identity provider response: %w", err)
	}

	if body.ID == "" {
		return nil, fmt.Errorf("identity provider returned empty principal id")
	}

	return &model.Principal{
		ID:       body.ID,
		Email:    body.Email,
		Username: body.Username,
	}, nil
}
