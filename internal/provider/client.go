// Package provider wraps the Vital REST API used for user provisioning and
// device link tokens.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"example.com/wearsync/internal/domain"
	"example.com/wearsync/internal/observability"
)

const (
	sandboxBaseURL    = "https://api.sandbox.tryvital.io"
	productionBaseURL = "https://api.tryvital.io"
)

// Error carries a non-success provider response. Body is the raw upstream
// payload so handlers can pass it through untouched.
type Error struct {
	Status int
	Body   json.RawMessage
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider responded %d: %s", e.Status, e.Body)
}

// Client is a thin wrapper around the Vital API. No retries, no backoff.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient constructs a Client for the given environment selector
// ("production" picks the live API, anything else the sandbox).
func NewClient(environment, apiKey string) *Client {
	baseURL := sandboxBaseURL
	if environment == "production" {
		baseURL = productionBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CreateUser registers a provider-side identity for a local user.
func (c *Client) CreateUser(ctx context.Context, input domain.CreateUserInput) (domain.ProviderUser, error) {
	body, err := c.post(ctx, "create_user", "/v2/user", map[string]any{
		"client_user_id": input.ClientUserID,
		"email":          input.Email,
	})
	if err != nil {
		return domain.ProviderUser{}, err
	}

	var payload struct {
		UserID       string `json:"user_id"`
		ClientUserID string `json:"client_user_id"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.ProviderUser{}, err
	}
	return domain.ProviderUser{UserID: payload.UserID, ClientUserID: payload.ClientUserID}, nil
}

// CreateLinkToken requests a link token scoped to the provider identity and
// the wearable provider being connected.
func (c *Client) CreateLinkToken(ctx context.Context, providerUserID, provider string) (domain.LinkSession, error) {
	body, err := c.post(ctx, "create_link_token", "/v2/link/token", map[string]any{
		"user_id":  providerUserID,
		"provider": provider,
	})
	if err != nil {
		return domain.LinkSession{}, err
	}

	var payload struct {
		LinkToken string `json:"link_token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.LinkSession{}, err
	}
	return domain.LinkSession{LinkToken: payload.LinkToken, Raw: body}, nil
}

func (c *Client) post(ctx context.Context, call, path string, payload map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-vital-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.ObserveGatewayRequest(call, "transport_error", time.Since(start))
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.ObserveGatewayRequest(call, "transport_error", time.Since(start))
		return nil, err
	}

	if resp.StatusCode >= 300 {
		observability.ObserveGatewayRequest(call, "upstream_error", time.Since(start))
		return nil, &Error{Status: resp.StatusCode, Body: json.RawMessage(data)}
	}

	observability.ObserveGatewayRequest(call, "success", time.Since(start))
	return json.RawMessage(data), nil
}
