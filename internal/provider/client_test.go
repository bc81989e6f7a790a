package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/wearsync/internal/domain"
)

func newTestClient(srv *httptest.Server) *Client {
	return &Client{
		baseURL:    srv.URL,
		apiKey:     "test-key",
		httpClient: &http.Client{Timeout: time.Second},
	}
}

func TestCreateUser(t *testing.T) {
	var gotPath, gotAPIKey string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get("x-vital-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user_id":"vital-123","client_user_id":"user-1"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv)
	user, err := client.CreateUser(context.Background(), domain.CreateUserInput{ClientUserID: "user-1", Email: "runner@example.com"})
	require.NoError(t, err)
	require.Equal(t, "vital-123", user.UserID)
	require.Equal(t, "user-1", user.ClientUserID)

	require.Equal(t, "/v2/user", gotPath)
	require.Equal(t, "test-key", gotAPIKey)
	require.Equal(t, "user-1", gotBody["client_user_id"])
	require.Equal(t, "runner@example.com", gotBody["email"])
}

func TestCreateUserUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"invalid email"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv)
	_, err := client.CreateUser(context.Background(), domain.CreateUserInput{ClientUserID: "user-1", Email: "not-an-email"})

	var provErr *Error
	require.ErrorAs(t, err, &provErr)
	require.Equal(t, http.StatusUnprocessableEntity, provErr.Status)
	require.JSONEq(t, `{"detail":"invalid email"}`, string(provErr.Body))
}

func TestCreateLinkToken(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"link_token":"tok-1","link_web_url":"https://link.tryvital.io/?token=tok-1"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv)
	link, err := client.CreateLinkToken(context.Background(), "vital-123", "garmin")
	require.NoError(t, err)
	require.Equal(t, "tok-1", link.LinkToken)
	require.Contains(t, string(link.Raw), "link_web_url")

	require.Equal(t, "/v2/link/token", gotPath)
	require.Equal(t, "vital-123", gotBody["user_id"])
	require.Equal(t, "garmin", gotBody["provider"])
}

func TestEnvironmentSelectsBaseURL(t *testing.T) {
	require.Equal(t, productionBaseURL, NewClient("production", "k").baseURL)
	require.Equal(t, sandboxBaseURL, NewClient("sandbox", "k").baseURL)
	require.Equal(t, sandboxBaseURL, NewClient("", "k").baseURL)
}
