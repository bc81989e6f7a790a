package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCORSPreflight(t *testing.T) {
	wrapped := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight must not reach the wrapped handler")
	}))

	for _, path := range []string{"/v1/vital/users", "/v1/vital/link", "/v1/vital/webhook", "/v1/activities/summary"} {
		req := httptest.NewRequest(http.MethodOptions, path, nil)
		rr := httptest.NewRecorder()
		wrapped.ServeHTTP(rr, req)

		require.Equal(t, http.StatusNoContent, rr.Code, path)
		require.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"), path)
		require.Equal(t, "authorization, x-client-info, apikey, content-type", rr.Header().Get("Access-Control-Allow-Headers"), path)
		require.Empty(t, rr.Body.String(), path)
	}
}

func TestCORSPassesThroughNonPreflight(t *testing.T) {
	reached := false
	wrapped := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/vital/webhook", nil)
	rr := httptest.NewRecorder()
	wrapped.ServeHTTP(rr, req)

	require.True(t, reached)
	require.Equal(t, http.StatusTeapot, rr.Code)
	require.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"), "CORS headers apply to actual requests too")
}
