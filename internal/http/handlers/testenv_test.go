package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pharmvigil/medreport-be/internal/auth"
	"github.com/pharmvigil/medreport-be/internal/middleware"
	"github.com/pharmvigil/medreport-be/internal/models"
	"github.com/pharmvigil/medreport-be/internal/storage/memory"
)

// testEnv serves the full route set against the in-memory store.
type testEnv struct {
	ts     *httptest.Server
	store  *memory.Store
	tokens *auth.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.New()
	tokens := auth.NewTokenManager("test-secret", "test", time.Hour)
	gate := middleware.NewGate(store, tokens)

	mux := http.NewServeMux()
	NewAuthHandler(store, tokens).Register(mux, gate)
	NewReportHandler(store).Register(mux, gate)
	NewUserHandler(store).Register(mux, gate)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	return &testEnv{ts: ts, store: store, tokens: tokens}
}

// seedUser creates a user directly in the store with a hashed password.
func (e *testEnv) seedUser(t *testing.T, name, email, password, role string) models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	user, err := e.store.CreateUser(context.Background(), models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) tokenFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := e.tokens.Issue(userID)
	require.NoError(t, err)
	return token
}

// do performs a JSON request against the test server. An empty token leaves
// the Authorization header unset.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, e.ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func decodeInto(t *testing.T, data []byte, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(data, dst))
}

// errorMessage pulls the error string out of a failure envelope.
func errorMessage(t *testing.T, data []byte) string {
	t.Helper()
	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	decodeInto(t, data, &body)
	require.False(t, body.Success)
	return body.Error
}
