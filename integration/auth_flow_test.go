package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flatearthwars/server/model"
)

func TestFullAuthLifecycle(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	username := UniqueID("auth")

	// 1. Register with a clan → token.
	token1 := ts.Register(t, username, model.ClanFlatEarthers)

	// 2. Profile works with the fresh token.
	resp := ts.Get(t, "/api/profile", token1)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var prof map[string]interface{}
	ReadJSON(t, resp, &prof)
	p := prof["player"].(map[string]interface{})
	assert.Equal(t, username, p["username"])
	assert.Equal(t, float64(10), p["energy"])
	assert.Equal(t, float64(1), p["level"])

	// 3. Login again → new working token.
	token2 := ts.Login(t, username)
	resp = ts.Get(t, "/api/profile", token2)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// 4. Logout token2 → invalidated; token1 still works.
	resp = ts.PostJSON(t, "/api/auth/logout", nil, token2)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = ts.Get(t, "/api/profile", token2)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = ts.Get(t, "/api/profile", token1)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestRegisterRequiresClan(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	resp := ts.PostJSON(t, "/api/auth/register", map[string]string{
		"username": UniqueID("noclan"),
		"password": "testpass",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestHealthAndPublicEndpoints(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	resp := ts.Get(t, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Ranking and event are public.
	resp = ts.Get(t, "/api/ranking?metric=points", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = ts.Get(t, "/api/event", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
