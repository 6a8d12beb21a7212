package rest_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flatearthwars/server/model"
)

func TestAchievementsEmpty(t *testing.T) {
	e := newEnv(t)
	token := e.register(t, "truther", model.ClanFlatEarthers)

	w := e.do(t, http.MethodGet, "/api/achievements", nil, bearer(token)...)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Achievements []struct {
			Badge string `json:"badge"`
		} `json:"achievements"`
	}
	decode(t, w, &resp)
	assert.Empty(t, resp.Achievements)
}

func TestAchievementsUnlockedByAction(t *testing.T) {
	e := newEnv(t)
	token := e.register(t, "truther", model.ClanFlatEarthers)

	w := e.do(t, http.MethodPost, "/api/actions/meme", nil, bearer(token)...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.do(t, http.MethodGet, "/api/achievements", nil, bearer(token)...)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Achievements []struct {
			Badge    string `json:"badge"`
			Achieved bool   `json:"achieved"`
		} `json:"achievements"`
	}
	decode(t, w, &resp)
	require.Len(t, resp.Achievements, 1)
	assert.Equal(t, "first_meme", resp.Achievements[0].Badge)
	assert.True(t, resp.Achievements[0].Achieved)
}

func TestAchievementsRequireAuth(t *testing.T) {
	e := newEnv(t)
	w := e.do(t, http.MethodGet, "/api/achievements", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
