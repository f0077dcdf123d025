package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cuatrola-game/internal/database"
	"cuatrola-game/internal/game"
	"cuatrola-game/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *database.Service {
	t.Helper()
	db, err := database.New(database.SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func get(t *testing.T, mux http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestResultsRoutes(t *testing.T) {
	db := newTestDB(t)
	mux := NewRouter(NewHub(nil, game.CuatrolaTarget), db, "")

	rec := get(t, mux, "/api/results")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	record := Recorder(db)
	finished := time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC)
	require.NoError(t, record.RecordResult(game.MatchResult{
		ID: "r1", TableID: "t1", Variant: game.Cuatrola, PlayerName: "Ana",
		Team1Score: 20, Team2Score: 14, Winner: shared.Team1, Hands: 31, FinishedAt: finished,
	}))

	rec = get(t, mux, "/api/results")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var all []database.GameResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	require.Len(t, all, 1)
	assert.Equal(t, database.GameResult{
		ID: "r1", CreatedAt: "2026-03-01T18:30:00Z", TableID: "t1", Variant: "cuatrola", Player: "Ana",
		Team1Score: 20, Team2Score: 14, Winner: 1, Hands: 31,
	}, all[0])

	rec = get(t, mux, "/api/results/r1")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = get(t, mux, "/api/results/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, mux, "/api/results/player/Ana")
	require.Equal(t, http.StatusOK, rec.Code)
	var byPlayer []database.GameResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &byPlayer))
	assert.Equal(t, all, byPlayer)

	rec = get(t, mux, "/api/results/player/Nadie")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, mux, "/api/results/player/Ana/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats database.PlayerStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, database.PlayerStats{Player: "Ana", Matches: 1, Wins: 1}, stats)
}

func TestRouterWithoutDatabase(t *testing.T) {
	mux := NewRouter(NewHub(nil, game.CuatrolaTarget), nil, "")
	rec := get(t, mux, "/api/results")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
