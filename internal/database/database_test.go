package database

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := New(SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInsertAndQuery(t *testing.T) {
	s := newTestService(t)
	assert.Equal(t, "cuatrola_results", s.TableName())

	all, err := s.GetAll()
	require.NoError(t, err)
	assert.Empty(t, all)

	first := GameResult{ID: "a", CreatedAt: "2026-01-01T10:00:00Z", TableID: "t1", Variant: "cuatrola", Player: "Ana", Team1Score: 20, Team2Score: 12, Winner: 1, Hands: 25}
	second := GameResult{ID: "b", CreatedAt: "2026-01-02T10:00:00Z", TableID: "t2", Variant: "cuatrola", Player: "Ana", Team1Score: 15, Team2Score: 21, Winner: 2, Hands: 30}
	third := GameResult{ID: "c", CreatedAt: "2026-01-03T10:00:00Z", TableID: "t3", Variant: "cuatrola", Player: "Luis", Team1Score: 20, Team2Score: 0, Winner: 1, Hands: 9}
	for _, r := range []GameResult{second, first, third} {
		require.NoError(t, s.Insert(r))
	}
	assert.Error(t, s.Insert(first), "ids are unique")

	all, err = s.GetAll()
	require.NoError(t, err)
	assert.Equal(t, []GameResult{first, second, third}, all)

	got, err := s.GetByID("b")
	require.NoError(t, err)
	assert.Equal(t, second, got)

	_, err = s.GetByID("zzz")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	ana, err := s.GetByPlayer("Ana")
	require.NoError(t, err)
	assert.Equal(t, []GameResult{first, second}, ana)

	_, err = s.GetByPlayer("Nadie")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	stats, err := s.StatsByPlayer("Ana")
	require.NoError(t, err)
	assert.Equal(t, PlayerStats{Player: "Ana", Matches: 2, Wins: 1}, stats)

	stats, err = s.StatsByPlayer("Nadie")
	require.NoError(t, err)
	assert.Equal(t, PlayerStats{Player: "Nadie"}, stats)
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New("mysql", "root@/db")
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	q := "SELECT * FROM t WHERE a = ? AND b = ?"
	assert.Equal(t, q, rebind(SQLite, q))
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", rebind(Postgres, q))
}
