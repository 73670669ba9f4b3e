package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/p2p-wager-live-poc/internal/leaderboard-sync/client"
)

func newBackend(t *testing.T, handler http.HandlerFunc) *client.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return client.New(srv.URL)
}

func TestPullSnapshot(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/leaderboard", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"leaderboard": [
				{"rank": 1, "address": "0xaaa", "pnl": 1500000000, "winRate": 0.62, "betCount": 40},
				{"rank": 2, "address": "0xbbb", "pnl": -20000000, "winRate": 0.41, "betCount": 12}
			],
			"updatedAt": "2026-08-30T12:00:00Z"
		}`))
	})

	snap, err := c.PullSnapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Leaderboard, 2)
	assert.Equal(t, "0xaaa", snap.Leaderboard[0].Address)
	assert.Equal(t, int64(1_500_000_000), snap.Leaderboard[0].PnL)
	assert.Equal(t, time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC), snap.UpdatedAt)
}

func TestGetWager_NotFoundIsNil(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	w, err := c.GetWager(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, w)
}

// 404 na resolução significa "ainda não resolvida", não erro.
func TestGetResolution_NotFoundIsNil(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/wagers/w1/resolution", r.URL.Path)
		http.Error(w, "not found", http.StatusNotFound)
	})

	r, err := c.GetResolution(context.Background(), "w1")
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestGetResolution_Parses(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"wagerId": "w1",
			"consensusReached": true,
			"consensusAt": "2026-08-30T10:00:00Z",
			"judgeAScoreBps": 247,
			"judgeBScoreBps": -123,
			"avgScoreBps": 62,
			"winner": "0xaaa",
			"loser": "0xbbb",
			"potAmount": 150000000,
			"feeAmount": 3000000
		}`))
	})

	r, err := c.GetResolution(context.Background(), "w1")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.True(t, r.ConsensusReached)
	require.NotNil(t, r.JudgeAScoreBps)
	assert.Equal(t, int64(247), *r.JudgeAScoreBps)
	require.NotNil(t, r.JudgeBScoreBps)
	assert.Equal(t, int64(-123), *r.JudgeBScoreBps)
	assert.Nil(t, r.SettledAt)
}

func TestServerErrorsPropagate(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.PullSnapshot(context.Background())
	assert.Error(t, err)

	_, err = c.GetWager(context.Background(), "w1")
	assert.Error(t, err)

	_, err = c.GetResolution(context.Background(), "w1")
	assert.Error(t, err)
}
