package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/p2p-wager-live-poc/internal/leaderboard-sync/cache"
	"github.com/radieske/p2p-wager-live-poc/pkg/contracts/events"
)

func TestMemory_LastWriteWins(t *testing.T) {
	m := cache.NewMemory()
	assert.Nil(t, m.Snapshot())

	first := &events.LeaderboardSnapshot{
		Leaderboard: []events.AgentRanking{{Rank: 1, Address: "0xaaa"}},
		UpdatedAt:   time.Now().UTC(),
	}
	require.NoError(t, m.SetSnapshot(context.Background(), first))
	assert.Equal(t, first, m.Snapshot())

	// substituição por inteiro: o snapshot anterior some, sem merge
	second := &events.LeaderboardSnapshot{
		Leaderboard: []events.AgentRanking{{Rank: 1, Address: "0xbbb"}},
		UpdatedAt:   time.Now().UTC(),
	}
	require.NoError(t, m.SetSnapshot(context.Background(), second))
	assert.Equal(t, second, m.Snapshot())
	assert.Equal(t, "0xbbb", m.Snapshot().Leaderboard[0].Address)
}
