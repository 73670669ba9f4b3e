package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	synccache "github.com/radieske/p2p-wager-live-poc/internal/leaderboard-sync/cache"
	"github.com/radieske/p2p-wager-live-poc/internal/leaderboard-sync/client"
	viewhttp "github.com/radieske/p2p-wager-live-poc/internal/wager-view/http"
	"github.com/radieske/p2p-wager-live-poc/internal/wager-view/dto"
	"github.com/radieske/p2p-wager-live-poc/pkg/contracts/events"
)

const creator = "0xAbCd000000000000000000000000000000000001"

// backendFixture sobe um backend falso com uma aposta e (opcionalmente)
// uma resolução, e devolve o router da API de visualização apontando pra ele.
func backendFixture(t *testing.T, wager *events.Wager, res *events.Resolution) http.Handler {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case wager != nil && r.URL.Path == "/v1/wagers/"+wager.ID+"/resolution":
			if res == nil {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			_ = json.NewEncoder(w).Encode(res)
		case wager != nil && r.URL.Path == "/v1/wagers/"+wager.ID:
			_ = json.NewEncoder(w).Encode(wager)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	// cache apontando pra lugar nenhum: leitura falha e cai no backend
	dead := synccache.NewRedisCache(redis.NewClient(&redis.Options{Addr: "localhost:1"}), 0, "")
	api := viewhttp.NewServer(zap.NewNop(), client.New(srv.URL), dead, 6)
	return api.Router()
}

func canonicalWager() *events.Wager {
	return &events.Wager{
		ID:             "w1",
		Creator:        creator,
		Counterparties: []string{"0xEf12000000000000000000000000000000000002"},
		CreatorStake:   100_000_000,
		RequiredMatch:  50_000_000,
		MatchedAmount:  25_000_000,
		OddsBps:        20000,
		Status:         events.WagerPartiallyMatched,
	}
}

func TestGetOddsView(t *testing.T) {
	router := backendFixture(t, canonicalWager(), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/wagers/w1/odds", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.OddsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "w1", resp.WagerID)
	assert.Equal(t, events.WagerPartiallyMatched, resp.Status)
	assert.Equal(t, "2.00x", resp.View.Display)
	assert.Equal(t, "$150.00", resp.View.TotalPot)
	assert.Equal(t, "3.00x", resp.View.MatcherReturn)
	assert.InDelta(t, 50.0, resp.View.FillPercent, 0.0001)
}

func TestGetOddsView_UnknownWager(t *testing.T) {
	router := backendFixture(t, nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/wagers/nope/odds", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetDisputeEligibility_Open(t *testing.T) {
	consensusAt := time.Now().UTC().Add(-30 * time.Minute)
	scoreA := int64(247)
	res := &events.Resolution{
		WagerID:          "w1",
		ConsensusReached: true,
		ConsensusAt:      &consensusAt,
		JudgeAScoreBps:   &scoreA,
		AvgScoreBps:      62,
	}
	router := backendFixture(t, canonicalWager(), res)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/v1/wagers/w1/dispute-eligibility?address="+creator, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.DisputeEligibilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.CanDispute)
	assert.Empty(t, resp.Reason)
	assert.Equal(t, "1h 29m", resp.TimeRemaining)
	assert.Equal(t, "+2.47%", resp.JudgeAScore)
	assert.Equal(t, "--", resp.JudgeBScore)
	assert.Equal(t, "+0.62%", resp.AvgScore)
}

func TestGetDisputeEligibility_Reasons(t *testing.T) {
	consensusAt := time.Now().UTC().Add(-30 * time.Minute)
	res := &events.Resolution{WagerID: "w1", ConsensusReached: true, ConsensusAt: &consensusAt}

	t.Run("unresolved wager", func(t *testing.T) {
		router := backendFixture(t, canonicalWager(), nil) // resolução 404
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
			"/v1/wagers/w1/dispute-eligibility?address="+creator, nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp dto.DisputeEligibilityResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.CanDispute)
		assert.Equal(t, "Resolution not found", resp.Reason)
		assert.Equal(t, "Expired", resp.TimeRemaining)
	})

	t.Run("uninvolved address", func(t *testing.T) {
		router := backendFixture(t, canonicalWager(), res)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
			"/v1/wagers/w1/dispute-eligibility?address=0x9999000000000000000000000000000000000009", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp dto.DisputeEligibilityResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.CanDispute)
		assert.Equal(t, "You are not involved in this bet", resp.Reason)
	})

	t.Run("missing address", func(t *testing.T) {
		router := backendFixture(t, canonicalWager(), res)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
			"/v1/wagers/w1/dispute-eligibility", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp dto.DisputeEligibilityResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.CanDispute)
		assert.Equal(t, "Wallet not connected", resp.Reason)
	})
}

func TestWagerRoutes_BadPaths(t *testing.T) {
	router := backendFixture(t, canonicalWager(), nil)

	for _, path := range []string{"/v1/wagers/", "/v1/wagers/w1/unknown"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.NotEqual(t, http.StatusOK, rec.Code, "path=%s", path)
	}
}
