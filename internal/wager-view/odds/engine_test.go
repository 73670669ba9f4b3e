package odds_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/p2p-wager-live-poc/internal/wager-view/odds"
	"github.com/radieske/p2p-wager-live-poc/pkg/contracts/events"
)

const usdcDecimals = 6

func TestComputeOddsView_CanonicalWager(t *testing.T) {
	w := &events.Wager{
		CreatorStake:  100_000_000, // $100.00
		RequiredMatch: 50_000_000,  // $50.00
		MatchedAmount: 25_000_000,  // $25.00
		OddsBps:       20000,       // 2.00x
	}

	v := odds.ComputeOddsView(w, usdcDecimals)

	assert.Equal(t, "2.00x", v.Display)
	assert.Equal(t, "$100.00", v.CreatorRisk)
	assert.Equal(t, "$50.00", v.MatcherRisk)
	assert.Equal(t, "$150.00", v.TotalPot)
	assert.Equal(t, "$25.00", v.Remaining)
	assert.Equal(t, "1.50x", v.CreatorReturn)
	assert.Equal(t, "3.00x", v.MatcherReturn)
	assert.InDelta(t, 50.0, v.FillPercent, 0.0001)
	assert.InDelta(t, 0.667, v.ImpliedProbability, 0.001)
	assert.InDelta(t, 0.333, v.CounterpartyProbability, 0.001)
	assert.Equal(t, odds.Favorable, v.Favorability)
	assert.False(t, v.Anomalous)
}

func TestComputeOddsView_NormalizesNonPositiveOdds(t *testing.T) {
	for _, bps := range []int64{0, -5000} {
		v := odds.ComputeOddsView(&events.Wager{OddsBps: bps}, usdcDecimals)
		assert.InDelta(t, 1.0, v.OddsDecimal, 0.0001, "oddsBps=%d", bps)
		assert.Equal(t, "1.00x", v.Display, "oddsBps=%d", bps)
		assert.True(t, v.Anomalous, "oddsBps=%d", bps)
	}

	// odds válidas não são marcadas
	v := odds.ComputeOddsView(&events.Wager{OddsBps: 10000}, usdcDecimals)
	assert.False(t, v.Anomalous)
}

func TestComputeOddsView_Favorability(t *testing.T) {
	cases := []struct {
		bps  int64
		want string
	}{
		{20000, odds.Favorable},
		{11100, odds.Favorable},
		{11000, odds.Even}, // 1.10 não passa do limiar
		{10000, odds.Even},
		{9100, odds.Even}, // 0.91 ainda é even
		{9000, odds.Unfavorable},
		{5000, odds.Unfavorable},
	}
	for _, c := range cases {
		v := odds.ComputeOddsView(&events.Wager{OddsBps: c.bps}, usdcDecimals)
		assert.Equal(t, c.want, v.Favorability, "oddsBps=%d", c.bps)
	}
}

// A função precisa ser total: entradas degeneradas nunca podem produzir
// NaN/Inf nem valores fora das faixas esperadas.
func TestComputeOddsView_TotalOnDegenerateInputs(t *testing.T) {
	wagers := []*events.Wager{
		nil,
		{},
		{CreatorStake: 0, RequiredMatch: 0, MatchedAmount: 0, OddsBps: 0},
		{CreatorStake: 1, RequiredMatch: 0, MatchedAmount: 0, OddsBps: 10000},
		{CreatorStake: 0, RequiredMatch: 1, MatchedAmount: 5, OddsBps: 10000},  // matched > required
		{CreatorStake: -10, RequiredMatch: -5, MatchedAmount: -1, OddsBps: -1}, // tudo negativo
		{CreatorStake: math.MaxInt64, RequiredMatch: 1, MatchedAmount: 1, OddsBps: 1},
	}

	for i, w := range wagers {
		v := odds.ComputeOddsView(w, usdcDecimals)

		assert.GreaterOrEqual(t, v.FillPercent, 0.0, "case %d", i)
		assert.LessOrEqual(t, v.FillPercent, 100.0, "case %d", i)
		assert.LessOrEqual(t, v.CreatorReturnX, 9999.99, "case %d", i)
		assert.LessOrEqual(t, v.MatcherReturnX, 9999.99, "case %d", i)

		for name, f := range map[string]float64{
			"oddsDecimal":    v.OddsDecimal,
			"fillPercent":    v.FillPercent,
			"creatorReturnX": v.CreatorReturnX,
			"matcherReturnX": v.MatcherReturnX,
			"implied":        v.ImpliedProbability,
			"counterparty":   v.CounterpartyProbability,
		} {
			require.False(t, math.IsNaN(f), "case %d: %s is NaN", i, name)
			require.False(t, math.IsInf(f, 0), "case %d: %s is Inf", i, name)
		}
	}
}

func TestComputeOddsView_ZeroGuards(t *testing.T) {
	// requiredMatch = 0: fill e matcherReturn zerados, não NaN
	v := odds.ComputeOddsView(&events.Wager{CreatorStake: 100_000_000, OddsBps: 10000}, usdcDecimals)
	assert.Equal(t, 0.0, v.FillPercent)
	assert.Equal(t, 0.0, v.MatcherReturnX)
	assert.Equal(t, "0.00x", v.MatcherReturn)

	// creatorStake = 0: creatorReturn zerado
	v = odds.ComputeOddsView(&events.Wager{RequiredMatch: 50_000_000, OddsBps: 10000}, usdcDecimals)
	assert.Equal(t, 0.0, v.CreatorReturnX)
}

func TestComputeOddsView_Deterministic(t *testing.T) {
	w := &events.Wager{
		CreatorStake:  123_456_789,
		RequiredMatch: 98_765_432,
		MatchedAmount: 11_111_111,
		OddsBps:       13370,
	}
	first := odds.ComputeOddsView(w, usdcDecimals)
	second := odds.ComputeOddsView(w, usdcDecimals)
	assert.Equal(t, first, second)
}
