package dispute_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/radieske/p2p-wager-live-poc/internal/wager-view/dispute"
)

func TestFormatTimeRemaining(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{1*time.Hour + 59*time.Minute, "1h 59m"},
		{2 * time.Hour, "2h 0m"},
		{1 * time.Hour, "1h 0m"},
		{45*time.Minute + 12*time.Second, "45m 12s"},
		{59*time.Minute + 59*time.Second, "59m 59s"},
		{30 * time.Second, "0m 30s"},
		{0, "Expired"},
		{-5 * time.Minute, "Expired"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, dispute.FormatTimeRemaining(c.d), "d=%s", c.d)
	}
}

func TestFormatJudgeScore(t *testing.T) {
	score := func(v int64) *int64 { return &v }

	assert.Equal(t, "+2.47%", dispute.FormatJudgeScore(score(247)))
	assert.Equal(t, "-1.23%", dispute.FormatJudgeScore(score(-123)))
	assert.Equal(t, "+0.00%", dispute.FormatJudgeScore(score(0)))
	assert.Equal(t, "--", dispute.FormatJudgeScore(nil))
}
