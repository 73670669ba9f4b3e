package dto

import (
	"github.com/radieske/p2p-wager-live-poc/internal/wager-view/dispute"
	"github.com/radieske/p2p-wager-live-poc/internal/wager-view/odds"
)

// OddsResponse é a visão de odds/payout de uma aposta.
type OddsResponse struct {
	WagerID string        `json:"wagerId"`
	Status  string        `json:"status"`
	View    odds.OddsView `json:"view"`
}

// DisputeEligibilityResponse informa se a ação "raise dispute" pode ser
// oferecida e, quando não, o motivo exato a renderizar.
type DisputeEligibilityResponse struct {
	WagerID string `json:"wagerId"`
	dispute.Eligibility
	TimeRemaining string `json:"timeRemaining"`          // "1h 59m" | "45m 12s" | "Expired"
	JudgeAScore   string `json:"judgeAScore,omitempty"`  // "+2.47%" | "--"
	JudgeBScore   string `json:"judgeBScore,omitempty"`  // "-1.23%" | "--"
	AvgScore      string `json:"avgScore,omitempty"`
}
