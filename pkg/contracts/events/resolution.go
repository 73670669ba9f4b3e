package events

import "time"

// Dispute é o sub-registro de contestação de uma resolução.
// Só pode existir após ConsensusReached = true.
type Dispute struct {
	Disputer       string     `json:"disputer"`
	Stake          int64      `json:"stake"`
	Reason         string     `json:"reason"`
	RaisedAt       time.Time  `json:"raisedAt"`
	ResolvedAt     *time.Time `json:"resolvedAt,omitempty"`
	OutcomeChanged bool       `json:"outcomeChanged"`
}

// Resolution é o registro de resolução de uma aposta em settling/settled,
// produzido pelo sistema externo de juízes (keepers). Este core apenas consome.
// SettledAt é terminal: definido no máximo uma vez.
type Resolution struct {
	WagerID          string     `json:"wagerId"`
	ConsensusReached bool       `json:"consensusReached"`
	ConsensusAt      *time.Time `json:"consensusAt,omitempty"`
	JudgeAScoreBps   *int64     `json:"judgeAScoreBps,omitempty"` // score assinado em bps
	JudgeBScoreBps   *int64     `json:"judgeBScoreBps,omitempty"`
	AvgScoreBps      int64      `json:"avgScoreBps"` // média derivada dos dois scores
	Winner           string     `json:"winner,omitempty"`
	Loser            string     `json:"loser,omitempty"`
	PotAmount        int64      `json:"potAmount"`
	FeeAmount        int64      `json:"feeAmount"`
	IsDisputed       bool       `json:"isDisputed"`
	Dispute          *Dispute   `json:"dispute,omitempty"`
	SettledAt        *time.Time `json:"settledAt,omitempty"`
	SettlementProof  string     `json:"settlementProof,omitempty"`
}
