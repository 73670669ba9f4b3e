package events

import "time"

// Status do ciclo de vida de uma aposta P2P.
const (
	WagerPending          = "pending"
	WagerPartiallyMatched = "partially_matched"
	WagerFullyMatched     = "fully_matched"
	WagerCancelled        = "cancelled"
	WagerSettling         = "settling"
	WagerSettled          = "settled"
)

// Wager representa uma aposta peer-to-peer entre um criador e contrapartes.
// Stakes em unidades base do colateral. Invariante: MatchedAmount <= RequiredMatch.
// OddsBps codifica a odd decimal em basis points (10000 = 1.00x); valores <= 0
// são normalizados para 10000 pelo motor de odds (leniência documentada).
type Wager struct {
	ID             string    `json:"id"`
	Creator        string    `json:"creator"`
	Counterparties []string  `json:"counterparties"` // endereços que casaram a aposta
	CreatorStake   int64     `json:"creatorStake"`
	RequiredMatch  int64     `json:"requiredMatch"`
	MatchedAmount  int64     `json:"matchedAmount"`
	OddsBps        int64     `json:"oddsBps"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}
