package dispute

import (
	"strings"
	"time"

	"github.com/radieske/p2p-wager-live-poc/pkg/contracts/events"
)

// Window é a janela fixa de contestação após o consenso dos juízes.
const Window = 2 * time.Hour

// Reasons fazem parte do contrato com a UI: as strings são renderizadas
// como estão quando a ação de disputa fica indisponível.
const (
	ReasonNoResolution = "Resolution not found"
	ReasonNoWager      = "Bet not found"
	ReasonNoAddress    = "Wallet not connected"
	ReasonNoConsensus  = "Consensus not yet reached"
	ReasonSettled      = "Bet already settled"
	ReasonDisputed     = "Dispute already raised"
	ReasonNotInvolved  = "You are not involved in this bet"
	ReasonWindowClosed = "Dispute window has closed"
)

// Eligibility é o resultado da avaliação de elegibilidade de disputa.
// Reason vem vazio quando CanDispute é verdadeiro.
type Eligibility struct {
	CanDispute      bool   `json:"canDispute"`
	TimeRemainingMs int64  `json:"timeRemainingMs"`
	Reason          string `json:"reason,omitempty"`
}

// Evaluate decide se requester pode contestar a resolução de uma aposta.
// Função pura: nunca entra em pânico; toda precondição não atendida sai
// pelo campo Reason (a UI precisa renderizar o porquê). As regras são
// avaliadas em ordem e a primeira que falhar define o Reason reportado.
func Evaluate(res *events.Resolution, w *events.Wager, requester string, now time.Time) Eligibility {
	if res == nil {
		return denied(ReasonNoResolution)
	}
	if w == nil {
		return denied(ReasonNoWager)
	}
	if requester == "" {
		return denied(ReasonNoAddress)
	}
	if !res.ConsensusReached {
		return denied(ReasonNoConsensus)
	}
	if res.SettledAt != nil {
		return denied(ReasonSettled)
	}
	if res.IsDisputed {
		return denied(ReasonDisputed)
	}
	if !involved(w, requester) {
		return denied(ReasonNotInvolved)
	}
	if res.ConsensusAt == nil {
		// consenso sem timestamp é registro malformado; janela tratada como fechada
		return denied(ReasonWindowClosed)
	}
	remaining := res.ConsensusAt.Add(Window).Sub(now)
	if remaining <= 0 {
		return denied(ReasonWindowClosed)
	}
	return Eligibility{CanDispute: true, TimeRemainingMs: remaining.Milliseconds()}
}

// involved verifica se o endereço é o criador ou uma das contrapartes.
// Comparação case-insensitive: endereços chegam em casing variado das wallets.
func involved(w *events.Wager, addr string) bool {
	if strings.EqualFold(w.Creator, addr) {
		return true
	}
	for _, cp := range w.Counterparties {
		if strings.EqualFold(cp, addr) {
			return true
		}
	}
	return false
}

func denied(reason string) Eligibility {
	return Eligibility{CanDispute: false, TimeRemainingMs: 0, Reason: reason}
}
