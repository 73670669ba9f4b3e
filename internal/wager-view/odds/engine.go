package odds

import (
	"fmt"
	"math"

	"github.com/radieske/p2p-wager-live-poc/pkg/contracts/events"
)

// Classificação de favorabilidade do ponto de vista da contraparte.
const (
	Favorable   = "favorable"
	Even        = "even"
	Unfavorable = "unfavorable"
)

// Teto dos multiplicadores de retorno; entradas degeneradas não podem
// vazar Inf/NaN pra camada de renderização.
const maxReturn = 9999.99

// OddsView é a visão financeira derivada de uma aposta, pronta pra UI.
// Campos string já formatados; campos numéricos pra lógica de tela.
type OddsView struct {
	OddsDecimal float64 `json:"oddsDecimal"`
	Display     string  `json:"display"`   // ex: "2.00x"
	Anomalous   bool    `json:"anomalous"` // oddsBps <= 0 normalizado pra 1.00x

	CreatorRisk string `json:"creatorRisk"` // ex: "$100.00"
	MatcherRisk string `json:"matcherRisk"`
	TotalPot    string `json:"totalPot"`
	Remaining   string `json:"remaining"` // quanto falta pra casar

	CreatorReturnX float64 `json:"creatorReturnX"`
	MatcherReturnX float64 `json:"matcherReturnX"`
	CreatorReturn  string  `json:"creatorReturn"` // ex: "1.50x"
	MatcherReturn  string  `json:"matcherReturn"`

	FillPercent             float64 `json:"fillPercent"`        // 0..100
	ImpliedProbability      float64 `json:"impliedProbability"` // prob. implícita do criador
	CounterpartyProbability float64 `json:"counterpartyProbability"`
	Favorability            string  `json:"favorability"`
}

// ComputeOddsView deriva a visão de odds/payout de uma aposta.
// Função pura, total e determinística: nunca entra em pânico e nunca
// retorna NaN/Inf, condição pra uso seguro em hot paths de render.
// decimals é a quantidade de casas do asset de colateral (USDC = 6).
func ComputeOddsView(w *events.Wager, decimals int) OddsView {
	if w == nil {
		w = &events.Wager{}
	}

	// leniência documentada: odds <= 0 viram 1.00x, sinalizadas como anômalas
	bps := w.OddsBps
	anomalous := false
	if bps <= 0 {
		bps = 10000
		anomalous = true
	}
	dec := float64(bps) / 10000

	unit := math.Pow10(decimals)
	creator := float64(w.CreatorStake) / unit
	required := float64(w.RequiredMatch) / unit
	matched := float64(w.MatchedAmount) / unit

	totalPot := creator + required

	fill := 0.0
	if required > 0 {
		fill = matched / required * 100
	}
	if fill < 0 {
		fill = 0
	} else if fill > 100 {
		fill = 100
	}

	remaining := required - matched
	if remaining < 0 {
		remaining = 0
	}

	creatorReturn := safeRatio(totalPot, creator)
	matcherReturn := safeRatio(totalPot, required)

	implied := dec / (dec + 1)

	fav := Even
	switch {
	case dec > 1.1:
		fav = Favorable
	case dec < 0.91:
		fav = Unfavorable
	}

	return OddsView{
		OddsDecimal: dec,
		Display:     formatMultiplier(dec),
		Anomalous:   anomalous,

		CreatorRisk: formatUSD(creator),
		MatcherRisk: formatUSD(required),
		TotalPot:    formatUSD(totalPot),
		Remaining:   formatUSD(remaining),

		CreatorReturnX: creatorReturn,
		MatcherReturnX: matcherReturn,
		CreatorReturn:  formatMultiplier(creatorReturn),
		MatcherReturn:  formatMultiplier(matcherReturn),

		FillPercent:             fill,
		ImpliedProbability:      implied,
		CounterpartyProbability: 1 - implied,
		Favorability:            fav,
	}
}

// safeRatio divide protegendo contra divisão por zero e overflow de
// entradas degeneradas: não-finito vira 0, acima do teto satura.
func safeRatio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	r := num / den
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	if r > maxReturn {
		return maxReturn
	}
	return r
}

func formatMultiplier(v float64) string {
	return fmt.Sprintf("%.2fx", v)
}

func formatUSD(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
