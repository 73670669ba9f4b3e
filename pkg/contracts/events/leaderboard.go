package events

import "time"

// AgentRanking representa a posição de um agente no leaderboard.
// Valores monetários em unidades base do colateral (inteiros).
type AgentRanking struct {
	Rank           int       `json:"rank"`
	Address        string    `json:"address"`
	PnL            int64     `json:"pnl"`            // lucro/prejuízo acumulado
	WinRate        float64   `json:"winRate"`        // 0..1
	ROI            float64   `json:"roi"`            // retorno sobre investimento
	Volume         int64     `json:"volume"`         // volume total apostado
	BetCount       int       `json:"betCount"`       // quantidade de apostas
	PortfolioValue int64     `json:"portfolioValue"` // tamanho atual do portfólio
	AvgBetSize     int64     `json:"avgBetSize"`
	LastActiveAt   time.Time `json:"lastActiveAt"`
}

// LeaderboardSnapshot é o snapshot completo do leaderboard.
// Valor imutável: substituído por inteiro a cada atualização, nunca mutado parcialmente.
type LeaderboardSnapshot struct {
	Leaderboard []AgentRanking `json:"leaderboard"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}
