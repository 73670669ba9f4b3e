package events

// Notificação transitória de mudança de posição no leaderboard.
// Não altera o cache: é fire-and-forget, usada pela camada de visualização para animações.
type RankChange struct {
	Address  string `json:"address"`
	OldRank  int    `json:"oldRank"`
	NewRank  int    `json:"newRank"`
	TsUnixMs int64  `json:"ts_unix_ms"`
}
