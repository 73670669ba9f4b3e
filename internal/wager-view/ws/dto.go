package ws

import "encoding/json"

// Tópicos de assinatura disponíveis pros clientes do hub.
const (
	TopicLeaderboard = "leaderboard"
	TopicRankChanges = "rank_changes"
)

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: subscribe | unsubscribe | ping
// Topic: obrigatório para subscribe/unsubscribe
type ClientMsg struct {
	Type  string `json:"type"`
	Topic string `json:"topic"`
}

// Update representa uma atualização enviada aos clientes inscritos num tópico.
type Update struct {
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload"`
}
