package manager

// State é o estado corrente do canal de sincronização do leaderboard.
type State string

const (
	StateDisabled   State = "disabled"   // endpoint não configurado; terminal
	StateConnecting State = "connecting" // abrindo o push channel
	StateConnected  State = "connected"  // push channel ativo
	StateError      State = "error"      // falha transitória, aguardando backoff
	StatePolling    State = "polling"    // push abandonado; pull periódico
)

// Status é a leitura pública exposta às views.
type Status struct {
	State            State `json:"state"`
	IsConnected      bool  `json:"isConnected"`
	IsPolling        bool  `json:"isPolling"`
	ReconnectAttempt int   `json:"reconnectAttempt"`
}
