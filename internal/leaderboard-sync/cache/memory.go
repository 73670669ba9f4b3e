package cache

import (
	"context"
	"sync"

	"github.com/radieske/p2p-wager-live-poc/pkg/contracts/events"
)

// Memory é a célula única em memória: útil em testes e em execuções
// single-process sem Redis. Só o Manager escreve; leitores recebem o
// snapshot imutável corrente.
type Memory struct {
	mu   sync.RWMutex
	snap *events.LeaderboardSnapshot
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) SetSnapshot(_ context.Context, snap *events.LeaderboardSnapshot) error {
	m.mu.Lock()
	m.snap = snap
	m.mu.Unlock()
	return nil
}

// Snapshot retorna o último snapshot escrito, ou nil se nenhum chegou ainda.
func (m *Memory) Snapshot() *events.LeaderboardSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap
}
