package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/p2p-wager-live-poc/pkg/contracts/events"
)

// RankConsumer consome notificações de mudança de rank do Kafka e as
// entrega ao hub WebSocket via callback. Callbacks de métricas podem ser
// usadas para monitoramento de cada etapa.
type RankConsumer struct {
	Log    *zap.Logger
	Reader *kafka.Reader

	OnRankChange func(events.RankChange)
	OnConsumed   func()       // métricas (counter++)
	OnError      func(string) // métricas por fase
}

// Run inicia o loop principal de consumo das notificações.
func (c *RankConsumer) Run(ctx context.Context) error {
	for {
		m, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err() // encerra se o contexto for cancelado
			}
			c.Log.Warn("kafka read failed", zap.Error(err))
			if c.OnError != nil {
				c.OnError("read")
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if c.OnConsumed != nil {
			c.OnConsumed()
		}

		var rc events.RankChange
		if err := json.Unmarshal(m.Value, &rc); err != nil {
			c.Log.Warn("invalid message", zap.Error(err))
			if c.OnError != nil {
				c.OnError("decode")
			}
			continue
		}

		if c.OnRankChange != nil {
			c.OnRankChange(rc)
		}
	}
}
