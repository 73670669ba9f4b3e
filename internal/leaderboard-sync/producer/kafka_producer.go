package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/radieske/p2p-wager-live-poc/pkg/contracts/events"
)

// KafkaPublisher publica notificações de mudança de rank no tópico Kafka.
// Chave = endereço do agente, garantindo ordem por partição por agente.
type KafkaPublisher struct {
	Writer *kafka.Writer
	Topic  string
}

func NewKafkaPublisher(w *kafka.Writer, topic string) *KafkaPublisher {
	return &KafkaPublisher{Writer: w, Topic: topic}
}

func (p *KafkaPublisher) PublishRankChange(ctx context.Context, rc events.RankChange) error {
	rc.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(rc)
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(rc.Address),
		Value: b,
	})
}
