package ws

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StartRedisSubscriber inicia uma goroutine que escuta o canal Redis Pub/Sub
// alimentado pelo leaderboard-sync-service e repassa cada snapshot recebido
// para os clientes WebSocket inscritos no tópico leaderboard.
//
// O payload publicado já é o LeaderboardSnapshot serializado; aqui ele só
// é re-envelopado com o tópico, sem parse.
func StartRedisSubscriber(ctx context.Context, r *redis.Client, channel string, hub *Hub, log *zap.Logger) {
	sub := r.Subscribe(ctx, channel)
	ch := sub.Channel()
	go func() {
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close() // encerra a inscrição ao finalizar o contexto
				return
			case msg := <-ch:
				if msg == nil {
					continue
				}
				hub.Broadcast(Update{Topic: TopicLeaderboard, Payload: []byte(msg.Payload)})
			}
		}
	}()
	log.Info("redis subscriber started", zap.String("channel", channel))
}
