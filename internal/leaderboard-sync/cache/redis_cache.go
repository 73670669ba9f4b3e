package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/p2p-wager-live-poc/pkg/contracts/events"
)

// chave Redis do snapshot corrente do leaderboard
const snapshotKey = "leaderboard:current"

// RedisCache implementa o CacheWriter do Manager sobre Redis e serve de
// store read-through compartilhado entre os serviços.
// Channel, quando definido, replica cada escrita via Pub/Sub para o
// tier de visualização (hub WebSocket do wager-view-service).
type RedisCache struct {
	Client  *redis.Client
	TTL     time.Duration
	Channel string
}

// NewRedisCache cria o cache Redis do leaderboard com TTL configurável.
func NewRedisCache(c *redis.Client, ttl time.Duration, channel string) *RedisCache {
	return &RedisCache{Client: c, TTL: ttl, Channel: channel}
}

// SetSnapshot substitui o snapshot por inteiro (last-write-wins).
func (c *RedisCache) SetSnapshot(ctx context.Context, snap *events.LeaderboardSnapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if err := c.Client.Set(ctx, snapshotKey, b, c.TTL).Err(); err != nil {
		return err
	}
	if c.Channel != "" {
		// broadcast é best-effort; a escrita no cache já aconteceu
		if err := c.Client.Publish(ctx, c.Channel, b).Err(); err != nil {
			return err
		}
	}
	return nil
}

// GetSnapshot retorna o snapshot corrente; (nil, false) quando o cache está vazio.
func (c *RedisCache) GetSnapshot(ctx context.Context) (*events.LeaderboardSnapshot, bool, error) {
	b, err := c.Client.Get(ctx, snapshotKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var snap events.LeaderboardSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, false, err
	}
	return &snap, true, nil
}
