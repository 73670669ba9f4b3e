package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	synccache "github.com/radieske/p2p-wager-live-poc/internal/leaderboard-sync/cache"
	"github.com/radieske/p2p-wager-live-poc/internal/leaderboard-sync/client"
	sharedcache "github.com/radieske/p2p-wager-live-poc/internal/shared/cache"
	"github.com/radieske/p2p-wager-live-poc/internal/shared/config"
	sharedkafka "github.com/radieske/p2p-wager-live-poc/internal/shared/kafka"
	"github.com/radieske/p2p-wager-live-poc/internal/shared/logger"
	"github.com/radieske/p2p-wager-live-poc/internal/shared/metrics"
	"github.com/radieske/p2p-wager-live-poc/internal/wager-view/consumer"
	viewhttp "github.com/radieske/p2p-wager-live-poc/internal/wager-view/http"
	"github.com/radieske/p2p-wager-live-poc/internal/wager-view/ws"
	"github.com/radieske/p2p-wager-live-poc/pkg/contracts/events"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	// Leitura do cache compartilhado (escrito só pelo leaderboard-sync-service)
	readCache := synccache.NewRedisCache(redisClient, 0, "")
	backend := client.New(cfg.BackendAPIURL)

	api := viewhttp.NewServer(log, backend, readCache, cfg.CollateralDecimals)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Hub WebSocket: re-broadcast de snapshots (Pub/Sub) e ranks (Kafka)
	hub := ws.NewHub(func(r *http.Request) bool { return true })
	ws.StartRedisSubscriber(ctx, redisClient, cfg.RedisPubSubChannel, hub, log)

	// Métricas do consumo de notificações de rank
	rankConsumed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "view_rank_changes_consumed_total",
		Help: "notificações de rank consumidas do Kafka",
	})
	rankErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "view_rank_consumer_errors_total",
		Help: "erros do consumer de rank por estágio",
	}, []string{"stage"})
	prometheus.MustRegister(rankConsumed, rankErrors)

	reader := sharedkafka.NewReader(cfg.KafkaBrokers, cfg.TopicRankChanges, "wager-view")
	defer reader.Close()

	rankConsumer := &consumer.RankConsumer{
		Log:    log,
		Reader: reader,
		OnRankChange: func(rc events.RankChange) {
			b, _ := json.Marshal(rc)
			hub.Broadcast(ws.Update{Topic: ws.TopicRankChanges, Payload: b})
		},
		OnConsumed: func() { rankConsumed.Inc() },
		OnError:    func(stage string) { rankErrors.WithLabelValues(stage).Inc() },
	}
	go func() {
		if err := rankConsumer.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("rank consumer stopped", zap.Error(err))
		}
	}()

	// Servidor de métricas e health
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	log.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))

	// Servidor público: API REST + /ws
	mux := http.NewServeMux()
	mux.Handle("/", api.Router())
	mux.HandleFunc("/ws", hub.HandleWS)

	srv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: mux}
	go func() {
		log.Info("wager-view listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	_ = srv.Shutdown(context.Background())
	_ = metricsSrv.Shutdown(context.Background())
	log.Info("wager-view stopped")
}
