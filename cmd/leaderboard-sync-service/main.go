package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	synccache "github.com/radieske/p2p-wager-live-poc/internal/leaderboard-sync/cache"
	"github.com/radieske/p2p-wager-live-poc/internal/leaderboard-sync/client"
	"github.com/radieske/p2p-wager-live-poc/internal/leaderboard-sync/manager"
	"github.com/radieske/p2p-wager-live-poc/internal/leaderboard-sync/producer"
	sharedcache "github.com/radieske/p2p-wager-live-poc/internal/shared/cache"
	"github.com/radieske/p2p-wager-live-poc/internal/shared/config"
	sharedkafka "github.com/radieske/p2p-wager-live-poc/internal/shared/kafka"
	"github.com/radieske/p2p-wager-live-poc/internal/shared/logger"
	"github.com/radieske/p2p-wager-live-poc/internal/shared/metrics"
	"github.com/radieske/p2p-wager-live-poc/pkg/contracts/events"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Inicializa dependências: Redis (cache compartilhado) e Kafka (notificações)
	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	writer := sharedkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicRankChanges)
	defer writer.Close()
	rankPub := producer.NewKafkaPublisher(writer, cfg.TopicRankChanges)

	// Cache Redis com broadcast Pub/Sub pro tier de visualização
	ttl := 5 * time.Minute
	cacheWriter := synccache.NewRedisCache(redisClient, ttl, cfg.RedisPubSubChannel)

	backend := client.New(cfg.BackendAPIURL)

	// Métricas Prometheus do ciclo de sincronização
	stateGauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sync_connection_state",
		Help: "estado corrente da conexão (1 no estado ativo)",
	}, []string{"state"})
	dropped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_payloads_dropped_total",
		Help: "payloads malformados descartados por estágio",
	}, []string{"stage"})
	polls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_polls_total",
		Help: "pulls no modo polling por resultado",
	}, []string{"result"})
	rankPublished := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sync_rank_changes_published_total",
		Help: "notificações de rank publicadas no Kafka",
	})
	prometheus.MustRegister(stateGauge, dropped, polls, rankPublished)

	// Dialer nil => endpoint não configurado => Manager nasce em disabled
	var dialer manager.Dialer
	if cfg.BackendWSURL != "" {
		dialer = &manager.WSDialer{URL: cfg.BackendWSURL}
	}

	hooks := manager.Hooks{
		// Notificação transitória: publica no Kafka pro tier de visualização animar
		OnRankChange: func(rc events.RankChange) {
			ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()
			if err := rankPub.PublishRankChange(ctx, rc); err != nil {
				log.Warn("rank change publish failed", zap.Error(err))
				return
			}
			rankPublished.Inc()
		},
		OnDropped: func(stage string, err error) {
			dropped.WithLabelValues(stage).Inc()
		},
		OnPoll: func(err error) {
			if err != nil {
				polls.WithLabelValues("error").Inc()
				return
			}
			polls.WithLabelValues("ok").Inc()
		},
	}

	mgr := manager.New(log, dialer, backend, cacheWriter, hooks, manager.DefaultTimings())

	// Gauge de estado acompanha cada transição da máquina
	allStates := []manager.State{
		manager.StateDisabled, manager.StateConnecting, manager.StateConnected,
		manager.StateError, manager.StatePolling,
	}
	unsubscribe := mgr.Subscribe(func(st manager.Status) {
		for _, s := range allStates {
			v := 0.0
			if s == st.State {
				v = 1.0
			}
			stateGauge.WithLabelValues(string(s)).Set(v)
		}
	})
	defer unsubscribe()

	mgr.Start()

	// Leitura pública do estado da conexão (views consultam aqui)
	go func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/v1/sync/status", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(mgr.Status())
		})
		addr := ":" + cfg.HTTPPort
		log.Info("status server listening", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, mux)
	}()

	// Servidor de métricas e health
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	log.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("leaderboard-sync started")
	<-ctx.Done()
	log.Info("shutdown signal received")

	// Teardown determinístico: nenhum timer sobrevive ao Stop
	mgr.Stop()
	_ = metricsSrv.Shutdown(context.Background())
	log.Info("leaderboard-sync stopped")
}
