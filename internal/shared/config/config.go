package config

import (
	"os"
	"strconv"

	ctopics "github.com/radieske/p2p-wager-live-poc/pkg/contracts/topics"
)

// Config centraliza variáveis de ambiente e parâmetros de execução dos serviços
// Inclui conexões, tópicos, canais, URLs e portas
type Config struct {
	Env         string // "local", "dev", "prod"
	ServiceName string // ex: "leaderboard-sync-service", "wager-view-service", ...

	RedisAddr    string
	KafkaBrokers string // "a:9092,b:9092"

	// Tópicos/canais
	TopicRankChanges   string
	RedisPubSubChannel string

	// Backend externo (API + contratos, fora do escopo deste core)
	BackendAPIURL string // REST: snapshot, wagers, resolutions
	BackendWSURL  string // push channel do leaderboard; vazio => estado "disabled"

	// Colateral
	CollateralDecimals int // casas decimais do asset de colateral (USDC = 6)

	// Portas do serviço atual
	HTTPPort    string // Porta pública (ex.: API REST)
	MetricsPort string // Porta exclusiva para /metrics e /healthz
}

// Load carrega variáveis de ambiente e define defaults para cada serviço
// Resolve portas e tópicos conforme o SERVICE_NAME
func Load() Config {
	svc := getEnv("SERVICE_NAME", "")
	env := getEnv("ENV", "local")

	cfg := Config{
		Env:         env,
		ServiceName: svc,

		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers: getEnv("KAFKA_BROKERS", "localhost:9092"),

		TopicRankChanges:   getEnv("KAFKA_TOPIC_RANK_CHANGES", ctopics.RankChanges),
		RedisPubSubChannel: getEnv("REDIS_PUBSUB_CHANNEL", ctopics.LeaderboardBroadcast),

		BackendAPIURL: getEnv("BACKEND_API_URL", "http://localhost:8091"),
		BackendWSURL:  getEnv("BACKEND_WS_URL", "ws://localhost:8091/ws/leaderboard"),

		CollateralDecimals: getEnvInt("COLLATERAL_DECIMALS", 6),
	}

	// Define portas padrão para cada serviço
	switch svc {
	case "leaderboard-sync-service":
		cfg.HTTPPort = getEnv("HTTP_PORT_SYNC", "8084")
		cfg.MetricsPort = getEnv("METRICS_PORT_SYNC", "9096")
	case "wager-view-service":
		cfg.HTTPPort = getEnv("HTTP_PORT", "8080")
		cfg.MetricsPort = getEnv("METRICS_PORT", "9095")
	case "backend-simulator":
		cfg.HTTPPort = getEnv("HTTP_PORT_BACKEND", "8091")
		cfg.MetricsPort = getEnv("METRICS_PORT_BACKEND", "9094")
	default:
		cfg.HTTPPort = getEnv("HTTP_PORT", "8080")
		cfg.MetricsPort = getEnv("METRICS_PORT", "9095")
	}

	return cfg
}

// getEnv retorna o valor da variável de ambiente ou o default
func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

// getEnvInt idem, convertendo para inteiro; valores inválidos caem no default
func getEnvInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
