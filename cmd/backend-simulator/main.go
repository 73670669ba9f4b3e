package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/radieske/p2p-wager-live-poc/internal/shared/config"
	"github.com/radieske/p2p-wager-live-poc/internal/shared/logger"
	"github.com/radieske/p2p-wager-live-poc/pkg/contracts/events"
)

var (
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	// Catálogo fixo de agentes simulados para geração do leaderboard
	agentCatalog = []string{
		"0xA1b2C3d4E5f60718293A4b5C6d7E8F9012345678",
		"0xB2c3D4e5F60718293a4B5c6D7e8f901234567890",
		"0xC3d4E5f60718293A4b5C6d7E8F90123456789012",
		"0xD4e5F60718293a4B5c6D7e8f9012345678901234",
		"0xE5f60718293A4b5C6d7E8F901234567890123456",
		"0xF60718293a4B5c6D7e8f90123456789012345678",
	}

	// Métricas Prometheus para monitoramento de conexões e mensagens
	wsConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "backend_ws_connections",
		Help: "Clientes WebSocket conectados",
	})
	wsMessagesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "backend_ws_messages_sent_total",
		Help: "Total de mensagens WS enviadas",
	})
)

// Representa uma conexão de cliente WebSocket
type clientConn struct {
	id   string
	conn *websocket.Conn
}

// Estrutura responsável por gerenciar os clientes conectados via WebSocket
// e realizar broadcast de mensagens para todos eles.
type hub struct {
	mu      sync.RWMutex
	clients map[string]*clientConn
	log     *zap.Logger
}

func newHub(log *zap.Logger) *hub {
	return &hub{
		clients: make(map[string]*clientConn),
		log:     log,
	}
}

// Adiciona um novo cliente ao hub e incrementa a métrica de conexões
func (h *hub) add(c *clientConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
	wsConnections.Inc()
	h.log.Info("ws client connected", zap.String("client_id", c.id))
}

// Remove um cliente do hub e decrementa a métrica de conexões
func (h *hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[id]; ok {
		delete(h.clients, id)
		wsConnections.Dec()
		h.log.Info("ws client disconnected", zap.String("client_id", id))
	}
}

// Envia uma mensagem para todos os clientes conectados
func (h *hub) broadcast(v any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	msg, _ := json.Marshal(v)
	for id, c := range h.clients {
		c.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.Warn("ws write failed", zap.String("client_id", id), zap.Error(err))
			_ = c.conn.Close()
		} else {
			wsMessagesSent.Inc()
		}
	}
}

// world mantém o estado simulado: agentes, snapshot corrente e apostas
type world struct {
	mu          sync.RWMutex
	pnl         map[string]int64
	snapshot    events.LeaderboardSnapshot
	wagers      map[string]*events.Wager
	resolutions map[string]*events.Resolution
}

func newWorld() *world {
	w := &world{
		pnl:         make(map[string]int64),
		wagers:      make(map[string]*events.Wager),
		resolutions: make(map[string]*events.Resolution),
	}
	for _, addr := range agentCatalog {
		w.pnl[addr] = int64(rnd(-500, 2000)) * 1_000_000 // unidades base (6 casas)
	}
	w.seedWagers()
	w.rebuild()
	return w
}

// rebuild recalcula o snapshot ordenado por PnL e retorna as mudanças de rank
func (w *world) rebuild() []events.RankChange {
	w.mu.Lock()
	defer w.mu.Unlock()

	prev := make(map[string]int, len(w.snapshot.Leaderboard))
	for _, r := range w.snapshot.Leaderboard {
		prev[r.Address] = r.Rank
	}

	addrs := append([]string(nil), agentCatalog...)
	sort.Slice(addrs, func(i, j int) bool { return w.pnl[addrs[i]] > w.pnl[addrs[j]] })

	rankings := make([]events.AgentRanking, len(addrs))
	var changes []events.RankChange
	for i, addr := range addrs {
		rank := i + 1
		betCount := 10 + i*7
		volume := int64(5000+i*1500) * 1_000_000
		rankings[i] = events.AgentRanking{
			Rank:           rank,
			Address:        addr,
			PnL:            w.pnl[addr],
			WinRate:        0.35 + 0.08*float64(len(addrs)-i),
			ROI:            float64(w.pnl[addr]) / float64(volume),
			Volume:         volume,
			BetCount:       betCount,
			PortfolioValue: w.pnl[addr] + 10_000_000_000,
			AvgBetSize:     volume / int64(betCount),
			LastActiveAt:   time.Now().UTC(),
		}
		if old, ok := prev[addr]; ok && old != rank {
			changes = append(changes, events.RankChange{Address: addr, OldRank: old, NewRank: rank})
		}
	}

	w.snapshot = events.LeaderboardSnapshot{Leaderboard: rankings, UpdatedAt: time.Now().UTC()}
	return changes
}

// drift aplica um passeio aleatório no PnL de cada agente
func (w *world) drift() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, addr := range agentCatalog {
		w.pnl[addr] += int64(rnd(-200, 200)) * 1_000_000
	}
}

// seedWagers popula apostas em estágios variados do ciclo de vida,
// incluindo uma em settling com janela de disputa aberta.
func (w *world) seedWagers() {
	now := time.Now().UTC()
	mk := func(status string, matched int64) *events.Wager {
		return &events.Wager{
			ID:             uuid.NewString(),
			Creator:        agentCatalog[0],
			Counterparties: []string{agentCatalog[1], agentCatalog[2]},
			CreatorStake:   100_000_000, // $100.00
			RequiredMatch:  50_000_000,
			MatchedAmount:  matched,
			OddsBps:        20000,
			Status:         status,
			CreatedAt:      now.Add(-6 * time.Hour),
		}
	}

	pending := mk(events.WagerPending, 0)
	partial := mk(events.WagerPartiallyMatched, 25_000_000)
	settling := mk(events.WagerSettling, 50_000_000)
	settled := mk(events.WagerSettled, 50_000_000)
	anomalous := mk(events.WagerPending, 0)
	anomalous.OddsBps = 0 // leniência do motor de odds em ação

	for _, wg := range []*events.Wager{pending, partial, settling, settled, anomalous} {
		w.wagers[wg.ID] = wg
	}

	consensusAt := now.Add(-30 * time.Minute)
	scoreA, scoreB := int64(247), int64(-123)
	w.resolutions[settling.ID] = &events.Resolution{
		WagerID:          settling.ID,
		ConsensusReached: true,
		ConsensusAt:      &consensusAt,
		JudgeAScoreBps:   &scoreA,
		JudgeBScoreBps:   &scoreB,
		AvgScoreBps:      (scoreA + scoreB) / 2,
		Winner:           settling.Creator,
		Loser:            settling.Counterparties[0],
		PotAmount:        150_000_000,
		FeeAmount:        3_000_000,
	}

	settledAt := now.Add(-1 * time.Hour)
	oldConsensus := now.Add(-4 * time.Hour)
	w.resolutions[settled.ID] = &events.Resolution{
		WagerID:          settled.ID,
		ConsensusReached: true,
		ConsensusAt:      &oldConsensus,
		AvgScoreBps:      120,
		Winner:           settled.Creator,
		Loser:            settled.Counterparties[0],
		PotAmount:        150_000_000,
		FeeAmount:        3_000_000,
		SettledAt:        &settledAt,
		SettlementProof:  "0x" + strings.Repeat("ab", 32),
	}
}

func (w *world) currentSnapshot() events.LeaderboardSnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.snapshot
}

// gera número aleatório entre min e max
func rnd(min, max float64) float64 {
	return (rand.Float64() * (max - min)) + min
}

// envelope de evento nomeado do push channel
type wsEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	prometheus.MustRegister(wsConnections, wsMessagesSent)

	h := newHub(log)
	w := newWorld()

	for id, wg := range w.wagers {
		log.Info("seeded wager", zap.String("wager_id", id), zap.String("status", wg.Status))
	}

	// Gera e envia atualizações do leaderboard a cada 3 segundos.
	// Alterna entre o frame default (snapshot puro) e o evento nomeado,
	// e emite rank_change sempre que posições trocam.
	go func() {
		ticker := time.NewTicker(3 * time.Second)
		defer ticker.Stop()
		labeled := false
		for range ticker.C {
			w.drift()
			changes := w.rebuild()
			snap := w.currentSnapshot()

			if labeled {
				h.broadcast(wsEvent{Event: "leaderboard_update", Data: snap})
			} else {
				h.broadcast(snap)
			}
			labeled = !labeled

			for _, rc := range changes {
				h.broadcast(wsEvent{Event: "rank_change", Data: rc})
			}
		}
	}()

	// ==== MUX PÚBLICO: /ws/leaderboard + endpoints REST de pull
	appMux := http.NewServeMux()

	appMux.HandleFunc("/ws/leaderboard", func(rw http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(rw, r, nil)
		if err != nil {
			log.Warn("ws upgrade failed", zap.Error(err))
			return
		}
		id := fmt.Sprintf("%d", time.Now().UnixNano())
		c := &clientConn{id: id, conn: conn}
		h.add(c)

		// Goroutine para manter a conexão viva e remover cliente ao desconectar
		go func() {
			defer func() {
				h.remove(id)
				_ = conn.Close()
			}()
			_ = conn.SetReadDeadline(time.Time{})
			for {
				// Lê e descarta mensagens do cliente para manter o socket limpo
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	})

	appMux.HandleFunc("/v1/leaderboard", func(rw http.ResponseWriter, r *http.Request) {
		writeJSON(rw, http.StatusOK, w.currentSnapshot())
	})

	appMux.HandleFunc("/v1/wagers/", func(rw http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/v1/wagers/")
		id, isResolution := rest, false
		if strings.HasSuffix(rest, "/resolution") {
			id = strings.TrimSuffix(rest, "/resolution")
			isResolution = true
		}

		w.mu.RLock()
		wager := w.wagers[id]
		resolution := w.resolutions[id]
		w.mu.RUnlock()

		if isResolution {
			// 404 = "ainda não resolvida", resposta válida pro core
			if resolution == nil {
				http.Error(rw, "not found", http.StatusNotFound)
				return
			}
			writeJSON(rw, http.StatusOK, resolution)
			return
		}
		if wager == nil {
			http.Error(rw, "not found", http.StatusNotFound)
			return
		}
		writeJSON(rw, http.StatusOK, wager)
	})

	// ==== MUX DE MÉTRICAS (/healthz, /metrics)
	metricsMux := http.NewServeMux()
	metricsMux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok"))
	})
	metricsMux.Handle("/metrics", promhttp.Handler())

	go func() {
		metricsAddr := ":" + cfg.MetricsPort
		log.Info("backend simulator (metrics) running",
			zap.String("addr", metricsAddr),
			zap.String("paths", "/healthz,/metrics"),
		)
		if err := http.ListenAndServe(metricsAddr, metricsMux); err != nil {
			log.Fatal("metrics server error", zap.Error(err))
		}
	}()

	publicAddr := ":" + cfg.HTTPPort
	log.Info("backend simulator (public) running",
		zap.String("addr", publicAddr),
		zap.String("paths", "/ws/leaderboard,/v1/leaderboard,/v1/wagers"),
	)
	if err := http.ListenAndServe(publicAddr, appMux); err != nil {
		log.Fatal("public server error", zap.Error(err))
	}
}

func writeJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}
