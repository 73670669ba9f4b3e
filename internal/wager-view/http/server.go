package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	syncache "github.com/radieske/p2p-wager-live-poc/internal/leaderboard-sync/cache"
	"github.com/radieske/p2p-wager-live-poc/internal/leaderboard-sync/client"
	"github.com/radieske/p2p-wager-live-poc/internal/wager-view/dispute"
	"github.com/radieske/p2p-wager-live-poc/internal/wager-view/dto"
	"github.com/radieske/p2p-wager-live-poc/internal/wager-view/odds"
)

// Server expõe a API de visualização: leaderboard (cache-first),
// visão de odds por aposta e elegibilidade de disputa.
type Server struct {
	log      *zap.Logger
	backend  *client.Client
	cache    *syncache.RedisCache
	decimals int // casas decimais do colateral (USDC = 6)
}

// NewServer instancia o servidor HTTP do wager-view-service.
func NewServer(log *zap.Logger, backend *client.Client, cache *syncache.RedisCache, decimals int) *Server {
	return &Server{log: log, backend: backend, cache: cache, decimals: decimals}
}

// Router retorna o mux HTTP com as rotas da API de visualização
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/leaderboard", s.getLeaderboard) // GET
	mux.HandleFunc("/v1/wagers/", s.wagerRoutes)        // GET /v1/wagers/{id}/odds | .../dispute-eligibility
	return mux
}

// getLeaderboard serve o snapshot corrente do cache compartilhado.
// Cache vazio cai pro pull direto no backend, sem escrever de volta:
// o único escritor do cache é o Manager do leaderboard-sync-service.
func (s *Server) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap, ok, err := s.cache.GetSnapshot(r.Context())
	if err != nil {
		s.log.Warn("cache read failed", zap.Error(err))
	}
	if ok {
		writeJSON(w, http.StatusOK, snap)
		return
	}

	snap, err = s.backend.PullSnapshot(r.Context())
	if err != nil {
		http.Error(w, "leaderboard unavailable", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// wagerRoutes despacha /v1/wagers/{id}/odds e /v1/wagers/{id}/dispute-eligibility
func (s *Server) wagerRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/v1/wagers/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" {
		http.Error(w, "wagerId required", http.StatusBadRequest)
		return
	}
	id, action := parts[0], parts[1]

	switch action {
	case "odds":
		s.getOddsView(w, r, id)
	case "dispute-eligibility":
		s.getDisputeEligibility(w, r, id)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// getOddsView retorna a visão financeira derivada de uma aposta.
func (s *Server) getOddsView(w http.ResponseWriter, r *http.Request, id string) {
	wg, err := s.backend.GetWager(r.Context(), id)
	if err != nil {
		http.Error(w, "backend unavailable", http.StatusBadGateway)
		return
	}
	if wg == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	view := odds.ComputeOddsView(wg, s.decimals)
	if view.Anomalous {
		// leniência documentada: normalizado pra 1.00x, nunca rejeitado
		s.log.Warn("anomalous oddsBps normalized",
			zap.String("wager_id", id),
			zap.Int64("odds_bps", wg.OddsBps),
		)
	}

	writeJSON(w, http.StatusOK, dto.OddsResponse{WagerID: id, Status: wg.Status, View: view})
}

// getDisputeEligibility decide se a ação "raise dispute" pode ser oferecida
// pro endereço informado (?address=), com o motivo exato quando não pode.
func (s *Server) getDisputeEligibility(w http.ResponseWriter, r *http.Request, id string) {
	addr := r.URL.Query().Get("address")

	wg, err := s.backend.GetWager(r.Context(), id)
	if err != nil {
		http.Error(w, "backend unavailable", http.StatusBadGateway)
		return
	}
	res, err := s.backend.GetResolution(r.Context(), id)
	if err != nil {
		http.Error(w, "backend unavailable", http.StatusBadGateway)
		return
	}

	elig := dispute.Evaluate(res, wg, addr, time.Now().UTC())

	resp := dto.DisputeEligibilityResponse{
		WagerID:       id,
		Eligibility:   elig,
		TimeRemaining: dispute.FormatTimeRemaining(time.Duration(elig.TimeRemainingMs) * time.Millisecond),
	}
	if res != nil {
		resp.JudgeAScore = dispute.FormatJudgeScore(res.JudgeAScoreBps)
		resp.JudgeBScore = dispute.FormatJudgeScore(res.JudgeBScoreBps)
		resp.AvgScore = dispute.FormatJudgeScore(&res.AvgScoreBps)
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
