package manager

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/p2p-wager-live-poc/pkg/contracts/events"
)

// Nomes dos eventos nomeados do push channel. Frames sem envelope de evento
// são tratados como snapshot completo.
const (
	EventLeaderboardUpdate = "leaderboard_update"
	EventRankChange        = "rank_change"
)

// CacheWriter é a capacidade injetada de escrita no cache compartilhado.
// O Manager é o único escritor; leitores consomem snapshots imutáveis.
type CacheWriter interface {
	SetSnapshot(ctx context.Context, snap *events.LeaderboardSnapshot) error
}

// SnapshotPuller é o endpoint pull do backend, usado no modo polling.
// Mesma forma de payload do load inicial.
type SnapshotPuller interface {
	PullSnapshot(ctx context.Context) (*events.LeaderboardSnapshot, error)
}

// Stream é uma conexão aberta do push channel.
// Next bloqueia até o próximo frame; erro indica canal quebrado.
type Stream interface {
	Next() ([]byte, error)
	Close() error
}

// Dialer abre o push channel do leaderboard.
type Dialer interface {
	Dial(ctx context.Context) (Stream, error)
}

// Timings parametriza backoff e polling. Defaults em DefaultTimings.
type Timings struct {
	BaseDelay    time.Duration // delay base do backoff exponencial
	MaxDelay     time.Duration // teto do backoff
	MaxFailures  int           // falhas consecutivas antes do fallback pra polling
	PollInterval time.Duration // intervalo do pull no modo polling
	WriteTimeout time.Duration // timeout de escrita no cache / pull
}

func DefaultTimings() Timings {
	return Timings{
		BaseDelay:    1 * time.Second,
		MaxDelay:     30 * time.Second,
		MaxFailures:  3,
		PollInterval: 30 * time.Second,
		WriteTimeout: 2 * time.Second,
	}
}

// Hooks são callbacks de observabilidade, no mesmo espírito dos callbacks
// de métrica do restante da plataforma. Todos opcionais.
type Hooks struct {
	OnRankChange func(events.RankChange)       // notificação transitória; não toca o cache
	OnDropped    func(stage string, err error) // payload malformado descartado
	OnPoll       func(err error)               // resultado de cada pull no modo polling
}

// Manager mantém o snapshot do leaderboard sincronizado via push channel,
// degradando pra polling quando o canal se mostra insalubre.
//
// Máquina de estados:
//
//	disabled    -> (terminal; endpoint não configurado)
//	connecting  -> connected | error
//	connected   -> error (queda de rede, close do servidor, stream quebrado)
//	error       -> connecting (após backoff, enquanto falhas < MaxFailures)
//	error       -> polling (falhas >= MaxFailures; permanente até Stop)
//
// Uma vez em polling o push channel não é retentado nesta instância;
// recuperação exige recriar o Manager.
type Manager struct {
	log    *zap.Logger
	dialer Dialer
	puller SnapshotPuller
	cache  CacheWriter
	hooks  Hooks
	t      Timings

	mu      sync.RWMutex
	state   State
	attempt int
	subs    map[int]func(Status)
	nextSub int

	started  bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// New cria um Manager. dialer nil indica endpoint não configurado:
// o Manager nasce (e permanece) em disabled.
func New(log *zap.Logger, dialer Dialer, puller SnapshotPuller, cache CacheWriter, hooks Hooks, t Timings) *Manager {
	if t.BaseDelay <= 0 {
		t = DefaultTimings()
	}
	m := &Manager{
		log:    log,
		dialer: dialer,
		puller: puller,
		cache:  cache,
		hooks:  hooks,
		t:      t,
		state:  StateConnecting,
		subs:   make(map[int]func(Status)),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	if dialer == nil {
		m.state = StateDisabled
	}
	return m
}

// Start inicia o loop de sincronização em goroutine própria.
func (m *Manager) Start() {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.mu.Unlock()
	go m.run()
}

// Stop encerra o loop e cancela deterministicamente timer de backoff,
// ticker de polling e a leitura do stream. Bloqueia até o teardown completo:
// após o retorno, nenhuma escrita no cache acontece.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
	m.mu.RLock()
	started := m.started
	m.mu.RUnlock()
	if started {
		<-m.done
	}
}

// Status retorna a leitura corrente do estado da conexão.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.statusLocked()
}

// Subscribe registra um observador de mudanças de estado e retorna
// a função de cancelamento da assinatura.
func (m *Manager) Subscribe(fn func(Status)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *Manager) run() {
	defer close(m.done)

	if m.dialer == nil {
		// disabled é terminal: sem transições, sem retry
		m.log.Warn("push endpoint not configured, manager disabled")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-m.stop
		cancel()
	}()

	for {
		m.setState(StateConnecting)
		stream, err := m.dialer.Dial(ctx)
		if err == nil {
			m.onConnected()
			err = m.readLoop(stream)
			_ = stream.Close()
		}
		if m.stopped() {
			return
		}
		m.log.Warn("push channel failed", zap.Error(err))
		m.setState(StateError)

		m.mu.Lock()
		failures := m.attempt
		m.attempt++
		m.mu.Unlock()

		if failures+1 >= m.t.MaxFailures {
			// canal abandonado pelo resto da vida desta instância
			m.log.Info("push channel abandoned, falling back to polling",
				zap.Int("failures", failures+1))
			m.pollLoop(ctx)
			return
		}

		timer := time.NewTimer(m.backoff(failures))
		select {
		case <-m.stop:
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// readLoop consome frames até o canal quebrar ou o Manager parar.
func (m *Manager) readLoop(s Stream) error {
	for {
		frame, err := s.Next()
		if err != nil {
			return err
		}
		if m.stopped() {
			return nil
		}
		m.handleFrame(frame)
	}
}

// handleFrame aplica um frame recebido do push channel.
// Payloads malformados são descartados via hook, sem transição de estado:
// o último valor válido do cache é mantido.
func (m *Manager) handleFrame(frame []byte) {
	var env struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(frame, &env); err != nil {
		m.dropped("decode", err)
		return
	}

	switch env.Event {
	case "":
		// frame default: o corpo inteiro é um snapshot completo
		m.applySnapshot(frame)
	case EventLeaderboardUpdate:
		m.applySnapshot(env.Data)
	case EventRankChange:
		var rc events.RankChange
		if err := json.Unmarshal(env.Data, &rc); err != nil {
			m.dropped("rank_change", err)
			return
		}
		if m.hooks.OnRankChange != nil {
			m.hooks.OnRankChange(rc)
		}
	default:
		m.dropped("event", fmt.Errorf("unknown event %q", env.Event))
	}
}

// applySnapshot substitui o cache por inteiro (last-write-wins).
func (m *Manager) applySnapshot(payload []byte) {
	var snap events.LeaderboardSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		m.dropped("snapshot", err)
		return
	}
	if snap.Leaderboard == nil {
		m.dropped("snapshot", fmt.Errorf("payload without leaderboard"))
		return
	}
	if snap.UpdatedAt.IsZero() {
		snap.UpdatedAt = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.t.WriteTimeout)
	defer cancel()
	if err := m.cache.SetSnapshot(ctx, &snap); err != nil {
		// falha de cache é transitória; próximo frame tenta de novo
		m.log.Warn("cache write failed", zap.Error(err))
	}
}

// pollLoop faz um pull imediato e depois um a cada PollInterval.
// Falhas de pull são engolidas: sem estado extra, tenta no próximo tick.
func (m *Manager) pollLoop(ctx context.Context) {
	m.setState(StatePolling)
	m.pullOnce(ctx)

	ticker := time.NewTicker(m.t.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.pullOnce(ctx)
		}
	}
}

func (m *Manager) pullOnce(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, m.t.WriteTimeout)
	defer cancel()

	snap, err := m.puller.PullSnapshot(pctx)
	if m.hooks.OnPoll != nil {
		m.hooks.OnPoll(err)
	}
	if err != nil {
		m.log.Warn("poll failed", zap.Error(err))
		return
	}
	if m.stopped() {
		return
	}
	if err := m.cache.SetSnapshot(pctx, snap); err != nil {
		m.log.Warn("cache write failed", zap.Error(err))
	}
}

func (m *Manager) backoff(failures int) time.Duration {
	d := m.t.BaseDelay << uint(failures)
	if d > m.t.MaxDelay {
		d = m.t.MaxDelay
	}
	return d
}

func (m *Manager) onConnected() {
	m.mu.Lock()
	m.attempt = 0
	changed := m.state != StateConnected
	m.state = StateConnected
	st := m.statusLocked()
	subs := m.subscribersLocked()
	m.mu.Unlock()
	if changed {
		m.log.Info("push channel connected")
		m.notify(subs, st)
	}
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	if m.state == s {
		m.mu.Unlock()
		return
	}
	m.state = s
	st := m.statusLocked()
	subs := m.subscribersLocked()
	m.mu.Unlock()
	m.notify(subs, st)
}

func (m *Manager) statusLocked() Status {
	return Status{
		State:            m.state,
		IsConnected:      m.state == StateConnected,
		IsPolling:        m.state == StatePolling,
		ReconnectAttempt: m.attempt,
	}
}

func (m *Manager) subscribersLocked() []func(Status) {
	out := make([]func(Status), 0, len(m.subs))
	for _, fn := range m.subs {
		out = append(out, fn)
	}
	return out
}

func (m *Manager) notify(subs []func(Status), st Status) {
	for _, fn := range subs {
		fn(st)
	}
}

func (m *Manager) dropped(stage string, err error) {
	m.log.Warn("invalid payload dropped", zap.String("stage", stage), zap.Error(err))
	if m.hooks.OnDropped != nil {
		m.hooks.OnDropped(stage, err)
	}
}

func (m *Manager) stopped() bool {
	select {
	case <-m.stop:
		return true
	default:
		return false
	}
}
