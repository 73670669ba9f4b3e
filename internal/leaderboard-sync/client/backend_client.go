package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/radieske/p2p-wager-live-poc/pkg/contracts/events"
)

// Client consome os endpoints REST do backend externo (API + contratos):
// snapshot do leaderboard, registro de aposta e registro de resolução.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

// PullSnapshot busca o snapshot completo do leaderboard.
// Mesmo endpoint usado pelo load inicial e pelo polling do Manager.
func (c *Client) PullSnapshot(ctx context.Context) (*events.LeaderboardSnapshot, error) {
	var snap events.LeaderboardSnapshot
	found, err := c.getJSON(ctx, "/v1/leaderboard", &snap)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("leaderboard endpoint returned 404")
	}
	return &snap, nil
}

// GetWager busca o registro de uma aposta pelo id.
// 404 retorna (nil, nil): registro inexistente não é erro de transporte.
func (c *Client) GetWager(ctx context.Context, id string) (*events.Wager, error) {
	var w events.Wager
	found, err := c.getJSON(ctx, "/v1/wagers/"+id, &w)
	if err != nil || !found {
		return nil, err
	}
	return &w, nil
}

// GetResolution busca o registro de resolução de uma aposta.
// 404 significa "ainda não resolvida" e retorna (nil, nil), não erro.
func (c *Client) GetResolution(ctx context.Context, wagerID string) (*events.Resolution, error) {
	var r events.Resolution
	found, err := c.getJSON(ctx, "/v1/wagers/"+wagerID+"/resolution", &r)
	if err != nil || !found {
		return nil, err
	}
	return &r, nil
}

// getJSON faz GET e desserializa em dst; retorna found=false em 404.
func (c *Client) getJSON(ctx context.Context, path string, dst any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return false, err
	}
	res, err := c.HTTP.Do(req)
	if err != nil {
		return false, err
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if res.StatusCode >= 300 {
		return false, fmt.Errorf("backend %s http %d", path, res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		return false, err
	}
	return true, nil
}
