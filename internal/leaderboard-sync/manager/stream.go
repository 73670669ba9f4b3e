package manager

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
)

// WSDialer abre o push channel do leaderboard via WebSocket.
type WSDialer struct {
	URL string
}

func (d *WSDialer) Dial(ctx context.Context) (Stream, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, d.URL, nil)
	if err != nil {
		return nil, err
	}
	s := &wsStream{conn: conn, closed: make(chan struct{})}

	// fecha a conexão quando o contexto cair, desbloqueando ReadMessage
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-s.closed:
		}
	}()

	return s, nil
}

type wsStream struct {
	conn   *websocket.Conn
	once   sync.Once
	closed chan struct{}
}

func (s *wsStream) Next() ([]byte, error) {
	_, b, err := s.conn.ReadMessage()
	return b, err
}

func (s *wsStream) Close() error {
	s.once.Do(func() { close(s.closed) })
	return s.conn.Close()
}
