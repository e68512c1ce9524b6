package network

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zbonzo/Warlock-sub004/internal/constants"
	"github.com/zbonzo/Warlock-sub004/internal/logging"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Broadcaster fans live round updates out to websocket watchers, keyed by
// game ID. Payloads are already redacted by the caller; the broadcaster
// only moves bytes.
type Broadcaster struct {
	mu      sync.Mutex
	watchers map[uint]map[*watcher]struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{watchers: make(map[uint]map[*watcher]struct{})}
}

type watcher struct {
	conn *websocket.Conn
	send chan interface{}
}

// Watch registers the connection as a watcher of the given game and blocks
// until the connection drops. The connection is closed on return.
func (b *Broadcaster) Watch(gameID uint, conn *websocket.Conn) {
	w := &watcher{conn: conn, send: make(chan interface{}, 16)}

	b.mu.Lock()
	if b.watchers[gameID] == nil {
		b.watchers[gameID] = make(map[*watcher]struct{})
	}
	b.watchers[gameID][w] = struct{}{}
	b.mu.Unlock()

	done := make(chan struct{})
	go w.writePump(done)
	w.readPump()
	close(done)

	b.mu.Lock()
	delete(b.watchers[gameID], w)
	if len(b.watchers[gameID]) == 0 {
		delete(b.watchers, gameID)
	}
	b.mu.Unlock()
	_ = conn.Close()
}

// Broadcast sends the payload to every watcher of the game. Slow watchers
// are skipped rather than blocking the round pipeline.
func (b *Broadcaster) Broadcast(gameID uint, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for w := range b.watchers[gameID] {
		select {
		case w.send <- payload:
		default:
			logging.Warn("dropping update for slow watcher", logging.Fields{constants.LogFieldGameID: gameID})
		}
	}
}

// readPump drains (and discards) client frames so pong handling works and
// closed connections are noticed.
func (w *watcher) readPump() {
	w.conn.SetReadLimit(512)
	_ = w.conn.SetReadDeadline(time.Now().Add(pongWait))
	w.conn.SetPongHandler(func(string) error {
		return w.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := w.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (w *watcher) writePump(done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case payload := <-w.send:
			_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := w.conn.WriteJSON(payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := w.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
