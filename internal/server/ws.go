package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const writeWait = 2 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// StateHandler pushes every published snapshot to websocket clients as JSON.
type StateHandler struct {
	source Source
	log    zerolog.Logger
}

// NewStateHandler creates a StateHandler reading from source.
func NewStateHandler(source Source, log zerolog.Logger) *StateHandler {
	return &StateHandler{source: source, log: log}
}

// ServeHTTP upgrades the connection, sends the latest snapshot and then
// every new one until the client disconnects. Clients that fall behind
// miss snapshots rather than slow the game.
func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	updates, cancel := h.source.Subscribe()
	defer cancel()

	// Reads only detect the client going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if snap, ok := h.source.Snapshot(); ok {
		if err := h.write(conn, snap); err != nil {
			return
		}
	}

	for {
		select {
		case <-r.Context().Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return
		case <-gone:
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			if err := h.write(conn, snap); err != nil {
				h.log.Debug().Err(err).Msg("websocket write failed")
				return
			}
		}
	}
}

func (h *StateHandler) write(conn *websocket.Conn, v any) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}
