package spectate

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var ErrUnknownMatch = errors.New("unknown match")

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 25 * time.Second
	readLimit  = 1 << 10
)

var upgrader = websocket.Upgrader{
	// Renderers are served from anywhere; the feed is read-only.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler serves the spectator API:
//
//	GET /matches                      live match ids as JSON
//	GET /matches/{id}[?format=msgpack] websocket snapshot stream
func Handler(h *Hub) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /matches", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(h.Matches()); err != nil {
			h.log.Error("write match list", "error", err)
		}
	})
	mux.HandleFunc("GET /matches/{id}", h.serveMatch)
	return mux
}

func (h *Hub) serveMatch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid match id", http.StatusBadRequest)
		return
	}
	match := id.String()

	format := FormatJSON
	if r.URL.Query().Get("format") == "msgpack" {
		format = FormatMsgpack
	}

	sub, err := h.subscribe(match, format)
	if err != nil {
		if errors.Is(err, ErrUnknownMatch) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.unsubscribe(match, sub)
		h.log.Warn("spectator upgrade failed", "match", match, "error", err)
		return
	}
	h.log.Info("spectator joined", "match", match, "remote", r.RemoteAddr)

	go h.readPump(match, sub, conn)
	h.writePump(sub, conn)
	h.log.Info("spectator left", "match", match, "remote", r.RemoteAddr)
}

// readPump discards renderer input and keeps the read deadline alive from
// pongs. It unsubscribes once the peer goes away.
func (h *Hub) readPump(match string, sub *subscriber, conn *websocket.Conn) {
	defer h.unsubscribe(match, sub)

	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump owns all writes to conn. It returns when the subscription is
// closed or a write fails.
func (h *Hub) writePump(sub *subscriber, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case frame, ok := <-sub.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "match ended"))
				return
			}
			if err := conn.WriteMessage(sub.format.messageType(), frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
