// Package spectate streams match snapshots to renderers over websockets.
// Renderers are read-only: nothing they send reaches a match.
package spectate

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/nstehr/ruck/ruck-core/model"
)

// Format selects the wire encoding of a subscription.
type Format int

const (
	FormatJSON Format = iota
	FormatMsgpack
)

func (f Format) messageType() int {
	if f == FormatMsgpack {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}

func (f Format) encode(s model.Snapshot) ([]byte, error) {
	if f == FormatMsgpack {
		return msgpack.Marshal(&s)
	}
	return json.Marshal(s)
}

// sendBuffer is how many snapshots may queue for a slow subscriber before
// frames are dropped.
const sendBuffer = 16

type subscriber struct {
	format Format
	send   chan []byte
}

// Hub fans snapshots out to subscribers by match id. It keeps the latest
// snapshot of every live match so late subscribers start from current state.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[*subscriber]struct{}
	latest map[string]model.Snapshot
	log    *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subs:   make(map[string]map[*subscriber]struct{}),
		latest: make(map[string]model.Snapshot),
		log:    logger,
	}
}

// Publish records s as the latest state of match and queues it for every
// subscriber. A subscriber whose queue is full misses this frame.
func (h *Hub) Publish(match string, s model.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest[match] = s
	var encoded [2][]byte
	for sub := range h.subs[match] {
		if encoded[sub.format] == nil {
			b, err := sub.format.encode(s)
			if err != nil {
				h.log.Error("encode snapshot", "match", match, "format", sub.format, "error", err)
				continue
			}
			encoded[sub.format] = b
		}
		select {
		case sub.send <- encoded[sub.format]:
		default:
			h.log.Debug("spectator lagging, frame dropped", "match", match)
		}
	}
}

// End forgets match and closes its subscriptions.
func (h *Hub) End(match string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.latest, match)
	for sub := range h.subs[match] {
		close(sub.send)
	}
	delete(h.subs, match)
}

// Matches lists the live match ids in sorted order.
func (h *Hub) Matches() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	ids := make([]string, 0, len(h.latest))
	for id := range h.latest {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// subscribe registers a subscriber for a live match and queues the latest
// snapshot for it.
func (h *Hub) subscribe(match string, format Format) (*subscriber, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.latest[match]
	if !ok {
		return nil, fmt.Errorf("match %s: %w", match, ErrUnknownMatch)
	}
	b, err := format.encode(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	sub := &subscriber{format: format, send: make(chan []byte, sendBuffer)}
	sub.send <- b
	if h.subs[match] == nil {
		h.subs[match] = make(map[*subscriber]struct{})
	}
	h.subs[match][sub] = struct{}{}
	return sub, nil
}

// unsubscribe is a no-op when End already closed the subscription.
func (h *Hub) unsubscribe(match string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.subs[match]
	if !ok {
		return
	}
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	close(sub.send)
	if len(subs) == 0 {
		delete(h.subs, match)
	}
}
