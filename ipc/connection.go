package ipc

import (
	"log/slog"
	"net"
	"sync"
)

// Handler processes a received envelope. Return nil to send no reply.
type Handler func(env Envelope) (*Envelope, error)

// Connection is one client stream. Each connection drives its own match;
// Match is set once the session has an id, for logging.
type Connection struct {
	conn     net.Conn
	handlers map[string]Handler
	Match    string

	closeOnce sync.Once
}

func NewConnection(conn net.Conn, handlers map[string]Handler) *Connection {
	if handlers == nil {
		handlers = make(map[string]Handler)
	}
	return &Connection{
		conn:     conn,
		handlers: handlers,
	}
}

// RegisterHandler routes envelopes whose Kind is kind to handler.
func (c *Connection) RegisterHandler(kind string, handler Handler) {
	c.handlers[kind] = handler
}

func (c *Connection) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// Close ends the connection; ReadLoop returns soon after.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() { err = c.conn.Close() })
	return err
}

// ReadLoop blocks until the connection closes or errors. Envelopes are
// handled strictly one after another. It owns the conn lifetime so callers
// don't need to track cleanup.
func (c *Connection) ReadLoop() {
	defer c.Close()

	for {
		env, err := ReadEnvelope(c.conn)
		if err != nil {
			slog.Info("connection read ended", "match", c.Match, "error", err)
			return
		}

		handler, ok := c.handlers[env.Kind()]
		if !ok {
			slog.Warn("no handler for message kind", "kind", env.Kind(), "type", env.Type)
			continue
		}

		resp, err := handler(env)
		if err != nil {
			slog.Error("handler error", "kind", env.Kind(), "match", c.Match, "error", err)
			resp = ptr(NewError(err))
		}

		if resp != nil {
			if err := WriteEnvelope(c.conn, *resp); err != nil {
				slog.Error("failed to send response", "type", resp.Type, "error", err)
				return
			}
			slog.Debug("sent response", "kind", env.Kind(), "match", c.Match)
		}
	}
}

func ptr[T any](v T) *T { return &v }
