package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hersh/blockfall/internal/protocol"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// conn is the server side of one websocket.
type conn struct {
	ws     *websocket.Conn
	log    *slog.Logger
	sendCh chan []byte

	closeOnce sync.Once
	closed    chan struct{}
}

func newConn(ws *websocket.Conn, log *slog.Logger) *conn {
	return &conn{
		ws:     ws,
		log:    log,
		sendCh: make(chan []byte, sendBuffer),
		closed: make(chan struct{}),
	}
}

// send marshals an envelope and queues it. Messages are dropped when the
// client cannot keep up.
func (c *conn) send(env protocol.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		c.log.Error("marshal", "type", env.Type, "err", err)
		return
	}
	select {
	case <-c.closed:
		return
	default:
	}
	select {
	case <-c.closed:
	case c.sendCh <- data:
	default:
		c.log.Warn("send buffer full, dropping message", "type", env.Type)
	}
}

func (c *conn) sendError(msg string) {
	c.send(protocol.Envelope{
		Type:    protocol.MsgError,
		Payload: protocol.ErrorPayload{Message: msg},
	})
}

func (c *conn) close() {
	c.closeOnce.Do(func() { close(c.closed) })
}

// writePump sends queued messages and keeps the connection alive with pings.
func (c *conn) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.ws.Close()
		c.close()
	}()

	for {
		select {
		case msg := <-c.sendCh:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.closed:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			c.ws.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// readPump reads client messages until the connection fails.
func (c *conn) readPump(h *Hub, s *Session) {
	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("read", "err", err)
			}
			return
		}

		var env protocol.RawEnvelope
		if err := json.Unmarshal(message, &env); err != nil {
			c.sendError("malformed message")
			continue
		}
		c.handle(h, s, env)
	}
}

func (c *conn) handle(h *Hub, s *Session, env protocol.RawEnvelope) {
	switch env.Type {
	case protocol.MsgAction:
		var payload protocol.ActionPayload
		if err := env.Decode(&payload); err != nil {
			c.sendError(err.Error())
			return
		}
		if !s.Submit(payload.Action) {
			c.sendError("session busy")
		}

	case protocol.MsgReset:
		if !s.Reset() {
			c.sendError("session busy")
		}

	case protocol.MsgSetName:
		var payload protocol.SetNamePayload
		if err := env.Decode(&payload); err != nil || payload.PlayerName == "" {
			c.sendError("invalid name")
			return
		}
		h.roster.SetName(s.ID, payload.PlayerName)

	default:
		c.sendError("unknown message type: " + string(env.Type))
	}
}
