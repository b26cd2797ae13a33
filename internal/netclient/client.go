package netclient

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/hersh/blockfall/internal/game"
	"github.com/hersh/blockfall/internal/protocol"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 16384
)

// WelcomeMsg is sent once the server has opened our session.
type WelcomeMsg struct {
	SessionID string
	Seed      uint64
}

// SnapshotMsg carries the latest server-side game state.
type SnapshotMsg struct {
	Snapshot game.Snapshot
}

// EventMsg is one engine event from the server.
type EventMsg struct {
	Event game.Event
}

// ErrorMsg reports a message the server rejected.
type ErrorMsg struct {
	Message string
}

// DisconnectedMsg is sent when the WebSocket connection is lost.
type DisconnectedMsg struct {
	Err error
}

// Sender receives decoded server messages. *tea.Program implements it.
type Sender interface {
	Send(msg tea.Msg)
}

// Client manages the WebSocket connection to the game server.
type Client struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	sendCh chan []byte
	sink   Sender
	done   chan struct{}
	closed bool
}

// Dial connects to the server's websocket endpoint. A non-empty name is
// queued as the first message so the session is listed under it.
func Dial(serverURL, name string) (*Client, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u.Redacted(), err)
	}

	c := &Client{
		conn:   conn,
		sendCh: make(chan []byte, 256),
		done:   make(chan struct{}),
	}
	if name != "" {
		c.SetName(name)
	}
	return c, nil
}

// SetSink sets where decoded server messages go. Messages that arrive
// before a sink is set are dropped.
func (c *Client) SetSink(s Sender) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sink = s
}

// Start launches the read and write pumps.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

func (c *Client) SendAction(a game.Action) {
	c.send(protocol.Envelope{Type: protocol.MsgAction, Payload: protocol.ActionPayload{Action: a}})
}

func (c *Client) Reset() {
	c.send(protocol.Envelope{Type: protocol.MsgReset, Payload: protocol.ResetPayload{}})
}

// SetName changes the name the server lists this session under.
func (c *Client) SetName(name string) {
	c.send(protocol.Envelope{Type: protocol.MsgSetName, Payload: protocol.SetNamePayload{PlayerName: name}})
}

// send marshals and queues an envelope for the server.
func (c *Client) send(env protocol.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		log.Printf("client marshal error: %v", err)
		return
	}
	select {
	case c.sendCh <- data:
	default:
		log.Printf("client send channel full, dropping message")
	}
}

// Close shuts down the client connection. The write pump sends the close
// frame so only one goroutine ever writes.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
}

func (c *Client) currentSink() Sender {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sink
}

// readPump decodes server messages and hands them to the sink.
func (c *Client) readPump() {
	var readErr error
	defer func() {
		if s := c.currentSink(); s != nil {
			s.Send(DisconnectedMsg{Err: readErr})
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				readErr = err
			}
			return
		}

		msg, err := Decode(message)
		if err != nil {
			log.Printf("client decode error: %v", err)
			continue
		}
		if s := c.currentSink(); s != nil {
			s.Send(msg)
		}
	}
}

// Decode turns one server message into the matching tea.Msg.
func Decode(message []byte) (tea.Msg, error) {
	var env protocol.RawEnvelope
	if err := json.Unmarshal(message, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}

	switch env.Type {
	case protocol.MsgWelcome:
		var p protocol.WelcomePayload
		if err := env.Decode(&p); err != nil {
			return nil, fmt.Errorf("welcome: %w", err)
		}
		return WelcomeMsg{SessionID: p.SessionID, Seed: p.Seed}, nil

	case protocol.MsgSnapshot:
		var p protocol.SnapshotPayload
		if err := env.Decode(&p); err != nil {
			return nil, fmt.Errorf("snapshot: %w", err)
		}
		return SnapshotMsg{Snapshot: p.Snapshot()}, nil

	case protocol.MsgEvent:
		var p protocol.EventPayload
		if err := env.Decode(&p); err != nil {
			return nil, fmt.Errorf("event: %w", err)
		}
		return EventMsg{Event: p.Event()}, nil

	case protocol.MsgError:
		var p protocol.ErrorPayload
		if err := env.Decode(&p); err != nil {
			return nil, fmt.Errorf("error: %w", err)
		}
		return ErrorMsg{Message: p.Message}, nil
	}
	return nil, fmt.Errorf("unknown message type %q", env.Type)
}

// writePump writes messages from sendCh to the WebSocket.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.sendCh:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
