// Package channel is the dashboard side of the backend push channel: a WebSocket client with
// explicit subscribe/unsubscribe and the payload decoder that turns pushes into reconciler updates.
package channel

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PathumRathnayaka/employee-monitoring-system/internal/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// Lifecycle events emitted by the client itself.
const (
	EventConnect      = "connect"
	EventDisconnect   = "disconnect"
	EventConnectError = "connect_error"
)

// Data events pushed by the backend.
const (
	EventStatusUpdate      = "status_update"
	EventStatusBatchUpdate = "status_batch_update"
)

const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	handshakeTimeout = 5 * time.Second
	maxMsgSize       = 1 << 16 // 64 KB
)

// Handler receives the raw data of an event. Lifecycle events carry nil or an error string.
type Handler func(data []byte)

// Token identifies a subscription for Unsubscribe.
type Token string

// Subscriber is the capability the dashboard needs from a push channel.
type Subscriber interface {
	Subscribe(event string, h Handler) Token
	Unsubscribe(tok Token)
	Connected() bool
}

// envelope is the wire frame: {"type": "...", "data": {...}}.
type envelope struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

// Client keeps a WebSocket connection to the backend open and fans events out to subscribers.
// Redials are paced by a rate limiter; the client never gives up until its context ends.
type Client struct {
	url     string
	log     *logger.Logger
	dialer  websocket.Dialer
	limiter *rate.Limiter

	connected atomic.Bool

	mu       sync.Mutex
	handlers map[string]map[Token]Handler
	events   map[Token]string
}

// NewClient builds a client for the given ws:// URL that redials at most once per reconnect.
func NewClient(url string, reconnect time.Duration, log *logger.Logger) *Client {
	if reconnect <= 0 {
		reconnect = time.Second
	}
	return &Client{
		url:      url,
		log:      log,
		dialer:   websocket.Dialer{HandshakeTimeout: handshakeTimeout},
		limiter:  rate.NewLimiter(rate.Every(reconnect), 1),
		handlers: make(map[string]map[Token]Handler),
		events:   make(map[Token]string),
	}
}

var _ Subscriber = (*Client)(nil)

// Subscribe registers h for event and returns the token that releases it.
func (c *Client) Subscribe(event string, h Handler) Token {
	tok := Token(uuid.NewString())
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handlers[event] == nil {
		c.handlers[event] = make(map[Token]Handler)
	}
	c.handlers[event][tok] = h
	c.events[tok] = event
	return tok
}

// Unsubscribe releases a subscription. Unknown tokens are ignored.
func (c *Client) Unsubscribe(tok Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	event, ok := c.events[tok]
	if !ok {
		return
	}
	delete(c.events, tok)
	delete(c.handlers[event], tok)
	if len(c.handlers[event]) == 0 {
		delete(c.handlers, event)
	}
}

// Connected reports whether a connection is currently established.
func (c *Client) Connected() bool { return c.connected.Load() }

// emit calls the handlers of event outside the lock, in no particular order.
func (c *Client) emit(event string, data []byte) {
	c.mu.Lock()
	hs := make([]Handler, 0, len(c.handlers[event]))
	for _, h := range c.handlers[event] {
		hs = append(hs, h)
	}
	c.mu.Unlock()

	for _, h := range hs {
		h(data)
	}
}

// Run dials, serves and redials until ctx is canceled.
func (c *Client) Run(ctx context.Context) error {
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil
		}
		conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.log.Warnw("push_dial_failed", "url", c.url, "err", err)
			msg, _ := json.Marshal(err.Error())
			c.emit(EventConnectError, msg)
			continue
		}
		c.serve(ctx, conn)
		if ctx.Err() != nil {
			return nil
		}
	}
}

// serve pumps one connection until it breaks or ctx ends.
func (c *Client) serve(ctx context.Context, conn *websocket.Conn) {
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPingHandler(func(appData string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(writeWait))
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		return err
	})

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			_ = conn.Close()
		case <-stop:
		}
	}()

	c.connected.Store(true)
	c.log.Infow("push_connected", "url", c.url)
	c.emit(EventConnect, nil)

	defer func() {
		_ = conn.Close()
		c.connected.Store(false)
		c.emit(EventDisconnect, nil)
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && ctx.Err() == nil {
				c.log.Warnw("push_read_failed", "err", err)
			} else {
				c.log.Infow("push_closed", "err", err)
			}
			return
		}
		var env envelope
		if err := json.Unmarshal(msg, &env); err != nil || env.Type == "" {
			c.log.Warnw("push_frame_dropped", "reason", "bad envelope", "err", err)
			continue
		}
		switch env.Type {
		case EventConnect, EventDisconnect, EventConnectError:
			c.log.Warnw("push_frame_dropped", "reason", "reserved event", "type", env.Type)
			continue
		}
		c.emit(env.Type, env.Data)
	}
}
