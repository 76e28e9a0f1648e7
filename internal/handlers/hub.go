package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/PathumRathnayaka/employee-monitoring-system/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMsgSize     = 1 << 12 // 4 KB
	sendBufferSize = 64
)

// wsEnvelope is the frame of every WebSocket message: {"type": ..., "data": ...}.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Upgrader for HTTP -> WebSocket. Dashboards may be served from another origin.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans pushed events out to the connected dashboards.
type Hub struct {
	log *logger.Logger

	mu      sync.RWMutex
	clients map[*hubClient]struct{}
	closed  bool
}

type hubClient struct {
	id      string
	subject string // empty receives every subject
	send    chan []byte
}

// NewHub returns an empty hub.
func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{log: log, clients: make(map[*hubClient]struct{})}
}

// Publish sends event to every client watching subjectID. Clients with a full buffer miss it.
func (h *Hub) Publish(subjectID, event string, data any) {
	msg, err := json.Marshal(wsEnvelope{Type: event, Data: data})
	if err != nil {
		h.log.Errorw("ws_marshal_failed", "event", event, "err", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.subject != "" && c.subject != subjectID {
			continue
		}
		select {
		case c.send <- msg:
		default:
			h.log.Warnw("ws_client_lagging", "client", c.id, "event", event)
		}
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) add(subject string) (*hubClient, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	c := &hubClient{id: uuid.NewString(), subject: subject, send: make(chan []byte, sendBufferSize)}
	h.clients[c] = struct{}{}
	return c, true
}

func (h *Hub) remove(c *hubClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// @Summary      Push channel
// @Description  WebSocket stream of status_update or status_batch_update envelopes. ?subject= limits it to one subject.
// @Tags         events
// @Param        subject  query  string  false  "Subject id"
// @Success      101
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorw("ws_upgrade_failed", "err", err)
		return
	}
	defer func() { _ = conn.Close() }()

	client, ok := h.hub.add(c.Query("subject"))
	if !ok {
		writeClose(conn)
		return
	}
	defer h.hub.remove(client)
	h.log.Infow("ws_client_connected", "client", client.id, "subject", client.subject)

	prepareRead(conn)

	// Reader goroutine to handle control frames and detect disconnects.
	done := make(chan struct{})
	go startReader(conn, done, h.log)

	pinger := time.NewTicker(pingPeriod)
	defer pinger.Stop()

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case msg, ok := <-client.send:
			if !ok {
				writeClose(conn)
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.log.Infow("ws_write_failed", "client", client.id, "err", err)
				return
			}
		case <-pinger.C:
			if !ping(conn, h.log) {
				return
			}
		}
	}
}

// prepareRead configures read limits and the pong handler that extends the read deadline.
func prepareRead(conn *websocket.Conn) {
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
}

func ping(conn *websocket.Conn, log *logger.Logger) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		log.Infow("ws_ping_failed", "err", err)
		return false
	}
	return true
}

func writeClose(conn *websocket.Conn) {
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
}

// startReader drains incoming messages to handle control frames and detect closure.
func startReader(conn *websocket.Conn, done chan<- struct{}, log *logger.Logger) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			log.Infow("ws_read_closed", "err", err)
			return
		}
	}
}
