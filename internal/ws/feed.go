package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/speakaussie/server/domain/entities"
	"github.com/speakaussie/server/usecase"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Refresh the summary on this interval even without ledger writes, so
	// clients roll over cleanly at UTC midnight.
	refreshPeriod = 60 * time.Second

	// Maximum message size allowed from peer. The feed is push-only, clients
	// send nothing but control frames.
	maxMessageSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: Implement proper origin checking
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Feed pushes live usage summaries to connected clients. A user may hold
// several connections (phone and laptop), each gets every update.
type Feed struct {
	// Registered clients, keyed by user ID.
	clients map[string]map[*client]struct{}

	// Register requests from the clients.
	register chan *client

	// Unregister requests from clients.
	unregister chan *client

	// Closed by Stop to end the main loop.
	stop     chan struct{}
	stopOnce sync.Once

	mu sync.RWMutex

	usage  *usecase.UsageService
	logger *zap.Logger
}

// NewFeed creates a new usage feed.
func NewFeed(usage *usecase.UsageService, logger *zap.Logger) *Feed {
	return &Feed{
		clients:    make(map[string]map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		stop:       make(chan struct{}),
		usage:      usage,
		logger:     logger,
	}
}

// Run starts the feed's main loop. It returns after Stop is called.
func (f *Feed) Run() {
	for {
		select {
		case c := <-f.register:
			f.mu.Lock()
			if f.clients[c.userID] == nil {
				f.clients[c.userID] = make(map[*client]struct{})
			}
			f.clients[c.userID][c] = struct{}{}
			f.mu.Unlock()
			f.logger.Info("Usage feed client registered", zap.String("userID", c.userID))

			// Push the current summary so clients never start blank. Going
			// through pushSummary keeps the send behind the membership
			// check, so a client that disconnects first is simply skipped.
			go f.pushSummary(c.userID)

		case c := <-f.unregister:
			f.mu.Lock()
			if conns, ok := f.clients[c.userID]; ok {
				if _, ok := conns[c]; ok {
					delete(conns, c)
					close(c.send)
					if len(conns) == 0 {
						delete(f.clients, c.userID)
					}
				}
			}
			f.mu.Unlock()
			f.logger.Info("Usage feed client unregistered", zap.String("userID", c.userID))

		case <-f.stop:
			return
		}
	}
}

// Stop ends the main loop. Safe to call more than once.
func (f *Feed) Stop() {
	f.stopOnce.Do(func() { close(f.stop) })
}

// usageMessage is the frame pushed to clients.
type usageMessage struct {
	Type      string                `json:"type"`
	Timestamp int64                 `json:"timestamp"`
	Usage     *usecase.UsageSummary `json:"usage"`
}

// NotifyUsage implements usecase.UsageNotifier. It recomputes the summary
// off the caller's goroutine so ending a session never waits on slow sockets.
func (f *Feed) NotifyUsage(userID string, _ *entities.UsageRecord) {
	f.mu.RLock()
	_, connected := f.clients[userID]
	f.mu.RUnlock()
	if !connected {
		return
	}

	go f.pushSummary(userID)
}

func (f *Feed) summaryPayload(userID string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	summary, err := f.usage.Today(ctx, userID)
	if err != nil {
		return nil, err
	}

	return json.Marshal(usageMessage{
		Type:      "usage_update",
		Timestamp: time.Now().Unix(),
		Usage:     summary,
	})
}

func (f *Feed) pushSummary(userID string) {
	payload, err := f.summaryPayload(userID)
	if err != nil {
		f.logger.Error("Failed to build usage summary for feed",
			zap.String("userID", userID),
			zap.Error(err))
		return
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	for c := range f.clients[userID] {
		select {
		case c.send <- payload:
		default:
			// Slow consumer, drop the frame rather than block the feed.
			f.logger.Warn("Dropping usage frame for slow client",
				zap.String("userID", userID))
		}
	}
}

// client is a middleman between the websocket connection and the feed.
type client struct {
	feed *Feed

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound messages.
	send chan []byte

	userID string

	logger *zap.Logger
}

// Handle upgrades the request for a pre-authenticated user and starts the
// read and write pumps.
func (f *Feed) Handle(c echo.Context, userID string) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		f.logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	cl := &client{
		feed:   f,
		conn:   conn,
		send:   make(chan []byte, 16),
		userID: userID,
		logger: f.logger,
	}

	f.register <- cl

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go cl.writePump()
	go cl.readPump()

	return nil
}

// readPump drains the connection. Clients send nothing meaningful, the read
// loop exists to process pongs and detect closure.
func (c *client) readPump() {
	defer func() {
		c.feed.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", zap.Error(err))
			}
			break
		}
	}
}

// writePump pumps messages from the feed to the websocket connection.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	refresh := time.NewTicker(refreshPeriod)
	defer func() {
		ticker.Stop()
		refresh.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
				return
			}

		case <-refresh.C:
			go c.feed.pushSummary(c.userID)

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
