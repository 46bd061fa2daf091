package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/selivandex/tadawul-sentiment/internal/dashboard"
	"github.com/selivandex/tadawul-sentiment/pkg/logger"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // dashboard is served from a separate origin
	},
}

// FeedSocket pushes committed feed snapshots to websocket clients
type FeedSocket struct {
	feed *dashboard.Feed
	quit chan struct{}
	once sync.Once
}

// NewFeedSocket creates websocket handler over feed
func NewFeedSocket(feed *dashboard.Feed) *FeedSocket {
	return &FeedSocket{feed: feed, quit: make(chan struct{})}
}

// Close disconnects every client
func (s *FeedSocket) Close() {
	s.once.Do(func() { close(s.quit) })
}

func (s *FeedSocket) handle(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	updates, leave := s.feed.Subscribe()
	defer leave()

	logger.Debug("feed client connected", zap.String("remote", c.ClientIP()))

	closed := make(chan struct{})
	go readPump(conn, closed)

	if snap, ok := s.feed.Latest(); ok {
		if err := writeSnapshot(conn, snap); err != nil {
			return
		}
	}

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.quit:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return
		case <-closed:
			logger.Debug("feed client disconnected", zap.String("remote", c.ClientIP()))
			return
		case snap := <-updates:
			if err := writeSnapshot(conn, snap); err != nil {
				logger.Debug("feed write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// readPump drains client frames so pongs and close frames are processed
func readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadLimit(512)
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

func writeSnapshot(conn *websocket.Conn, snap dashboard.FeedSnapshot) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(snap)
}
