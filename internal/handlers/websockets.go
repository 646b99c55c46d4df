package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	us "user_service"
	"user_service/internal/logger"
	"user_service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	feedWriteTimeout = 10 * time.Second
	feedPeerTimeout  = 60 * time.Second
	feedPingEvery    = feedPeerTimeout * 9 / 10
	feedReadLimit    = 4 << 10

	feedDefaultEvery = time.Second
	feedMaxEvery     = 10 * time.Second

	frameUsers = "users"
	frameError = "error"
)

type usersFrame struct {
	Type string          `json:"type"`
	Data []us.PublicUser `json:"data"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// Clients reach /ws with the same bearer token as every other protected
// route, so the origin is not checked.
var feedUpgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// @Summary      User directory feed
// @Description  WebSocket stream of the projected user list, pushed on connect and every interval.
// @Tags         users
// @Param        interval     query  string  false  "Push interval as a Go duration (max 10s)"  example(2s)
// @Param        interval_ms  query  int     false  "Push interval in milliseconds (max 10000)"
// @Success      101
// @Failure      401  {object}  errorResponse
// @Router       /ws [get]
// @Security     BearerAuth
func (h *Handler) streamUsers(c *gin.Context) {
	every := feedInterval(c)

	conn, err := feedUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			id, _ := callerID(c)
			h.log.Errorw("user_feed_upgrade_failed", "caller_id", id, "err", err)
		}
		return
	}

	feed := &userFeed{conn: conn, users: h.services.Users, log: h.log, every: every}
	feed.serve(c.Request.Context())
}

// feedInterval picks the push period from ?interval (Go duration) or
// ?interval_ms. Out-of-range or malformed values fall back to one second.
func feedInterval(c *gin.Context) time.Duration {
	if d, err := time.ParseDuration(c.Query("interval")); err == nil && inFeedRange(d) {
		return d
	}
	if ms, err := strconv.Atoi(c.Query("interval_ms")); err == nil {
		if d := time.Duration(ms) * time.Millisecond; inFeedRange(d) {
			return d
		}
	}
	return feedDefaultEvery
}

func inFeedRange(d time.Duration) bool {
	return d > 0 && d <= feedMaxEvery
}

// userFeed pushes the user directory to one websocket client until the
// client goes away, the request is cancelled or a write fails.
type userFeed struct {
	conn  *websocket.Conn
	users service.Users
	log   *logger.Logger
	every time.Duration
}

func (f *userFeed) serve(ctx context.Context) {
	defer func() { _ = f.conn.Close() }()

	f.conn.SetReadLimit(feedReadLimit)
	_ = f.conn.SetReadDeadline(time.Now().Add(feedPeerTimeout))
	f.conn.SetPongHandler(func(string) error {
		return f.conn.SetReadDeadline(time.Now().Add(feedPeerTimeout))
	})

	gone := make(chan struct{})
	go f.watchPeer(gone)

	if err := f.publish(ctx); err != nil {
		f.debug("user_feed_stopped", err)
		return
	}

	push := time.NewTicker(f.every)
	defer push.Stop()
	heartbeat := time.NewTicker(feedPingEvery)
	defer heartbeat.Stop()

	for {
		var err error
		select {
		case <-gone:
			return
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			err = f.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(feedWriteTimeout))
		case <-push.C:
			err = f.publish(ctx)
		}
		if err != nil {
			f.debug("user_feed_stopped", err)
			return
		}
	}
}

// watchPeer consumes client frames so pongs and close frames are processed.
// gone is closed once the client disconnects or stops answering pings.
func (f *userFeed) watchPeer(gone chan<- struct{}) {
	defer close(gone)
	for {
		if _, _, err := f.conn.ReadMessage(); err != nil {
			f.debug("user_feed_peer_gone", err)
			return
		}
	}
}

// publish sends the current directory. When storage fails the client gets
// an error frame and the returned error ends the feed.
func (f *userFeed) publish(ctx context.Context) error {
	list, err := f.users.List(ctx)
	_ = f.conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
	if err != nil {
		if f.log != nil {
			f.log.Errorw("user_feed_list_failed", "err", err)
		}
		_ = f.conn.WriteJSON(errorFrame{Type: frameError, Error: msgInternal})
		return err
	}
	return f.conn.WriteJSON(usersFrame{Type: frameUsers, Data: us.PublicUsers(list)})
}

func (f *userFeed) debug(event string, err error) {
	if f.log != nil {
		f.log.Debugw(event, "err", err)
	}
}
