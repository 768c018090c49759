package websocket

import (
	"context"
	"time"

	"moodchat/internal/chat"
	"moodchat/pkg/logger"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	writeWait  = 10 * time.Second

	maxFrameSize = 8192
)

// Client bridges one gorilla websocket connection and its chat
// session. ReadPump is the connection's single event-processing
// context: every inbound frame is dispatched from it, so a
// connection's own events are handled in order.
type Client struct {
	conn       *websocket.Conn
	sess       *chat.Session
	controller *chat.Controller
	limiter    *rate.Limiter
}

func NewClient(conn *websocket.Conn, sess *chat.Session, controller *chat.Controller, limiter *rate.Limiter) *Client {
	return &Client{
		conn:       conn,
		sess:       sess,
		controller: controller,
		limiter:    limiter,
	}
}

func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.controller.Disconnect(c.sess.ID)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("WebSocket error: %v", err)
			}
			return
		}

		if !c.limiter.Allow() {
			c.controller.RateLimited(c.sess)
			continue
		}

		c.controller.Handle(ctx, c.sess, message)
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.sess.Outbox():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Error("Write error: %v", err)
				return
			}

		case <-c.sess.Done():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
