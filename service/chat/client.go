package chat

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"DMProject/logger"
)

const defaultWriteWait = 5 * time.Second

// Client represents one live websocket session. A single writer goroutine
// consumes Send; everything else enqueues.
type Client struct {
	ConnID string          // unique within the local gateway
	UserID string          // set after a successful login frame
	WS     *websocket.Conn
	Send   chan []byte // outbound frames, consumed by WritePump

	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(connID string, ws *websocket.Conn, sendQueueSize int) *Client {
	if sendQueueSize <= 0 {
		sendQueueSize = 64
	}
	return &Client{
		ConnID: connID,
		WS:     ws,
		Send:   make(chan []byte, sendQueueSize),
		done:   make(chan struct{}),
	}
}

// Enqueue hands a frame to the writer without blocking. A full queue or a
// closed client is a delivery failure, reported by the return value; the
// caller decides whether that matters.
func (c *Client) Enqueue(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.Send <- data:
		return true
	case <-c.done:
		return false
	default:
		return false
	}
}

// WritePump is the single writer for the connection. Run it in its own
// goroutine; it exits when Close is called or a write fails.
func (c *Client) WritePump() {
	defer closeQuiet(c.WS)
	for {
		select {
		case <-c.done:
			return
		case data := <-c.Send:
			if err := writeText(c.WS, data, defaultWriteWait); err != nil {
				logger.Infof("[client] write failed conn=%s user=%s err=%v", c.ConnID, c.UserID, err)
				c.Close()
				return
			}
		}
	}
}

// Close stops the writer; safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

func writeText(conn *websocket.Conn, data []byte, wait time.Duration) error {
	if err := conn.SetWriteDeadline(time.Now().Add(wait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

func closeQuiet(c *websocket.Conn) {
	if c != nil {
		_ = c.Close()
	}
}
