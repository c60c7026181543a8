package scoreboard

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/coder/websocket"
)

const writeTimeout = 5 * time.Second

// Conn 一个观战连接，发送经过带缓冲的通道，写满时丢弃
type Conn struct {
	ws     *websocket.Conn
	sendCh chan []byte
	done   chan struct{}
	once   sync.Once
	ID     string
}

func NewConn(ws *websocket.Conn, id string) *Conn {
	return &Conn{
		ws:     ws,
		sendCh: make(chan []byte, 64),
		done:   make(chan struct{}),
		ID:     id,
	}
}

// Send 非阻塞入队
func (c *Conn) Send(data []byte) {
	select {
	case c.sendCh <- data:
	default:
		log.Printf("[Scoreboard] conn %s: send buffer full, dropping message", c.ID)
	}
}

func (c *Conn) WriteLoop(ctx context.Context) {
	for {
		select {
		case data := <-c.sendCh:
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.ws.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				log.Printf("[Scoreboard] conn %s: write error: %v", c.ID, err)
				c.Close()
				return
			}
		case <-c.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (c *Conn) Close() {
	c.once.Do(func() {
		close(c.done)
		c.ws.Close(websocket.StatusNormalClosure, "")
	})
}

func (c *Conn) Done() <-chan struct{} {
	return c.done
}
