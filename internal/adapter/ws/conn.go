package ws

import (
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/example/shipment-tracker/internal/domain"
)

// ErrQueueFull возвращается Push, когда подписчик не успевает читать.
var ErrQueueFull = errors.New("subscriber queue full")

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Conn — канал уведомлений одного websocket-подписчика.
// Писать в сокет может только writeLoop; Push лишь ставит кадр в очередь.
type Conn struct {
	id    string
	ws    *websocket.Conn
	queue chan frame

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

func newConn(ws *websocket.Conn, queueSize int) *Conn {
	return &Conn{
		id:    "ws-" + uuid.NewString(),
		ws:    ws,
		queue: make(chan frame, queueSize),
		done:  make(chan struct{}),
	}
}

func (c *Conn) ID() string { return c.id }

func (c *Conn) Push(event string, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return domain.ErrChannelClosed
	}
	select {
	case c.queue <- frame{Event: event, Data: payload}:
		return nil
	default:
		return ErrQueueFull
	}
}

func (c *Conn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
}

func (c *Conn) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case f := <-c.queue:
			if err := websocket.JSON.Send(c.ws, f); err != nil {
				log.Printf("ws: write to %s: %v", c.id, err)
				c.close()
				_ = c.ws.Close()
				return
			}
		}
	}
}

var _ domain.Channel = (*Conn)(nil)
