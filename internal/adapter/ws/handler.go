package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"golang.org/x/net/websocket"

	"github.com/example/shipment-tracker/internal/domain"
)

// Имена событий протокола.
const (
	EventSubscribe = "subscribe"
	EventError     = "error"
)

const (
	maxFrameBytes          = 64 << 10
	maxDecodeErrorsPerConn = 8
)

type errorPayload struct {
	Message string `json:"message"`
}

// Handler обслуживает websocket-подписчиков на уведомления о заказах.
type Handler struct {
	Registry  domain.SubscriptionRegistry
	QueueSize int
}

func NewHandler(reg domain.SubscriptionRegistry, queueSize int) *Handler {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Handler{Registry: reg, QueueSize: queueSize}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	websocket.Handler(h.serve).ServeHTTP(w, r)
}

func (h *Handler) serve(wsConn *websocket.Conn) {
	wsConn.MaxPayloadBytes = maxFrameBytes
	c := newConn(wsConn, h.QueueSize)
	defer func() {
		h.Registry.Unsubscribe(c)
		c.close()
		_ = wsConn.Close()
	}()
	go c.writeLoop()

	decodeErrors := 0
	for {
		var raw []byte
		if err := websocket.Message.Receive(wsConn, &raw); err != nil {
			if !errors.Is(err, io.EOF) {
				log.Printf("ws: read from %s: %v", c.id, err)
			}
			return
		}
		var f frame
		if err := json.Unmarshal(raw, &f); err != nil {
			decodeErrors++
			c.pushError("invalid frame payload")
			if decodeErrors >= maxDecodeErrorsPerConn {
				return
			}
			continue
		}
		decodeErrors = 0

		switch f.Event {
		case EventSubscribe:
			ids, err := parseProductIDs(f.Data)
			if err != nil {
				c.pushError(err.Error())
				continue
			}
			h.Registry.Subscribe(c, ids)
		default:
			c.pushError(fmt.Sprintf("unsupported event %q", f.Event))
		}
	}
}

func (c *Conn) pushError(msg string) {
	b, err := json.Marshal(errorPayload{Message: msg})
	if err != nil {
		return
	}
	_ = c.Push(EventError, b)
}

// parseProductIDs принимает массив чисел или строку с JSON-массивом.
func parseProductIDs(data json.RawMessage) ([]int, error) {
	if len(data) == 0 {
		return nil, errors.New("subscribe requires product ids")
	}
	var ids []int
	if err := json.Unmarshal(data, &ids); err == nil {
		return ids, nil
	}
	var encoded string
	if err := json.Unmarshal(data, &encoded); err != nil {
		return nil, errors.New("product ids must be an array of integers")
	}
	if err := json.Unmarshal([]byte(encoded), &ids); err != nil {
		return nil, errors.New("product ids must be an array of integers")
	}
	return ids, nil
}
