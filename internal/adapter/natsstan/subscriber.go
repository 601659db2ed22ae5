package natsstan

import (
	"context"
	"fmt"
	"log"
	"time"

	stan "github.com/nats-io/stan.go"

	"github.com/example/shipment-tracker/internal/domain"
)

const queueGroup = "shipment-workers"

type Subscriber struct {
	ClusterID string
	ClientID  string
	URL       string
	Subject   string
	Durable   string
	// Permanent помечает ошибки, которые не исправятся повторной доставкой;
	// такие сообщения подтверждаются и отбрасываются.
	Permanent func(error) bool
}

func (s *Subscriber) Subscribe(ctx context.Context, handler func(ctx context.Context, raw []byte) error) error {
	clientID := s.ClientID
	if clientID == "" {
		clientID = fmt.Sprintf("shipments-svc-%d", time.Now().UnixNano())
	}
	sc, err := stan.Connect(s.ClusterID, clientID, stan.NatsURL(s.URL))
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		sc.Close()
	}()
	_, err = sc.QueueSubscribe(s.Subject, queueGroup, func(m *stan.Msg) {
		hCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.handle(hCtx, handler, m.Data); err != nil {
			// не подтверждаем, даём сообщению переотправиться
			log.Printf("nats: handler error: %v", err)
			return
		}
		if err := m.Ack(); err != nil {
			log.Printf("nats: ack failed: %v", err)
		}
	}, stan.DurableName(s.Durable), stan.SetManualAckMode(), stan.AckWait(10*time.Second), stan.DeliverAllAvailable())
	if err != nil {
		sc.Close()
	}
	return err
}

// handle возвращает nil и для отброшенных сообщений, чтобы их подтвердить.
func (s *Subscriber) handle(ctx context.Context, handler func(ctx context.Context, raw []byte) error, raw []byte) error {
	err := handler(ctx, raw)
	if err != nil && s.Permanent != nil && s.Permanent(err) {
		log.Printf("nats: dropping message: %v", err)
		return nil
	}
	return err
}

var _ domain.MessageSubscriber = (*Subscriber)(nil)
