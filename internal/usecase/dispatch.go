package usecase

import (
	"encoding/json"
	"log"

	"github.com/example/shipment-tracker/internal/domain"
)

// EventOrder — имя события с новой отгрузкой.
const EventOrder = "order"

// Dispatcher рассылает новые отгрузки подписчикам товара.
// Доставка best-effort: без подтверждений и повторов.
type Dispatcher struct {
	Registry domain.SubscriptionRegistry
}

// Dispatch возвращает число успешно поставленных в очередь событий.
func (d Dispatcher) Dispatch(records []domain.ShippingRecord) int {
	if d.Registry == nil {
		return 0
	}
	delivered := 0
	for _, r := range records {
		channels := d.Registry.ChannelsFor(r.ProductID)
		if len(channels) == 0 {
			continue
		}
		payload, err := json.Marshal(r)
		if err != nil {
			log.Printf("encode order event: %v", err)
			continue
		}
		for _, ch := range channels {
			if err := ch.Push(EventOrder, payload); err != nil {
				log.Printf("push to %s: %v", ch.ID(), err)
				continue
			}
			delivered++
		}
	}
	return delivered
}
