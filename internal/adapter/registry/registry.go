package registry

import (
	"sync"

	"github.com/example/shipment-tracker/internal/domain"
)

// Registry — подписки productId -> множество каналов.
// Повторная подписка того же канала на тот же id ничего не меняет.
type Registry struct {
	mu        sync.RWMutex
	byProduct map[int]map[string]domain.Channel
	// byChannel нужен, чтобы при отключении удалить канал из всех множеств.
	byChannel map[string]map[int]struct{}
}

func New() *Registry {
	return &Registry{
		byProduct: make(map[int]map[string]domain.Channel),
		byChannel: make(map[string]map[int]struct{}),
	}
}

func (r *Registry) Subscribe(ch domain.Channel, productIDs []int) {
	if ch == nil || len(productIDs) == 0 {
		return
	}
	id := ch.ID()
	r.mu.Lock()
	defer r.mu.Unlock()
	owned, ok := r.byChannel[id]
	if !ok {
		owned = make(map[int]struct{})
		r.byChannel[id] = owned
	}
	for _, pid := range productIDs {
		set, ok := r.byProduct[pid]
		if !ok {
			set = make(map[string]domain.Channel)
			r.byProduct[pid] = set
		}
		set[id] = ch
		owned[pid] = struct{}{}
	}
}

// Unsubscribe удаляет канал из всех подписок.
func (r *Registry) Unsubscribe(ch domain.Channel) {
	if ch == nil {
		return
	}
	id := ch.ID()
	r.mu.Lock()
	defer r.mu.Unlock()
	for pid := range r.byChannel[id] {
		set := r.byProduct[pid]
		delete(set, id)
		if len(set) == 0 {
			delete(r.byProduct, pid)
		}
	}
	delete(r.byChannel, id)
}

// ChannelsFor возвращает снимок подписчиков товара; порядок не определён.
func (r *Registry) ChannelsFor(productID int) []domain.Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.byProduct[productID]
	out := make([]domain.Channel, 0, len(set))
	for _, ch := range set {
		out = append(out, ch)
	}
	return out
}

func (r *Registry) Len(productID int) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byProduct[productID])
}

var _ domain.SubscriptionRegistry = (*Registry)(nil)
