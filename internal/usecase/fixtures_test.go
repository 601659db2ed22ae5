package usecase

import (
	"context"
	"sync"

	"github.com/example/shipment-tracker/internal/adapter/catalog"
	"github.com/example/shipment-tracker/internal/domain"
)

func testCatalog() *catalog.JSONCatalog {
	return catalog.New(
		[]domain.User{{Username: "admin", Password: "secret"}},
		[]domain.Product{{ProductID: 1, Name: "Widget"}, {ProductID: 2, Name: "Gadget"}},
		[]domain.Customer{{Name: "Alice", Address: "1 Main St"}, {Name: "Bob", Address: "2 Oak Ave"}},
		[]domain.Order{
			{Buyer: "Alice", OrderDate: "2024-01-01", OrderTime: "10:00", Items: []domain.OrderItem{{Item: "Widget", Quantity: 3}}},
			{Buyer: "Bob", OrderDate: "2024-01-02", OrderTime: "08:30:15", Items: []domain.OrderItem{
				{Item: "Gadget", Quantity: 1},
				{Item: "Widget", Quantity: 2},
			}},
		},
	)
}

// memRepo — SnapshotRepository в памяти для тестов.
type memRepo struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	loadErr error
	saveErr error
	saves   int
}

func newMemRepo() *memRepo {
	return &memRepo{blobs: make(map[string][]byte)}
}

func (r *memRepo) Load(_ context.Context, name string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	b, ok := r.blobs[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

func (r *memRepo) Save(_ context.Context, name string, blob []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.blobs[name] = append([]byte(nil), blob...)
	return nil
}

func (r *memRepo) blob(name string) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.blobs[name]
}

func (r *memRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

// fakeChannel записывает отправленные события.
type fakeChannel struct {
	mu     sync.Mutex
	id     string
	err    error
	events []string
	data   [][]byte
}

func (c *fakeChannel) ID() string { return c.id }

func (c *fakeChannel) Push(event string, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.events = append(c.events, event)
	c.data = append(c.data, payload)
	return nil
}

func (c *fakeChannel) pushed() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.data...)
}
