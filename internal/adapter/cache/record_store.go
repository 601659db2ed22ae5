package cache

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/example/shipment-tracker/internal/domain"
)

const defaultSaveTimeout = 10 * time.Second

// RecordStore — коллекция отгрузок в памяти, источник истины процесса.
// Каждое изменение асинхронно перезаписывает снимок в репозитории целиком;
// при гонке сохранений побеждает последнее завершённое.
type RecordStore struct {
	mu      sync.RWMutex
	records []domain.ShippingRecord

	repo        domain.SnapshotRepository
	name        string
	saveTimeout time.Duration
	pending     sync.WaitGroup
}

// NewRecordStore создаёт пустое хранилище; repo может быть nil (без персистентности).
func NewRecordStore(repo domain.SnapshotRepository, name string) *RecordStore {
	return &RecordStore{
		records:     []domain.ShippingRecord{},
		repo:        repo,
		name:        name,
		saveTimeout: defaultSaveTimeout,
	}
}

// Append дописывает записи в конец и запускает сохранение всей коллекции.
func (s *RecordStore) Append(records []domain.ShippingRecord) {
	if len(records) == 0 {
		return
	}
	s.mu.Lock()
	s.records = append(s.records, records...)
	blob, err := json.Marshal(s.records)
	s.mu.Unlock()
	if err != nil {
		log.Printf("encode records: %v", err)
		return
	}
	s.save(blob)
}

// Replace подменяет коллекцию целиком без сохранения (используется при старте).
func (s *RecordStore) Replace(records []domain.ShippingRecord) {
	cp := make([]domain.ShippingRecord, len(records))
	copy(cp, records)
	s.mu.Lock()
	s.records = cp
	s.mu.Unlock()
}

// Persist запускает сохранение текущей коллекции.
func (s *RecordStore) Persist() {
	s.mu.RLock()
	blob, err := json.Marshal(s.records)
	s.mu.RUnlock()
	if err != nil {
		log.Printf("encode records: %v", err)
		return
	}
	s.save(blob)
}

func (s *RecordStore) save(blob []byte) {
	if s.repo == nil {
		return
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.saveTimeout)
		defer cancel()
		if err := s.repo.Save(ctx, s.name, blob); err != nil {
			log.Printf("persist records: %v", err)
		}
	}()
}

// Wait блокирует до завершения всех начатых сохранений.
func (s *RecordStore) Wait() {
	s.pending.Wait()
}

// All возвращает копию коллекции на момент вызова.
func (s *RecordStore) All() []domain.ShippingRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ShippingRecord, len(s.records))
	copy(out, s.records)
	return out
}

func (s *RecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *RecordStore) ByProduct(productID int) []domain.ShippingRecord {
	return s.filter(func(r domain.ShippingRecord) bool { return r.ProductID == productID })
}

func (s *RecordStore) ByBuyer(buyer string) []domain.ShippingRecord {
	return s.filter(func(r domain.ShippingRecord) bool { return r.Buyer == buyer })
}

// FromShippingTarget — записи с ShippingTarget >= ts.
func (s *RecordStore) FromShippingTarget(ts int64) []domain.ShippingRecord {
	return s.filter(func(r domain.ShippingRecord) bool { return r.ShippingTarget >= ts })
}

func (s *RecordStore) filter(match func(domain.ShippingRecord) bool) []domain.ShippingRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.ShippingRecord{}
	for _, r := range s.records {
		if match(r) {
			out = append(out, r)
		}
	}
	return out
}

var _ domain.RecordStore = (*RecordStore)(nil)
