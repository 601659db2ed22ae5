package httpapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/shipment-tracker/internal/adapter/cache"
	"github.com/example/shipment-tracker/internal/domain"
	"github.com/example/shipment-tracker/internal/usecase"
)

func BenchmarkHandleSearch(b *testing.B) {
	// HTTP-адаптер поверх хранилища в памяти с тестовыми данными
	store := cache.NewRecordStore(nil, "bench")
	records := make([]domain.ShippingRecord, 0, 1000)
	for i := 0; i < 1000; i++ {
		records = append(records, domain.ShippingRecord{Buyer: fmt.Sprintf("buyer-%d", i%20), ProductID: i % 10, Quantity: 1})
	}
	store.Replace(records)
	router := NewServer(Deps{Search: usecase.SearchRecords{Store: store}}).Router

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/search?productId=%d", i%10), nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			i++
		}
	})
}
