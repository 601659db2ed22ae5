package usecase

import (
	"fmt"
	"time"

	"github.com/example/shipment-tracker/internal/domain"
)

// Форматы "orderDate orderTime", в порядке проверки.
var orderTimestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Deriver — чистое преобразование заказов в отгрузки по справочникам.
type Deriver struct {
	Catalog domain.Catalog
	// Location — часовой пояс даты заказа; nil означает UTC.
	Location *time.Location
}

// Derive возвращает по одной записи на каждую позицию каждого заказа,
// сохраняя порядок заказов и позиций. Любая неразрешённая ссылка
// прерывает весь вызов.
func (d Deriver) Derive(orders []domain.Order) ([]domain.ShippingRecord, error) {
	n := 0
	for _, o := range orders {
		n += len(o.Items)
	}
	records := make([]domain.ShippingRecord, 0, n)
	for i, o := range orders {
		customer, ok := d.Catalog.CustomerByName(o.Buyer)
		if !ok {
			return nil, fmt.Errorf("order %d: %w", i, &domain.ReferenceResolutionError{Kind: domain.ReferenceBuyer, Name: o.Buyer})
		}
		ts, err := d.shippingTarget(o)
		if err != nil {
			return nil, fmt.Errorf("order %d: %w", i, err)
		}
		for _, it := range o.Items {
			product, ok := d.Catalog.ProductByName(it.Item)
			if !ok {
				return nil, fmt.Errorf("order %d: %w", i, &domain.ReferenceResolutionError{Kind: domain.ReferenceProduct, Name: it.Item})
			}
			records = append(records, domain.ShippingRecord{
				Buyer:           o.Buyer,
				ProductID:       product.ProductID,
				Quantity:        it.Quantity,
				ShippingAddress: customer.Address,
				ShippingTarget:  ts,
			})
		}
	}
	return records, nil
}

func (d Deriver) shippingTarget(o domain.Order) (int64, error) {
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	value := o.OrderDate + " " + o.OrderTime
	var lastErr error
	for _, layout := range orderTimestampLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return t.UnixMilli(), nil
		}
		lastErr = err
	}
	return 0, fmt.Errorf("%w %q: %v", domain.ErrInvalidTimestamp, value, lastErr)
}
