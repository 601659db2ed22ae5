package usecase

import (
	"fmt"
	"strconv"

	"github.com/example/shipment-tracker/internal/domain"
)

type SearchField int

const (
	SearchByProduct SearchField = iota + 1
	SearchByBuyer
	SearchFromShippingTarget
)

// SearchQuery — ровно один фильтр на запрос.
type SearchQuery struct {
	Field          SearchField
	ProductID      int
	Buyer          string
	ShippingTarget int64
}

// ParseSearchQuery выбирает первый непустой параметр в порядке productId, buyer, shippingTarget.
func ParseSearchQuery(productID, buyer, shippingTarget string) (SearchQuery, error) {
	switch {
	case productID != "":
		id, err := strconv.Atoi(productID)
		if err != nil {
			return SearchQuery{}, fmt.Errorf("%w: productId %q is not an integer", domain.ErrValidation, productID)
		}
		return SearchQuery{Field: SearchByProduct, ProductID: id}, nil
	case buyer != "":
		return SearchQuery{Field: SearchByBuyer, Buyer: buyer}, nil
	case shippingTarget != "":
		ts, err := strconv.ParseInt(shippingTarget, 10, 64)
		if err != nil {
			return SearchQuery{}, fmt.Errorf("%w: shippingTarget %q is not an integer", domain.ErrValidation, shippingTarget)
		}
		return SearchQuery{Field: SearchFromShippingTarget, ShippingTarget: ts}, nil
	}
	return SearchQuery{}, fmt.Errorf("%w: one of productId, buyer, shippingTarget is required", domain.ErrValidation)
}

type SearchRecords struct {
	Store domain.RecordStore
}

func (uc SearchRecords) Execute(q SearchQuery) ([]domain.ShippingRecord, error) {
	switch q.Field {
	case SearchByProduct:
		return uc.Store.ByProduct(q.ProductID), nil
	case SearchByBuyer:
		return uc.Store.ByBuyer(q.Buyer), nil
	case SearchFromShippingTarget:
		return uc.Store.FromShippingTarget(q.ShippingTarget), nil
	}
	return nil, domain.ErrValidation
}
