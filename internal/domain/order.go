package domain

// Order — входящий заказ покупателя; хранится только в виде производных ShippingRecord.
type Order struct {
	Buyer     string      `json:"buyer"`
	OrderDate string      `json:"orderDate"`
	OrderTime string      `json:"orderTime"`
	Items     []OrderItem `json:"items"`
}

// OrderItem — позиция заказа.
type OrderItem struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

// Validate выполняет базовые проверки наличия полей.
func (o Order) Validate() error {
	if o.Buyer == "" || o.OrderDate == "" || o.OrderTime == "" {
		return ErrValidation
	}
	if len(o.Items) == 0 {
		return ErrValidation
	}
	for _, it := range o.Items {
		if it.Item == "" || it.Quantity <= 0 {
			return ErrValidation
		}
	}
	return nil
}

// ShippingRecord — одна отгрузка на пару (заказ, позиция).
type ShippingRecord struct {
	Buyer           string `json:"buyer"`
	ProductID       int    `json:"productId"`
	Quantity        int    `json:"quantity"`
	ShippingAddress string `json:"shippingAddress"`
	// ShippingTarget — время заказа в миллисекундах Unix.
	ShippingTarget int64 `json:"shippingTarget"`
}
