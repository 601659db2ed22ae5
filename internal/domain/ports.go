package domain

import (
	"context"
	"errors"
	"fmt"
)

// SnapshotRepository — порт персистентности: хранит именованные JSON-снимки целиком.
type SnapshotRepository interface {
	// Load возвращает ErrNotFound, если снимка с таким именем нет.
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, blob []byte) error
}

// Catalog — справочники пользователей, товаров и покупателей (только чтение).
type Catalog interface {
	ProductByName(name string) (Product, bool)
	CustomerByName(name string) (Customer, bool)
	UserByName(username string) (User, bool)
	Orders() []Order
}

// RecordStore — порт хранилища отгрузок в памяти.
type RecordStore interface {
	Append(records []ShippingRecord)
	Replace(records []ShippingRecord)
	// Persist асинхронно сохраняет текущую коллекцию.
	Persist()
	All() []ShippingRecord
	ByProduct(productID int) []ShippingRecord
	ByBuyer(buyer string) []ShippingRecord
	FromShippingTarget(ts int64) []ShippingRecord
}

// Channel — канал уведомлений подписчика; принадлежит транспорту.
type Channel interface {
	ID() string
	// Push не блокирует; для закрытого канала возвращает ErrChannelClosed.
	Push(event string, payload []byte) error
}

// SubscriptionRegistry — порт реестра подписок productId -> каналы.
type SubscriptionRegistry interface {
	Subscribe(ch Channel, productIDs []int)
	Unsubscribe(ch Channel)
	ChannelsFor(productID int) []Channel
}

// MessageSubscriber — порт подписчика на входящие сообщения заказов.
type MessageSubscriber interface {
	// Subscribe регистрирует обработчик; ack/повторные доставки реализует адаптер.
	Subscribe(ctx context.Context, handler func(ctx context.Context, raw []byte) error) error
}

// Общие доменные ошибки
var (
	ErrNotFound         = notFoundError("not found")
	ErrValidation       = validationError("invalid data")
	ErrMissingReference = errors.New("missing reference")
	ErrInvalidTimestamp = errors.New("invalid order timestamp")
	ErrChannelClosed    = errors.New("channel closed")
)

type notFoundError string

func (e notFoundError) Error() string { return string(e) }

type validationError string

func (e validationError) Error() string { return string(e) }

// ReferenceKind — вид справочника, в котором не нашлось ключа.
type ReferenceKind string

const (
	ReferenceBuyer   ReferenceKind = "buyer"
	ReferenceProduct ReferenceKind = "product"
)

// ReferenceResolutionError — имя покупателя или товара не найдено в справочнике.
type ReferenceResolutionError struct {
	Kind ReferenceKind
	Name string
}

func (e *ReferenceResolutionError) Error() string {
	return fmt.Sprintf("%s: %s %q", ErrMissingReference, e.Kind, e.Name)
}

func (e *ReferenceResolutionError) Unwrap() error { return ErrMissingReference }
