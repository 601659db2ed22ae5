package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/example/shipment-tracker/internal/domain"
)

// Источник коллекции при старте.
const (
	SourceSnapshot = "snapshot"
	SourceDerived  = "derived"
)

// Bootstrap — загрузить сохранённый снимок отгрузок или построить его заново из истории заказов.
type Bootstrap struct {
	Repo         domain.SnapshotRepository
	Store        domain.RecordStore
	Deriver      Deriver
	SnapshotName string
}

func (uc Bootstrap) Execute(ctx context.Context) (string, error) {
	raw, err := uc.Repo.Load(ctx, uc.SnapshotName)
	switch {
	case err == nil:
		var records []domain.ShippingRecord
		if err := json.Unmarshal(raw, &records); err == nil && records != nil {
			uc.Store.Replace(records)
			return SourceSnapshot, nil
		}
		log.Printf("snapshot %s is unreadable, re-deriving", uc.SnapshotName)
	case errors.Is(err, domain.ErrNotFound):
	default:
		log.Printf("load snapshot %s: %v, re-deriving", uc.SnapshotName, err)
	}

	records, err := uc.Deriver.Derive(uc.Deriver.Catalog.Orders())
	if err != nil {
		return "", fmt.Errorf("derive historical orders: %w", err)
	}
	uc.Store.Replace(records)
	uc.Store.Persist()
	return SourceDerived, nil
}

// UploadOrder — принять новый заказ: построить отгрузки, дописать, разослать уведомления.
type UploadOrder struct {
	Deriver    Deriver
	Store      domain.RecordStore
	Dispatcher Dispatcher
}

func (uc UploadOrder) Execute(ctx context.Context, o domain.Order) ([]domain.ShippingRecord, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	records, err := uc.Deriver.Derive([]domain.Order{o})
	if err != nil {
		return nil, err
	}
	uc.Store.Append(records)
	uc.Dispatcher.Dispatch(records)
	return records, nil
}

// ProcessIncomingOrder — разобрать сообщение заказа из шины и передать в UploadOrder.
type ProcessIncomingOrder struct {
	Upload UploadOrder
}

func (uc ProcessIncomingOrder) Execute(ctx context.Context, raw []byte) error {
	o, err := DecodeOrder(raw)
	if err != nil {
		return err
	}
	_, err = uc.Upload.Execute(ctx, o)
	return err
}

// DecodeOrder строго разбирает JSON заказа: неизвестные поля и хвост считаются ошибкой.
func DecodeOrder(raw []byte) (domain.Order, error) {
	var o domain.Order
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&o); err != nil {
		return domain.Order{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if dec.More() {
		return domain.Order{}, fmt.Errorf("%w: trailing data after order", domain.ErrValidation)
	}
	return o, nil
}

// IsClientError сообщает, что ошибка вызвана входными данными, а не сервисом.
func IsClientError(err error) bool {
	return errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrMissingReference) ||
		errors.Is(err, domain.ErrInvalidTimestamp)
}

// ListRecords — вся коллекция отгрузок.
type ListRecords struct {
	Store domain.RecordStore
}

func (uc ListRecords) Execute() []domain.ShippingRecord {
	return uc.Store.All()
}
