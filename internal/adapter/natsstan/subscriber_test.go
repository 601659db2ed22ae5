package natsstan

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/shipment-tracker/internal/domain"
	"github.com/example/shipment-tracker/internal/usecase"
)

func TestHandleAckPolicy(t *testing.T) {
	transient := errors.New("store unavailable")
	s := &Subscriber{Permanent: usecase.IsClientError}

	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{name: "success", err: nil, wantErr: nil},
		{name: "validation dropped", err: domain.ErrValidation, wantErr: nil},
		{name: "missing reference dropped", err: &domain.ReferenceResolutionError{Kind: domain.ReferenceBuyer, Name: "x"}, wantErr: nil},
		{name: "transient redelivered", err: transient, wantErr: transient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.handle(context.Background(), func(context.Context, []byte) error { return tt.err }, []byte(`{}`))
			assert.Equal(t, tt.wantErr, err)
		})
	}
}

func TestHandleWithoutClassifier(t *testing.T) {
	s := &Subscriber{}
	err := s.handle(context.Background(), func(context.Context, []byte) error { return domain.ErrValidation }, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
