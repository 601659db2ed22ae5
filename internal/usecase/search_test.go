package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/shipment-tracker/internal/adapter/cache"
	"github.com/example/shipment-tracker/internal/adapter/catalog"
	"github.com/example/shipment-tracker/internal/domain"
)

func TestParseSearchQuery(t *testing.T) {
	tests := []struct {
		name                 string
		productID, buyer, ts string
		want                 SearchQuery
		wantErr              bool
	}{
		{name: "product wins", productID: "2", buyer: "Alice", ts: "5", want: SearchQuery{Field: SearchByProduct, ProductID: 2}},
		{name: "buyer before target", buyer: "Alice", ts: "5", want: SearchQuery{Field: SearchByBuyer, Buyer: "Alice"}},
		{name: "target", ts: "1704103200000", want: SearchQuery{Field: SearchFromShippingTarget, ShippingTarget: 1704103200000}},
		{name: "bad product", productID: "two", wantErr: true},
		{name: "bad target", ts: "soon", wantErr: true},
		{name: "none", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSearchQuery(tt.productID, tt.buyer, tt.ts)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearchRecords(t *testing.T) {
	store := cache.NewRecordStore(nil, snapName)
	records, err := Deriver{Catalog: testCatalog()}.Derive(testCatalog().Orders())
	require.NoError(t, err)
	store.Replace(records)
	uc := SearchRecords{Store: store}

	got, err := uc.Execute(SearchQuery{Field: SearchByProduct, ProductID: 1})
	require.NoError(t, err)
	assert.Equal(t, []domain.ShippingRecord{records[0], records[2]}, got)

	got, err = uc.Execute(SearchQuery{Field: SearchByBuyer, Buyer: "Bob"})
	require.NoError(t, err)
	assert.Equal(t, records[1:], got)

	got, err = uc.Execute(SearchQuery{Field: SearchFromShippingTarget, ShippingTarget: records[1].ShippingTarget})
	require.NoError(t, err)
	assert.Equal(t, records[1:], got)

	_, err = uc.Execute(SearchQuery{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAuthenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	c := catalog.New([]domain.User{
		{Username: "admin", Password: "secret"},
		{Username: "ops", Password: string(hash)},
	}, nil, nil, nil)
	uc := Authenticate{Catalog: c}

	assert.True(t, uc.Execute("admin", "secret"))
	assert.False(t, uc.Execute("admin", "Secret"))
	assert.True(t, uc.Execute("ops", "hunter2"))
	assert.False(t, uc.Execute("ops", string(hash)))
	assert.False(t, uc.Execute("nobody", ""))
	assert.False(t, uc.Execute("", ""))
}
