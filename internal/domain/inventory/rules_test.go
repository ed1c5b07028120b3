package inventory_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mudras/stock-ledger/internal/domain"
	"github.com/mudras/stock-ledger/internal/domain/entity"
	"github.com/mudras/stock-ledger/internal/domain/inventory"
)

func TestAbsoluteDelta(t *testing.T) {
	assert.True(t, inventory.AbsoluteDelta(decimal.Zero, decimal.NewFromInt(50)).Equal(decimal.NewFromInt(50)))
	assert.True(t, inventory.AbsoluteDelta(decimal.NewFromInt(3), decimal.Zero).Equal(decimal.NewFromInt(-3)))
	assert.True(t, inventory.AbsoluteDelta(decimal.NewFromInt(7), decimal.NewFromInt(7)).IsZero())
}

func TestValidateQuantities(t *testing.T) {
	assert.NoError(t, inventory.ValidateAbsoluteQuantity(decimal.Zero), "cero limpia el stock")
	assert.ErrorIs(t, inventory.ValidateAbsoluteQuantity(decimal.NewFromInt(-1)), domain.ErrInvalidQuantity)

	assert.NoError(t, inventory.ValidateTransferQuantity(decimal.RequireFromString("0.5")))
	assert.ErrorIs(t, inventory.ValidateTransferQuantity(decimal.Zero), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, inventory.ValidateTransferQuantity(decimal.NewFromInt(-2)), domain.ErrInvalidQuantity)
}

func TestValidateQuantities_EscalaYRango(t *testing.T) {
	assert.NoError(t, inventory.ValidateTransferQuantity(decimal.RequireFromString("0.0001")))
	assert.NoError(t, inventory.ValidateAbsoluteQuantity(decimal.RequireFromString("1.50000")), "ceros a la derecha no cambian el valor")
	assert.NoError(t, inventory.ValidateAbsoluteQuantity(decimal.RequireFromString("99999999999999.9999")))

	assert.ErrorIs(t, inventory.ValidateTransferQuantity(decimal.RequireFromString("0.00005")), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, inventory.ValidateAbsoluteQuantity(decimal.RequireFromString("2.12345")), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, inventory.ValidateAbsoluteQuantity(decimal.New(1, 14)), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, inventory.ValidateTransferQuantity(decimal.New(5, 20)), domain.ErrInvalidQuantity)
}

func TestCheckAvailable_InformaDisponible(t *testing.T) {
	origin := &entity.StockRecord{ArticleID: 10, LocationID: 1, Quantity: decimal.NewFromInt(30)}

	require.NoError(t, inventory.CheckAvailable(origin, decimal.NewFromInt(30)))

	err := inventory.CheckAvailable(origin, decimal.NewFromInt(999))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.True(t, ise.Available.Equal(decimal.NewFromInt(30)))
}

func TestCheckLocation(t *testing.T) {
	assert.ErrorIs(t, inventory.CheckLocation(nil), domain.ErrUnknownLocation)
	assert.ErrorIs(t, inventory.CheckLocation(&entity.Location{ID: 1}), domain.ErrInactiveLocation)
	assert.NoError(t, inventory.CheckLocation(&entity.Location{ID: 1, Active: true}))
}

func TestSortKeys_OrdenGlobalSinDuplicados(t *testing.T) {
	keys := []entity.StockKey{
		{ArticleID: 11, LocationID: 2},
		{ArticleID: 10, LocationID: 2},
		{ArticleID: 99, LocationID: 1},
		{ArticleID: 10, LocationID: 2},
	}
	got := inventory.SortKeys(keys)
	assert.Equal(t, []entity.StockKey{
		{ArticleID: 99, LocationID: 1},
		{ArticleID: 10, LocationID: 2},
		{ArticleID: 11, LocationID: 2},
	}, got)
}
