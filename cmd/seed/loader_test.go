package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mudras/stock-ledger/internal/application/inventory"
	"github.com/mudras/stock-ledger/internal/application/usecase"
	"github.com/mudras/stock-ledger/internal/infrastructure/memory"
)

func TestReadOpening_Latin1(t *testing.T) {
	raw := []byte("punto;tipo;articulo;cantidad\nDep\xf3sito;deposito;10;12,5\n")

	rows, err := readOpening(bytes.NewReader(raw), ';', true)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Depósito", rows[0].Location)
	assert.Equal(t, int64(10), rows[0].ArticleID)
	assert.Equal(t, "12.5", rows[0].Quantity.String())
}

func TestReadOpening_Rechazos(t *testing.T) {
	cases := map[string]string{
		"sin datos":         "punto;tipo;articulo;cantidad\n",
		"artículo inválido": "punto;tipo;articulo;cantidad\nLocal;venta;abc;1\n",
		"cantidad negativa": "punto;tipo;articulo;cantidad\nLocal;venta;1;-3\n",
		"punto vacío":       "punto;tipo;articulo;cantidad\n ;venta;1;3\n",
		"columnas de menos": "punto;tipo;articulo;cantidad\nLocal;venta;1\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := readOpening(strings.NewReader(in), ';', false)
			require.Error(t, err)
		})
	}
}

func TestApplyOpening_CreaPuntosYAjusta(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	locations := usecase.NewLocationUseCase(store.Locations(), store.Stocks(), store.Movements())
	adjust := inventory.NewAdjustStockUseCase(store, locations, inventory.NewKeyLocker(0), inventory.Options{Logger: zerolog.Nop()})

	rows, err := readOpening(strings.NewReader(
		"punto,tipo,articulo,cantidad\nDepósito,deposito,10,50\nLocal,venta,10,5\ndepósito,deposito,11,3\n"), ',', false)
	require.NoError(t, err)

	res, err := applyOpening(ctx, rows, locations, adjust, "seed")
	require.NoError(t, err)
	assert.Equal(t, 2, res.LocationsCreated)
	assert.Equal(t, 3, res.Adjustments)

	rec, err := store.Stocks().Get(ctx, 11, 1)
	require.NoError(t, err)
	assert.Equal(t, "3", rec.Quantity.String())

	movs, err := store.Movements().ListForArticleLocation(ctx, 10, 2)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, "stock inicial", movs[0].Reason)
	assert.Equal(t, "seed", movs[0].CreatedBy)

	// Tipo inválido para un punto nuevo.
	bad, err := readOpening(strings.NewReader("p;t;a;c\nKiosco;kiosco;1;1\n"), ';', false)
	require.NoError(t, err)
	_, err = applyOpening(ctx, bad, locations, adjust, "seed")
	require.Error(t, err)
}
