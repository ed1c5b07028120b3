package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mudras/stock-ledger/internal/domain/entity"
)

func TestGenerateLocationStockPDF(t *testing.T) {
	g := NewMarotoPDFGenerator()
	loc := &entity.Location{ID: 3, Name: "Depósito Central", Kind: entity.LocationKindWarehouse, Active: true}
	records := []*entity.StockRecord{
		{ArticleID: 10, LocationID: 3, Quantity: decimal.NewFromInt(40), UpdatedAt: time.Now()},
		{ArticleID: 11, LocationID: 3, Quantity: decimal.Zero},
	}

	out, err := g.GenerateLocationStockPDF(context.Background(), loc, records, time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe devolver un documento PDF")
}

func TestGenerateLocationStockPDF_SinPunto(t *testing.T) {
	_, err := NewMarotoPDFGenerator().GenerateLocationStockPDF(context.Background(), nil, nil, time.Now())
	assert.Error(t, err)
}
