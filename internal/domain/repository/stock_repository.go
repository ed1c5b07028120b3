package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mudras/stock-ledger/internal/domain/entity"
)

// StockReader lecturas de stock para visualización; no expone escrituras.
type StockReader interface {
	// Get devuelve el registro actual; si no existe, un registro con cantidad cero. Nunca "no encontrado".
	Get(ctx context.Context, articleID, locationID int64) (*entity.StockRecord, error)
	ListByLocation(ctx context.Context, locationID int64) ([]*entity.StockRecord, error)
	ListByArticle(ctx context.Context, articleID int64) ([]*entity.StockRecord, error)
	// CountArticlesWithStock cuenta artículos distintos con cantidad > 0 en algún punto.
	CountArticlesWithStock(ctx context.Context) (int, error)
}

// StockRepository define el puerto del almacén de registros de stock por (artículo, punto).
// Solo se obtiene atado a una transacción, junto con el historial: es la única vía de mutación (Set).
type StockRepository interface {
	StockReader
	// GetForUpdate igual que Get pero bloquea el registro hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, articleID, locationID int64) (*entity.StockRecord, error)
	// Set escribe la nueva cantidad. Rechaza cantidades negativas con ErrInvalidQuantity y,
	// si expectedPrior no es nil y no coincide con lo almacenado, falla con ErrConcurrentModification.
	Set(ctx context.Context, articleID, locationID int64, newQuantity decimal.Decimal, expectedPrior *decimal.Decimal) (decimal.Decimal, error)
}
