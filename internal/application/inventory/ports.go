package inventory

import (
	"context"
	"time"

	"github.com/mudras/stock-ledger/internal/domain/entity"
	"github.com/mudras/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Es la unidad atómica del libro de stock: o se confirman todas las escrituras de stock y todos
// los movimientos, o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		ctx context.Context,
		stockRepo repository.StockRepository,
		movRepo repository.MovementRepository,
	) error) error
}

// LocationRegistry consulta puntos Mudras para validar operaciones.
type LocationRegistry interface {
	// GetLocation devuelve nil, nil si el punto no existe.
	GetLocation(ctx context.Context, id int64) (*entity.Location, error)
}

// Metrics registra resultados de operaciones del libro. Puede ser nil.
type Metrics interface {
	ObserveOperation(op, outcome string, elapsed time.Duration)
	ObserveLockWait(elapsed time.Duration)
}
