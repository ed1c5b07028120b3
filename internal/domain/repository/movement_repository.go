package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mudras/stock-ledger/internal/domain/entity"
)

// MovementReader lecturas del historial.
type MovementReader interface {
	GetByID(ctx context.Context, id int64) (*entity.Movement, error)
	// GetRelated devuelve el movimiento emparejado con id (transferencias), o nil.
	GetRelated(ctx context.Context, id int64) (*entity.Movement, error)
	// ListForArticleLocation devuelve los movimientos del par ordenados del más antiguo al más reciente.
	ListForArticleLocation(ctx context.Context, articleID, locationID int64) ([]*entity.Movement, error)
	// SumDeltas suma DeltaQuantity de todos los movimientos del par.
	SumDeltas(ctx context.Context, articleID, locationID int64) (decimal.Decimal, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
}

// MovementRepository define el puerto del historial de movimientos (solo inserción).
// No existen operaciones de actualización ni borrado; Append solo existe dentro de una transacción.
type MovementRepository interface {
	MovementReader
	// NextID reserva un ID monótono; permite que dos movimientos se referencien antes de insertarse.
	NextID(ctx context.Context) (int64, error)
	// Append inserta el movimiento; si ID es cero se asigna uno nuevo. Devuelve el ID.
	Append(ctx context.Context, movement *entity.Movement) (int64, error)
}
