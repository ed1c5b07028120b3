package repository

import (
	"context"

	"github.com/mudras/stock-ledger/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia de puntos Mudras.
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	// GetByID devuelve nil, nil si el punto no existe.
	GetByID(ctx context.Context, id int64) (*entity.Location, error)
	Update(ctx context.Context, location *entity.Location) error
	List(ctx context.Context, limit, offset int) ([]*entity.Location, error)
}
