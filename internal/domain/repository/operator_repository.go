package repository

import (
	"context"

	"github.com/mudras/stock-ledger/internal/domain/entity"
)

// OperatorRepository define el puerto de persistencia de operadores.
type OperatorRepository interface {
	// Create devuelve domain.ErrEmailAlreadyExists si el email ya está registrado.
	Create(ctx context.Context, op *entity.Operator) error
	// FindByEmail devuelve nil, nil si no existe.
	FindByEmail(ctx context.Context, email string) (*entity.Operator, error)
	Count(ctx context.Context) (int, error)
}
