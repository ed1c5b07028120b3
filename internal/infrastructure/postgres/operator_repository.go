package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/mudras/stock-ledger/internal/domain"
	"github.com/mudras/stock-ledger/internal/domain/entity"
	"github.com/mudras/stock-ledger/internal/domain/repository"
)

var _ repository.OperatorRepository = (*OperatorRepo)(nil)

// OperatorRepo implementación del puerto OperatorRepository sobre PostgreSQL.
type OperatorRepo struct {
	q Querier
}

// NewOperatorRepository construye el adaptador de persistencia para operadores.
func NewOperatorRepository(q Querier) *OperatorRepo {
	return &OperatorRepo{q: q}
}

// Create persiste un nuevo operador.
func (r *OperatorRepo) Create(ctx context.Context, op *entity.Operator) error {
	query := `
		INSERT INTO operators (id, email, password_hash, name, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		op.ID, op.Email, op.PasswordHash, op.Name, op.Role, op.Active, op.CreatedAt, op.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return mapError("insert operator", err)
	}
	return nil
}

// FindByEmail obtiene un operador por email; nil si no existe.
func (r *OperatorRepo) FindByEmail(ctx context.Context, email string) (*entity.Operator, error) {
	query := `
		SELECT id::text, email, password_hash, name, role, active, created_at, updated_at
		FROM operators WHERE email = $1`
	var op entity.Operator
	err := r.q.QueryRow(ctx, query, email).Scan(
		&op.ID, &op.Email, &op.PasswordHash, &op.Name, &op.Role, &op.Active, &op.CreatedAt, &op.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get operator by email", err)
	}
	return &op, nil
}

// Count cuenta operadores registrados.
func (r *OperatorRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM operators`).Scan(&n); err != nil {
		return 0, mapError("count operators", err)
	}
	return n, nil
}
