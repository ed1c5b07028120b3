package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mudras/stock-ledger/internal/domain"
	"github.com/mudras/stock-ledger/internal/domain/entity"
	"github.com/mudras/stock-ledger/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación del puerto LocationRepository sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador de persistencia para puntos.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

const locationColumns = `id, name, kind, active, description, address, phone, email,
	allows_online_sales, tracks_physical_stock, created_at, updated_at`

// Create persiste un nuevo punto y completa ID y fechas.
func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	query := `
		INSERT INTO locations (name, kind, active, description, address, phone, email,
			allows_online_sales, tracks_physical_stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		l.Name, string(l.Kind), l.Active, l.Description, l.Address, l.Phone, l.Email,
		l.AllowsOnlineSales, l.TracksPhysicalStock,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert location: nombre repetido: %w", domain.ErrInvalidInput)
		}
		return mapError("insert location", err)
	}
	return nil
}

// GetByID obtiene un punto por ID; nil si no existe.
func (r *LocationRepo) GetByID(ctx context.Context, id int64) (*entity.Location, error) {
	l, err := scanLocation(r.q.QueryRow(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get location", err)
	}
	return l, nil
}

// Update actualiza un punto existente.
func (r *LocationRepo) Update(ctx context.Context, l *entity.Location) error {
	query := `
		UPDATE locations SET name = $2, kind = $3, active = $4, description = $5, address = $6,
			phone = $7, email = $8, allows_online_sales = $9, tracks_physical_stock = $10,
			updated_at = now()
		WHERE id = $1
		RETURNING updated_at`
	err := r.q.QueryRow(ctx, query,
		l.ID, l.Name, string(l.Kind), l.Active, l.Description, l.Address, l.Phone, l.Email,
		l.AllowsOnlineSales, l.TracksPhysicalStock,
	).Scan(&l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("update location: nombre repetido: %w", domain.ErrInvalidInput)
		}
		return mapError("update location", err)
	}
	return nil
}

// List lista puntos por ID con paginación. limit <= 0 devuelve todos.
func (r *LocationRepo) List(ctx context.Context, limit, offset int) ([]*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations ORDER BY id OFFSET $1`
	args := []any{offset}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list locations", err)
	}
	defer rows.Close()
	var out []*entity.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, mapError("scan location", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list locations", err)
	}
	return out, nil
}

func scanLocation(row pgx.Row) (*entity.Location, error) {
	var l entity.Location
	var kind string
	err := row.Scan(
		&l.ID, &l.Name, &kind, &l.Active, &l.Description, &l.Address, &l.Phone, &l.Email,
		&l.AllowsOnlineSales, &l.TracksPhysicalStock, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Kind = entity.LocationKind(kind)
	return &l, nil
}
