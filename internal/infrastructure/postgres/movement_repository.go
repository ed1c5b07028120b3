package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mudras/stock-ledger/internal/domain"
	"github.com/mudras/stock-ledger/internal/domain/entity"
	"github.com/mudras/stock-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo historial de movimientos sobre PostgreSQL. La tabla rechaza UPDATE y DELETE
// mediante trigger; Append solo se ofrece dentro de TxRunner.
type MovementRepo struct {
	q Querier
}

func newMovementRepository(tx pgx.Tx) *MovementRepo {
	return &MovementRepo{q: tx}
}

type movementReader struct{ repository.MovementReader }

// NewMovementReader lecturas del historial sobre el pool; no expone Append.
func NewMovementReader(q Querier) repository.MovementReader {
	return movementReader{&MovementRepo{q: q}}
}

const movementColumns = `id, operation_id::text, created_at, article_id, location_id, kind,
	delta_quantity, previous_quantity, resulting_quantity, reason, related_movement_id, created_by`

// NextID reserva el siguiente valor de la secuencia de movimientos.
func (r *MovementRepo) NextID(ctx context.Context) (int64, error) {
	var id int64
	err := r.q.QueryRow(ctx, `SELECT nextval(pg_get_serial_sequence('stock_movements', 'id'))`).Scan(&id)
	if err != nil {
		return 0, mapError("next movement id", err)
	}
	return id, nil
}

// Append inserta el movimiento. Si ID es cero lo asigna la secuencia.
func (r *MovementRepo) Append(ctx context.Context, m *entity.Movement) (int64, error) {
	if m.ArticleID <= 0 || m.LocationID <= 0 {
		return 0, domain.ErrInvalidInput
	}
	query := `
		INSERT INTO stock_movements (id, operation_id, created_at, article_id, location_id, kind,
			delta_quantity, previous_quantity, resulting_quantity, reason, related_movement_id, created_by)
		VALUES (COALESCE($1, nextval(pg_get_serial_sequence('stock_movements', 'id'))),
			$2::uuid, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	var id *int64
	if m.ID != 0 {
		id = &m.ID
	}
	err := r.q.QueryRow(ctx, query,
		id, m.OperationID, m.Timestamp, m.ArticleID, m.LocationID, string(m.Kind),
		m.DeltaQuantity, m.PreviousQuantity, m.ResultingQuantity, m.Reason,
		m.RelatedMovementID, m.CreatedBy,
	).Scan(&m.ID)
	if err != nil {
		return 0, mapError("append movement", err)
	}
	return m.ID, nil
}

// GetByID obtiene un movimiento por ID; nil si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, id int64) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM stock_movements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get movement", err)
	}
	return m, nil
}

// GetRelated devuelve el movimiento emparejado con id; nil si no tiene pareja.
func (r *MovementRepo) GetRelated(ctx context.Context, id int64) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements
		WHERE id = (SELECT related_movement_id FROM stock_movements WHERE id = $1)`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get related movement", err)
	}
	return m, nil
}

// ListForArticleLocation historial del par, del más antiguo al más reciente.
func (r *MovementRepo) ListForArticleLocation(ctx context.Context, articleID, locationID int64) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, `SELECT `+movementColumns+` FROM stock_movements
		WHERE article_id = $1 AND location_id = $2
		ORDER BY id`, articleID, locationID)
	if err != nil {
		return nil, mapError("list movements", err)
	}
	defer rows.Close()
	var out []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, mapError("scan movement", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list movements", err)
	}
	return out, nil
}

// SumDeltas suma los deltas del par; cero si no hay movimientos.
func (r *MovementRepo) SumDeltas(ctx context.Context, articleID, locationID int64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(delta_quantity), 0) FROM stock_movements
		WHERE article_id = $1 AND location_id = $2`, articleID, locationID).Scan(&sum)
	if err != nil {
		return decimal.Zero, mapError("sum deltas", err)
	}
	return sum, nil
}

// CountSince cuenta los movimientos registrados desde since.
func (r *MovementRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_movements WHERE created_at >= $1`, since).Scan(&n); err != nil {
		return 0, mapError("count movements", err)
	}
	return n, nil
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var kind string
	err := row.Scan(
		&m.ID, &m.OperationID, &m.Timestamp, &m.ArticleID, &m.LocationID, &kind,
		&m.DeltaQuantity, &m.PreviousQuantity, &m.ResultingQuantity, &m.Reason,
		&m.RelatedMovementID, &m.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	m.Kind = entity.MovementKind(kind)
	return &m, nil
}
