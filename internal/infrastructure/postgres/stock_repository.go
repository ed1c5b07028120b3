package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mudras/stock-ledger/internal/domain"
	"github.com/mudras/stock-ledger/internal/domain/entity"
	dominv "github.com/mudras/stock-ledger/internal/domain/inventory"
	"github.com/mudras/stock-ledger/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL. Con escritura solo la
// construye TxRunner sobre una tx; fuera de ella se expone como StockReader.
type StockRepo struct {
	q Querier
}

func newStockRepository(tx pgx.Tx) *StockRepo {
	return &StockRepo{q: tx}
}

type stockReader struct{ repository.StockReader }

// NewStockReader lecturas de stock sobre el pool (visualización); no expone Set.
func NewStockReader(q Querier) repository.StockReader {
	return stockReader{&StockRepo{q: q}}
}

const selectStock = `
	SELECT article_id, location_id, quantity, version, updated_at
	FROM stock_records WHERE article_id = $1 AND location_id = $2`

// Get obtiene el stock actual de un artículo en un punto; cero si no hay fila.
func (r *StockRepo) Get(ctx context.Context, articleID, locationID int64) (*entity.StockRecord, error) {
	return r.get(ctx, selectStock, "get stock", articleID, locationID)
}

// GetForUpdate obtiene el stock y bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, articleID, locationID int64) (*entity.StockRecord, error) {
	return r.get(ctx, selectStock+` FOR UPDATE`, "get stock for update", articleID, locationID)
}

func (r *StockRepo) get(ctx context.Context, query, op string, articleID, locationID int64) (*entity.StockRecord, error) {
	var s entity.StockRecord
	err := r.q.QueryRow(ctx, query, articleID, locationID).Scan(
		&s.ArticleID, &s.LocationID, &s.Quantity, &s.Version, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockRecord{ArticleID: articleID, LocationID: locationID, Quantity: decimal.Zero}, nil
		}
		return nil, mapError(op, err)
	}
	return &s, nil
}

const upsertStock = `
	INSERT INTO stock_records (article_id, location_id, quantity, version, updated_at)
	VALUES ($1, $2, $3, 1, now())
	ON CONFLICT (location_id, article_id)
	DO UPDATE SET quantity = EXCLUDED.quantity,
	              version = stock_records.version + 1,
	              updated_at = now()
	%s
	RETURNING quantity`

const updateStockIfPrior = `
	UPDATE stock_records
	SET quantity = $3, version = version + 1, updated_at = now()
	WHERE article_id = $1 AND location_id = $2 AND quantity = $4
	RETURNING quantity`

// Set escribe la cantidad. Con expectedPrior la escritura es condicional: si lo almacenado
// ya no coincide no se toca la fila y se devuelve ErrConcurrentModification.
func (r *StockRepo) Set(ctx context.Context, articleID, locationID int64, newQuantity decimal.Decimal, expectedPrior *decimal.Decimal) (decimal.Decimal, error) {
	if err := dominv.ValidateAbsoluteQuantity(newQuantity); err != nil {
		return decimal.Zero, err
	}
	var (
		query string
		args  = []any{articleID, locationID, newQuantity}
	)
	switch {
	case expectedPrior == nil:
		query = fmt.Sprintf(upsertStock, "")
	case expectedPrior.IsZero():
		// Sin fila equivale a cero: se inserta, o se actualiza solo si la fila sigue en cero.
		query = fmt.Sprintf(upsertStock, "WHERE stock_records.quantity = 0")
	default:
		query = updateStockIfPrior
		args = append(args, *expectedPrior)
	}

	var committed decimal.Decimal
	if err := r.q.QueryRow(ctx, query, args...).Scan(&committed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrConcurrentModification
		}
		return decimal.Zero, mapError("set stock", err)
	}
	return committed, nil
}

// ListByLocation lista los registros de un punto ordenados por artículo.
func (r *StockRepo) ListByLocation(ctx context.Context, locationID int64) ([]*entity.StockRecord, error) {
	return r.list(ctx, `
		SELECT article_id, location_id, quantity, version, updated_at
		FROM stock_records WHERE location_id = $1
		ORDER BY article_id`, "list stock by location", locationID)
}

// ListByArticle lista los registros de un artículo en todos los puntos.
func (r *StockRepo) ListByArticle(ctx context.Context, articleID int64) ([]*entity.StockRecord, error) {
	return r.list(ctx, `
		SELECT article_id, location_id, quantity, version, updated_at
		FROM stock_records WHERE article_id = $1
		ORDER BY location_id`, "list stock by article", articleID)
}

func (r *StockRepo) list(ctx context.Context, query, op string, arg int64) ([]*entity.StockRecord, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()
	var out []*entity.StockRecord
	for rows.Next() {
		var s entity.StockRecord
		if err := rows.Scan(&s.ArticleID, &s.LocationID, &s.Quantity, &s.Version, &s.UpdatedAt); err != nil {
			return nil, mapError(op, err)
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return out, nil
}

// CountArticlesWithStock cuenta artículos distintos con cantidad positiva en algún punto.
func (r *StockRepo) CountArticlesWithStock(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(DISTINCT article_id) FROM stock_records WHERE quantity > 0`).Scan(&n)
	if err != nil {
		return 0, mapError("count articles with stock", err)
	}
	return n, nil
}
