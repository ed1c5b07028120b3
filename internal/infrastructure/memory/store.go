// Package memory implementa el almacenamiento del libro de stock en memoria del proceso.
// Se usa en desarrollo (STORAGE_DRIVER=memory) y en tests. Cada transacción acumula sus
// escrituras y las confirma de una sola vez; al confirmar verifica que ningún registro leído
// haya cambiado (control optimista), de modo que un fallo antes del commit no deja rastro.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mudras/stock-ledger/internal/domain"
	"github.com/mudras/stock-ledger/internal/domain/entity"
	dominv "github.com/mudras/stock-ledger/internal/domain/inventory"
	"github.com/mudras/stock-ledger/internal/domain/repository"
)

// Store estado confirmado: registros de stock, historial y puntos.
type Store struct {
	mu        sync.RWMutex
	records   map[entity.StockKey]entity.StockRecord
	movements map[int64]*entity.Movement
	byPair    map[entity.StockKey][]int64
	nextMovID int64
	locations map[int64]*entity.Location
	nextLocID int64
	operators map[string]*entity.Operator // por email
	now       func() time.Time
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		records:   make(map[entity.StockKey]entity.StockRecord),
		movements: make(map[int64]*entity.Movement),
		byPair:    make(map[entity.StockKey][]int64),
		locations: make(map[int64]*entity.Location),
		operators: make(map[string]*entity.Operator),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Run ejecuta fn con repositorios atados a una transacción y confirma si fn no falla.
func (s *Store) Run(ctx context.Context, fn func(
	ctx context.Context,
	stockRepo repository.StockRepository,
	movRepo repository.MovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t := &tx{
		s:        s,
		observed: make(map[entity.StockKey]int64),
		writes:   make(map[entity.StockKey]decimal.Decimal),
	}
	if err := fn(ctx, &txStockRepo{t: t}, &txMovementRepo{t: t}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.commit()
}

// Stocks devuelve las lecturas de stock fuera de transacción (visualización).
func (s *Store) Stocks() repository.StockReader { return &stockView{s: s} }

// Movements devuelve las lecturas del historial fuera de transacción.
func (s *Store) Movements() repository.MovementReader { return &movementView{s: s} }

// Locations devuelve el repositorio de puntos.
func (s *Store) Locations() repository.LocationRepository { return &locationRepo{s: s} }

// Operators devuelve el repositorio de operadores.
func (s *Store) Operators() repository.OperatorRepository { return &operatorRepo{s: s} }

func (s *Store) record(k entity.StockKey) entity.StockRecord {
	if rec, ok := s.records[k]; ok {
		return rec
	}
	return entity.StockRecord{ArticleID: k.ArticleID, LocationID: k.LocationID, Quantity: decimal.Zero}
}

func (s *Store) reserveMovementID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextMovID++
	return s.nextMovID
}

// ── transacción ──────────────────────────────────────────────────────────────

type tx struct {
	s        *Store
	observed map[entity.StockKey]int64 // versión confirmada vista por primera vez
	writes   map[entity.StockKey]decimal.Decimal
	order    []entity.StockKey
	movs     []*entity.Movement
}

func (t *tx) read(k entity.StockKey) entity.StockRecord {
	t.s.mu.RLock()
	rec := t.s.record(k)
	t.s.mu.RUnlock()
	if _, ok := t.observed[k]; !ok {
		t.observed[k] = rec.Version
	}
	if q, ok := t.writes[k]; ok {
		rec.Quantity = q
	}
	return rec
}

func (t *tx) commit() error {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range t.order {
		if s.record(k).Version != t.observed[k] {
			return domain.ErrConcurrentModification
		}
	}
	now := s.now()
	for _, k := range t.order {
		rec := s.record(k)
		rec.Quantity = t.writes[k]
		rec.Version++
		rec.UpdatedAt = now
		s.records[k] = rec
	}
	for _, m := range t.movs {
		s.movements[m.ID] = m
		k := entity.StockKey{ArticleID: m.ArticleID, LocationID: m.LocationID}
		ids := append(s.byPair[k], m.ID)
		slices.Sort(ids)
		s.byPair[k] = ids
	}
	return nil
}

// ── stock en transacción ─────────────────────────────────────────────────────

type txStockRepo struct{ t *tx }

func (r *txStockRepo) Get(_ context.Context, articleID, locationID int64) (*entity.StockRecord, error) {
	rec := r.t.read(entity.StockKey{ArticleID: articleID, LocationID: locationID})
	return &rec, nil
}

// GetForUpdate no bloquea: el conflicto se detecta al confirmar.
func (r *txStockRepo) GetForUpdate(ctx context.Context, articleID, locationID int64) (*entity.StockRecord, error) {
	return r.Get(ctx, articleID, locationID)
}

func (r *txStockRepo) Set(_ context.Context, articleID, locationID int64, newQuantity decimal.Decimal, expectedPrior *decimal.Decimal) (decimal.Decimal, error) {
	if err := dominv.ValidateAbsoluteQuantity(newQuantity); err != nil {
		return decimal.Zero, err
	}
	k := entity.StockKey{ArticleID: articleID, LocationID: locationID}
	current := r.t.read(k)
	if expectedPrior != nil && !current.Quantity.Equal(*expectedPrior) {
		return decimal.Zero, domain.ErrConcurrentModification
	}
	if _, ok := r.t.writes[k]; !ok {
		r.t.order = append(r.t.order, k)
	}
	r.t.writes[k] = newQuantity
	return newQuantity, nil
}

func (r *txStockRepo) ListByLocation(ctx context.Context, locationID int64) ([]*entity.StockRecord, error) {
	return r.t.s.Stocks().ListByLocation(ctx, locationID)
}

func (r *txStockRepo) ListByArticle(ctx context.Context, articleID int64) ([]*entity.StockRecord, error) {
	return r.t.s.Stocks().ListByArticle(ctx, articleID)
}

func (r *txStockRepo) CountArticlesWithStock(ctx context.Context) (int, error) {
	return r.t.s.Stocks().CountArticlesWithStock(ctx)
}

// ── historial en transacción ─────────────────────────────────────────────────

type txMovementRepo struct{ t *tx }

func (r *txMovementRepo) NextID(context.Context) (int64, error) {
	return r.t.s.reserveMovementID(), nil
}

func (r *txMovementRepo) Append(ctx context.Context, m *entity.Movement) (int64, error) {
	if m.ArticleID <= 0 || m.LocationID <= 0 {
		return 0, fmt.Errorf("append movement: %w", domain.ErrInvalidInput)
	}
	if m.ID == 0 {
		m.ID = r.t.s.reserveMovementID()
	}
	cp := *m
	r.t.movs = append(r.t.movs, &cp)
	return m.ID, nil
}

func (r *txMovementRepo) GetByID(ctx context.Context, id int64) (*entity.Movement, error) {
	for _, m := range r.t.movs {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return r.t.s.Movements().GetByID(ctx, id)
}

func (r *txMovementRepo) GetRelated(ctx context.Context, id int64) (*entity.Movement, error) {
	for _, m := range r.t.movs {
		if m.RelatedMovementID != nil && *m.RelatedMovementID == id {
			cp := *m
			return &cp, nil
		}
	}
	return r.t.s.Movements().GetRelated(ctx, id)
}

func (r *txMovementRepo) ListForArticleLocation(ctx context.Context, articleID, locationID int64) ([]*entity.Movement, error) {
	list, err := r.t.s.Movements().ListForArticleLocation(ctx, articleID, locationID)
	if err != nil {
		return nil, err
	}
	for _, m := range r.t.movs {
		if m.ArticleID == articleID && m.LocationID == locationID {
			cp := *m
			list = append(list, &cp)
		}
	}
	slices.SortFunc(list, func(a, b *entity.Movement) int { return cmp.Compare(a.ID, b.ID) })
	return list, nil
}

func (r *txMovementRepo) SumDeltas(ctx context.Context, articleID, locationID int64) (decimal.Decimal, error) {
	list, err := r.ListForArticleLocation(ctx, articleID, locationID)
	if err != nil {
		return decimal.Zero, err
	}
	return sumDeltas(list), nil
}

func (r *txMovementRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	return r.t.s.Movements().CountSince(ctx, since)
}

func sumDeltas(list []*entity.Movement) decimal.Decimal {
	sum := decimal.Zero
	for _, m := range list {
		sum = sum.Add(m.DeltaQuantity)
	}
	return sum
}
