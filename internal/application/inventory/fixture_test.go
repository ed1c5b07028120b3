package inventory

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mudras/stock-ledger/internal/domain/entity"
	"github.com/mudras/stock-ledger/internal/domain/repository"
	"github.com/mudras/stock-ledger/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	locDeposito int64 = 1
	locLocal    int64 = 2
	locCerrado  int64 = 3
	locOtro     int64 = 4
)

type registry struct{ repo repository.LocationRepository }

func (r registry) GetLocation(ctx context.Context, id int64) (*entity.Location, error) {
	return r.repo.GetByID(ctx, id)
}

type fixture struct {
	store    *memory.Store
	runner   TxRunner
	locker   *KeyLocker
	adjust   *AdjustStockUseCase
	transfer *TransferStockUseCase
	bulk     *AssignBulkUseCase
	query    *StockQueryUseCase
}

func testOptions() Options {
	return Options{
		LockTimeout:   time.Second,
		RetryAttempts: 3,
		RetryBase:     time.Millisecond,
		RetryMax:      5 * time.Millisecond,
		Logger:        zerolog.Nop(),
	}
}

// newFixture arma los casos de uso sobre el almacén en memoria con cuatro puntos:
// depósito (1), local (2), local inactivo (3) y otro local (4).
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	return newFixtureWith(t, store, store, testOptions())
}

func newFixtureWith(t *testing.T, store *memory.Store, runner TxRunner, opts Options) *fixture {
	t.Helper()
	ctx := context.Background()
	locs := store.Locations()
	for _, l := range []*entity.Location{
		{ID: locDeposito, Name: "Depósito Central", Kind: entity.LocationKindWarehouse, Active: true},
		{ID: locLocal, Name: "Local Centro", Kind: entity.LocationKindSale, Active: true},
		{ID: locCerrado, Name: "Local Cerrado", Kind: entity.LocationKindSale, Active: false},
		{ID: locOtro, Name: "Local Norte", Kind: entity.LocationKindSale, Active: true},
	} {
		if existing, _ := locs.GetByID(ctx, l.ID); existing == nil {
			require.NoError(t, locs.Create(ctx, l))
		}
	}
	reg := registry{repo: locs}
	locker := NewKeyLocker(opts.LockTimeout)
	return &fixture{
		store:    store,
		runner:   runner,
		locker:   locker,
		adjust:   NewAdjustStockUseCase(runner, reg, locker, opts),
		transfer: NewTransferStockUseCase(runner, reg, locker, opts),
		bulk:     NewAssignBulkUseCase(runner, reg, locker, opts),
		query:    NewStockQueryUseCase(runner, locker, store.Stocks(), store.Movements(), reg),
	}
}

func (f *fixture) seed(t *testing.T, articleID, locationID int64, qty int64) {
	t.Helper()
	_, err := f.adjust.Adjust(context.Background(), AdjustInput{
		ArticleID: articleID, LocationID: locationID, NewQuantity: decimal.NewFromInt(qty), Reason: "carga inicial",
	})
	require.NoError(t, err)
}

func (f *fixture) qty(t *testing.T, articleID, locationID int64) decimal.Decimal {
	t.Helper()
	rec, err := f.query.GetQuantity(context.Background(), articleID, locationID)
	require.NoError(t, err)
	return rec.Quantity
}

func (f *fixture) movements(t *testing.T, articleID, locationID int64) []*entity.Movement {
	t.Helper()
	list, err := f.query.ListMovements(context.Background(), articleID, locationID)
	require.NoError(t, err)
	return list
}

func (f *fixture) requireReconciled(t *testing.T, articleID, locationID int64) {
	t.Helper()
	r, err := f.query.Reconcile(context.Background(), articleID, locationID)
	require.NoError(t, err)
	require.True(t, r.Consistent, "suma de deltas %s != cantidad %s (artículo %d, punto %d)",
		r.SumOfDeltas, r.Quantity, articleID, locationID)
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de almacenamiento
// ──────────────────────────────────────────────────────────────────────────────

// failingRunner delega en el almacén pero hace fallar el N-ésimo Append de cada transacción.
type failingRunner struct {
	inner    TxRunner
	failOn   int
	failWith error
}

func (r *failingRunner) Run(ctx context.Context, fn func(context.Context, repository.StockRepository, repository.MovementRepository) error) error {
	return r.inner.Run(ctx, func(ctx context.Context, s repository.StockRepository, m repository.MovementRepository) error {
		return fn(ctx, s, &failingMovements{MovementRepository: m, failOn: r.failOn, err: r.failWith})
	})
}

type failingMovements struct {
	repository.MovementRepository
	calls  int
	failOn int
	err    error
}

func (m *failingMovements) Append(ctx context.Context, mv *entity.Movement) (int64, error) {
	m.calls++
	if m.calls == m.failOn {
		return 0, m.err
	}
	return m.MovementRepository.Append(ctx, mv)
}

// conflictRunner devuelve un error fijo en los primeros `failures` intentos.
type conflictRunner struct {
	inner    TxRunner
	failures int32
	err      error
	calls    atomic.Int32
}

func (r *conflictRunner) Run(ctx context.Context, fn func(context.Context, repository.StockRepository, repository.MovementRepository) error) error {
	if r.calls.Add(1) <= r.failures {
		return r.err
	}
	return r.inner.Run(ctx, fn)
}

var errDiskFull = errors.New("disk full")
