package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mudras/stock-ledger/internal/domain"
	"github.com/mudras/stock-ledger/internal/domain/entity"
	"github.com/mudras/stock-ledger/internal/domain/repository"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// setQty fija una cantidad en su propia transacción.
func setQty(ctx context.Context, s *Store, articleID, locationID int64, q decimal.Decimal, expectedPrior *decimal.Decimal) error {
	return s.Run(ctx, func(ctx context.Context, stocks repository.StockRepository, _ repository.MovementRepository) error {
		_, err := stocks.Set(ctx, articleID, locationID, q, expectedPrior)
		return err
	})
}

func TestStore_CommitAplicaEscriturasYMovimientos(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	err := s.Run(ctx, func(ctx context.Context, stocks repository.StockRepository, movs repository.MovementRepository) error {
		zero := decimal.Zero
		if _, err := stocks.Set(ctx, 10, 1, dec(8), &zero); err != nil {
			return err
		}
		rec, err := stocks.Get(ctx, 10, 1)
		require.NoError(t, err)
		assert.True(t, rec.Quantity.Equal(dec(8)), "la transacción ve sus propias escrituras")

		_, err = movs.Append(ctx, &entity.Movement{ArticleID: 10, LocationID: 1, Kind: entity.MovementKindAdjustment, DeltaQuantity: dec(8)})
		return err
	})
	require.NoError(t, err)

	rec, err := s.Stocks().Get(ctx, 10, 1)
	require.NoError(t, err)
	assert.True(t, rec.Quantity.Equal(dec(8)))
	assert.Equal(t, int64(1), rec.Version)
	assert.False(t, rec.UpdatedAt.IsZero())

	list, err := s.Movements().ListForArticleLocation(ctx, 10, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].ID)
}

func TestStore_ErrorDescartaTodo(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Run(ctx, func(ctx context.Context, stocks repository.StockRepository, movs repository.MovementRepository) error {
		_, _ = stocks.Set(ctx, 10, 1, dec(5), nil)
		_, _ = movs.Append(ctx, &entity.Movement{ArticleID: 10, LocationID: 1, DeltaQuantity: dec(5)})
		return boom
	})
	require.ErrorIs(t, err, boom)

	rec, err := s.Stocks().Get(ctx, 10, 1)
	require.NoError(t, err)
	assert.True(t, rec.Quantity.IsZero())
	list, err := s.Movements().ListForArticleLocation(ctx, 10, 1)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_ConflictoDeVersion(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, setQty(ctx, s, 10, 1, dec(50), nil))

	err := s.Run(ctx, func(ctx context.Context, stocks repository.StockRepository, _ repository.MovementRepository) error {
		rec, err := stocks.GetForUpdate(ctx, 10, 1)
		if err != nil {
			return err
		}
		// Otra escritura confirma entre la lectura y el commit.
		require.NoError(t, setQty(ctx, s, 10, 1, dec(20), nil))

		prev := rec.Quantity
		_, err = stocks.Set(ctx, 10, 1, prev.Sub(dec(40)), &prev)
		return err
	})
	require.ErrorIs(t, err, domain.ErrConcurrentModification)

	rec, err := s.Stocks().Get(ctx, 10, 1)
	require.NoError(t, err)
	assert.True(t, rec.Quantity.Equal(dec(20)))
}

func TestStore_SetValidaCantidadYPrevio(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.ErrorIs(t, setQty(ctx, s, 10, 1, dec(-1), nil), domain.ErrInvalidQuantity)
	require.ErrorIs(t, setQty(ctx, s, 10, 1, decimal.RequireFromString("0.00001"), nil), domain.ErrInvalidQuantity)

	wrong := dec(3)
	require.ErrorIs(t, setQty(ctx, s, 10, 1, dec(1), &wrong), domain.ErrConcurrentModification)
}

func TestStore_ContextoCanceladoNoConfirma(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())

	err := s.Run(ctx, func(ctx context.Context, stocks repository.StockRepository, _ repository.MovementRepository) error {
		_, err := stocks.Set(ctx, 10, 1, dec(5), nil)
		cancel()
		return err
	})
	require.ErrorIs(t, err, context.Canceled)

	rec, err := s.Stocks().Get(context.Background(), 10, 1)
	require.NoError(t, err)
	assert.True(t, rec.Quantity.IsZero())
}

func TestStore_MovimientosEnlazados(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var outID, inID int64
	err := s.Run(ctx, func(ctx context.Context, _ repository.StockRepository, movs repository.MovementRepository) error {
		outID, _ = movs.NextID(ctx)
		inID, _ = movs.NextID(ctx)
		if _, err := movs.Append(ctx, &entity.Movement{ID: outID, ArticleID: 1, LocationID: 1, DeltaQuantity: dec(-2), RelatedMovementID: &inID}); err != nil {
			return err
		}
		_, err := movs.Append(ctx, &entity.Movement{ID: inID, ArticleID: 1, LocationID: 2, DeltaQuantity: dec(2), RelatedMovementID: &outID})
		return err
	})
	require.NoError(t, err)

	related, err := s.Movements().GetRelated(ctx, outID)
	require.NoError(t, err)
	require.NotNil(t, related)
	assert.Equal(t, inID, related.ID)

	missing, err := s.Movements().GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	n, err := s.Movements().CountSince(ctx, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStore_AppendRechazaClaveInvalida(t *testing.T) {
	s := NewStore()
	err := s.Run(context.Background(), func(ctx context.Context, _ repository.StockRepository, movs repository.MovementRepository) error {
		_, err := movs.Append(ctx, &entity.Movement{ArticleID: 0, LocationID: 1})
		return err
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLocationRepo_CRUD(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repo := s.Locations()

	a := &entity.Location{Name: "Depósito", Kind: entity.LocationKindWarehouse, Active: true}
	require.NoError(t, repo.Create(ctx, a))
	assert.Equal(t, int64(1), a.ID)

	b := &entity.Location{ID: 5, Name: "Local", Kind: entity.LocationKindSale}
	require.NoError(t, repo.Create(ctx, b))
	require.ErrorIs(t, repo.Create(ctx, &entity.Location{ID: 5, Name: "Otro"}), domain.ErrInvalidInput)

	c := &entity.Location{Name: "Local 2", Kind: entity.LocationKindSale}
	require.NoError(t, repo.Create(ctx, c))
	assert.Equal(t, int64(6), c.ID)

	b.Active = true
	require.NoError(t, repo.Update(ctx, b))
	got, err := repo.GetByID(ctx, 5)
	require.NoError(t, err)
	assert.True(t, got.Active)

	require.ErrorIs(t, repo.Update(ctx, &entity.Location{ID: 77}), domain.ErrNotFound)

	page, err := repo.List(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(5), page[0].ID)

	all, err := repo.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestStore_LecturasFueraDeTransaccionNoEscriben(t *testing.T) {
	s := NewStore()

	_, ok := s.Stocks().(repository.StockRepository)
	assert.False(t, ok)
	_, ok = s.Movements().(repository.MovementRepository)
	assert.False(t, ok)
}
