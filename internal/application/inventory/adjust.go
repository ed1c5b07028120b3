package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mudras/stock-ledger/internal/domain/entity"
	dominv "github.com/mudras/stock-ledger/internal/domain/inventory"
	"github.com/mudras/stock-ledger/internal/domain/repository"
)

// AdjustInput fija la cantidad final (absoluta) de un artículo en un punto ("Ingreso Rápido").
type AdjustInput struct {
	ArticleID   int64
	LocationID  int64
	NewQuantity decimal.Decimal
	Reason      string
	OperatorID  string
}

// AdjustmentOutcome resultado de un ajuste.
type AdjustmentOutcome struct {
	PreviousQuantity decimal.Decimal
	NewQuantity      decimal.Decimal
	Delta            decimal.Decimal
	MovementID       int64
}

// AdjustStockUseCase aplica un "set absoluto" sobre un registro y deja el delta en el historial.
type AdjustStockUseCase struct {
	engine
}

// NewAdjustStockUseCase construye el caso de uso. locker puede compartirse entre casos de uso.
func NewAdjustStockUseCase(txRunner TxRunner, registry LocationRegistry, locker *KeyLocker, opts Options) *AdjustStockUseCase {
	return &AdjustStockUseCase{engine: newEngine(txRunner, registry, locker, opts)}
}

// Adjust lee la cantidad actual bajo bloqueo, calcula delta = nueva - anterior y escribe el registro
// y el movimiento en la misma transacción. Los ajustes con delta cero también se registran:
// confirmar el stock actual es una acción administrativa explícita.
func (uc *AdjustStockUseCase) Adjust(ctx context.Context, in AdjustInput) (*AdjustmentOutcome, error) {
	if err := dominv.ValidateArticle(in.ArticleID); err != nil {
		return nil, uc.reject(OpAdjust, err)
	}
	if err := dominv.ValidateAbsoluteQuantity(in.NewQuantity); err != nil {
		return nil, uc.reject(OpAdjust, err)
	}
	if err := uc.checkLocation(ctx, in.LocationID); err != nil {
		return nil, uc.reject(OpAdjust, err)
	}

	reason := reasonOr(in.Reason, DefaultAdjustReason)
	key := entity.StockKey{ArticleID: in.ArticleID, LocationID: in.LocationID}
	var out AdjustmentOutcome

	err := uc.execute(ctx, OpAdjust, []entity.StockKey{key}, func(
		ctx context.Context,
		stockRepo repository.StockRepository,
		movRepo repository.MovementRepository,
	) error {
		rec, err := stockRepo.GetForUpdate(ctx, in.ArticleID, in.LocationID)
		if err != nil {
			return err
		}
		prev := rec.Quantity
		committed, err := stockRepo.Set(ctx, in.ArticleID, in.LocationID, in.NewQuantity, &prev)
		if err != nil {
			return err
		}
		delta := dominv.AbsoluteDelta(prev, committed)
		id, err := movRepo.Append(ctx, &entity.Movement{
			OperationID:       uuid.New().String(),
			Timestamp:         uc.opts.Now(),
			ArticleID:         in.ArticleID,
			LocationID:        in.LocationID,
			Kind:              entity.MovementKindAdjustment,
			DeltaQuantity:     delta,
			PreviousQuantity:  prev,
			ResultingQuantity: committed,
			Reason:            reason,
			CreatedBy:         in.OperatorID,
		})
		if err != nil {
			return err
		}
		out = AdjustmentOutcome{PreviousQuantity: prev, NewQuantity: committed, Delta: delta, MovementID: id}
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).
			Str("op", OpAdjust).
			Int64("article_id", in.ArticleID).
			Int64("location_id", in.LocationID).
			Msg("ajuste no aplicado")
		return nil, err
	}
	uc.log.Info().
		Str("op", OpAdjust).
		Int64("article_id", in.ArticleID).
		Int64("location_id", in.LocationID).
		Str("delta", out.Delta.String()).
		Int64("movement_id", out.MovementID).
		Msg("ajuste aplicado")
	return &out, nil
}
