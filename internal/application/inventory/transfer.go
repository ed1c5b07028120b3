package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mudras/stock-ledger/internal/domain"
	"github.com/mudras/stock-ledger/internal/domain/entity"
	dominv "github.com/mudras/stock-ledger/internal/domain/inventory"
	"github.com/mudras/stock-ledger/internal/domain/repository"
)

// TransferInput mueve una cantidad de un artículo entre dos puntos.
type TransferInput struct {
	ArticleID     int64
	OriginID      int64
	DestinationID int64
	Quantity      decimal.Decimal
	Reason        string
	OperatorID    string
}

// TransferOutcome resultado de una transferencia.
type TransferOutcome struct {
	OriginRemaining       decimal.Decimal
	DestinationNew        decimal.Decimal
	OriginMovementID      int64
	DestinationMovementID int64
	OperationID           string
}

// TransferStockUseCase traslada stock entre puntos como una única unidad atómica
// compuesta por dos movimientos enlazados (TRANSFER_OUT / TRANSFER_IN).
type TransferStockUseCase struct {
	engine
}

// NewTransferStockUseCase construye el caso de uso.
func NewTransferStockUseCase(txRunner TxRunner, registry LocationRegistry, locker *KeyLocker, opts Options) *TransferStockUseCase {
	return &TransferStockUseCase{engine: newEngine(txRunner, registry, locker, opts)}
}

// Transfer resta en origen, suma en destino y registra los dos movimientos, cada uno con el ID
// del otro en RelatedMovementID. El saldo del origen se vuelve a validar bajo bloqueo al confirmar.
func (uc *TransferStockUseCase) Transfer(ctx context.Context, in TransferInput) (*TransferOutcome, error) {
	if err := dominv.ValidateArticle(in.ArticleID); err != nil {
		return nil, uc.reject(OpTransfer, err)
	}
	if err := dominv.ValidateTransferQuantity(in.Quantity); err != nil {
		return nil, uc.reject(OpTransfer, err)
	}
	if in.OriginID == in.DestinationID {
		return nil, uc.reject(OpTransfer, domain.ErrSameLocation)
	}
	if err := uc.checkLocation(ctx, in.OriginID); err != nil {
		return nil, uc.reject(OpTransfer, err)
	}
	if err := uc.checkLocation(ctx, in.DestinationID); err != nil {
		return nil, uc.reject(OpTransfer, err)
	}

	reason := reasonOr(in.Reason, DefaultTransferReason)
	originKey := entity.StockKey{ArticleID: in.ArticleID, LocationID: in.OriginID}
	destKey := entity.StockKey{ArticleID: in.ArticleID, LocationID: in.DestinationID}
	keys := []entity.StockKey{originKey, destKey}
	var out TransferOutcome

	err := uc.execute(ctx, OpTransfer, keys, func(
		ctx context.Context,
		stockRepo repository.StockRepository,
		movRepo repository.MovementRepository,
	) error {
		records, err := lockRecords(ctx, stockRepo, keys)
		if err != nil {
			return err
		}
		origin, dest := records[originKey], records[destKey]
		if err := dominv.CheckAvailable(origin, in.Quantity); err != nil {
			return err
		}

		originPrev, destPrev := origin.Quantity, dest.Quantity
		if err := dominv.ValidateScale(destPrev.Add(in.Quantity)); err != nil {
			return err
		}
		originNew, err := stockRepo.Set(ctx, in.ArticleID, in.OriginID, originPrev.Sub(in.Quantity), &originPrev)
		if err != nil {
			return err
		}
		destNew, err := stockRepo.Set(ctx, in.ArticleID, in.DestinationID, destPrev.Add(in.Quantity), &destPrev)
		if err != nil {
			return err
		}

		// Los IDs se reservan antes de insertar para que ambos movimientos se referencien
		// sin actualizar filas ya escritas.
		outID, err := movRepo.NextID(ctx)
		if err != nil {
			return err
		}
		inID, err := movRepo.NextID(ctx)
		if err != nil {
			return err
		}
		opID := uuid.New().String()
		now := uc.opts.Now()

		if _, err := movRepo.Append(ctx, &entity.Movement{
			ID:                outID,
			OperationID:       opID,
			Timestamp:         now,
			ArticleID:         in.ArticleID,
			LocationID:        in.OriginID,
			Kind:              entity.MovementKindTransferOut,
			DeltaQuantity:     in.Quantity.Neg(),
			PreviousQuantity:  originPrev,
			ResultingQuantity: originNew,
			Reason:            reason,
			RelatedMovementID: &inID,
			CreatedBy:         in.OperatorID,
		}); err != nil {
			return err
		}
		if _, err := movRepo.Append(ctx, &entity.Movement{
			ID:                inID,
			OperationID:       opID,
			Timestamp:         now,
			ArticleID:         in.ArticleID,
			LocationID:        in.DestinationID,
			Kind:              entity.MovementKindTransferIn,
			DeltaQuantity:     in.Quantity,
			PreviousQuantity:  destPrev,
			ResultingQuantity: destNew,
			Reason:            reason,
			RelatedMovementID: &outID,
			CreatedBy:         in.OperatorID,
		}); err != nil {
			return err
		}

		out = TransferOutcome{
			OriginRemaining:       originNew,
			DestinationNew:        destNew,
			OriginMovementID:      outID,
			DestinationMovementID: inID,
			OperationID:           opID,
		}
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).
			Str("op", OpTransfer).
			Int64("article_id", in.ArticleID).
			Int64("origin_id", in.OriginID).
			Int64("destination_id", in.DestinationID).
			Str("quantity", in.Quantity.String()).
			Msg("transferencia no aplicada")
		return nil, err
	}
	uc.log.Info().
		Str("op", OpTransfer).
		Str("operation_id", out.OperationID).
		Int64("article_id", in.ArticleID).
		Int64("origin_id", in.OriginID).
		Int64("destination_id", in.DestinationID).
		Str("quantity", in.Quantity.String()).
		Msg("transferencia aplicada")
	return &out, nil
}
