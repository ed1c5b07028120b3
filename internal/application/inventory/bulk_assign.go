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

// BulkLine cantidad final de un artículo en el punto destino.
type BulkLine struct {
	ArticleID int64
	Quantity  decimal.Decimal
}

// BulkInput lote de asignaciones absolutas para un único destino.
type BulkInput struct {
	DestinationID int64
	Lines         []BulkLine
	Reason        string
	OperatorID    string
}

// BulkLineResult estado anterior y nuevo de una línea aplicada.
type BulkLineResult struct {
	ArticleID  int64
	Previous   decimal.Decimal
	New        decimal.Decimal
	MovementID int64
}

// BulkOutcome resultado de una asignación masiva.
type BulkOutcome struct {
	AppliedCount int
	MovementIDs  []int64
	Lines        []BulkLineResult
	OperationID  string
}

// AssignBulkUseCase aplica un lote de "set absoluto" sobre un destino: todo o nada.
type AssignBulkUseCase struct {
	engine
}

// NewAssignBulkUseCase construye el caso de uso.
func NewAssignBulkUseCase(txRunner TxRunner, registry LocationRegistry, locker *KeyLocker, opts Options) *AssignBulkUseCase {
	return &AssignBulkUseCase{engine: newEngine(txRunner, registry, locker, opts)}
}

// AssignBulk valida el lote completo antes de escribir; si una línea es inválida no se aplica ninguna.
// Cantidad cero está permitida y deja el artículo sin stock en el destino.
func (uc *AssignBulkUseCase) AssignBulk(ctx context.Context, in BulkInput) (*BulkOutcome, error) {
	if err := validateBatch(in.Lines); err != nil {
		return nil, uc.reject(OpBulkAssign, err)
	}
	if err := uc.checkLocation(ctx, in.DestinationID); err != nil {
		return nil, uc.reject(OpBulkAssign, err)
	}

	reason := reasonOr(in.Reason, DefaultBulkReason)
	keys := make([]entity.StockKey, 0, len(in.Lines))
	for _, l := range in.Lines {
		keys = append(keys, entity.StockKey{ArticleID: l.ArticleID, LocationID: in.DestinationID})
	}
	var out BulkOutcome

	err := uc.execute(ctx, OpBulkAssign, keys, func(
		ctx context.Context,
		stockRepo repository.StockRepository,
		movRepo repository.MovementRepository,
	) error {
		records, err := lockRecords(ctx, stockRepo, keys)
		if err != nil {
			return err
		}
		opID := uuid.New().String()
		now := uc.opts.Now()
		result := BulkOutcome{
			OperationID: opID,
			MovementIDs: make([]int64, 0, len(in.Lines)),
			Lines:       make([]BulkLineResult, 0, len(in.Lines)),
		}
		for _, l := range in.Lines {
			prev := records[entity.StockKey{ArticleID: l.ArticleID, LocationID: in.DestinationID}].Quantity
			committed, err := stockRepo.Set(ctx, l.ArticleID, in.DestinationID, l.Quantity, &prev)
			if err != nil {
				return err
			}
			id, err := movRepo.Append(ctx, &entity.Movement{
				OperationID:       opID,
				Timestamp:         now,
				ArticleID:         l.ArticleID,
				LocationID:        in.DestinationID,
				Kind:              entity.MovementKindBulkAssign,
				DeltaQuantity:     dominv.AbsoluteDelta(prev, committed),
				PreviousQuantity:  prev,
				ResultingQuantity: committed,
				Reason:            reason,
				CreatedBy:         in.OperatorID,
			})
			if err != nil {
				return err
			}
			result.MovementIDs = append(result.MovementIDs, id)
			result.Lines = append(result.Lines, BulkLineResult{ArticleID: l.ArticleID, Previous: prev, New: committed, MovementID: id})
		}
		result.AppliedCount = len(result.Lines)
		out = result
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).
			Str("op", OpBulkAssign).
			Int64("destination_id", in.DestinationID).
			Int("lines", len(in.Lines)).
			Msg("asignación masiva no aplicada")
		return nil, err
	}
	uc.log.Info().
		Str("op", OpBulkAssign).
		Str("operation_id", out.OperationID).
		Int64("destination_id", in.DestinationID).
		Int("applied", out.AppliedCount).
		Msg("asignación masiva aplicada")
	return &out, nil
}

// validateBatch: lote vacío, artículos repetidos y líneas inválidas, en ese orden.
func validateBatch(lines []BulkLine) error {
	if len(lines) == 0 {
		return domain.ErrEmptyBatch
	}
	seen := make(map[int64]struct{}, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ArticleID]; ok {
			return domain.ErrDuplicateArticle
		}
		seen[l.ArticleID] = struct{}{}
	}
	var lineErrs []domain.LineError
	for i, l := range lines {
		if err := dominv.ValidateArticle(l.ArticleID); err != nil {
			lineErrs = append(lineErrs, domain.LineError{Index: i, ArticleID: l.ArticleID, Err: err})
			continue
		}
		if err := dominv.ValidateAbsoluteQuantity(l.Quantity); err != nil {
			lineErrs = append(lineErrs, domain.LineError{Index: i, ArticleID: l.ArticleID, Err: err})
		}
	}
	if len(lineErrs) > 0 {
		return &domain.BulkValidationError{Lines: lineErrs}
	}
	return nil
}
