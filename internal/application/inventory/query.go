package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mudras/stock-ledger/internal/domain"
	"github.com/mudras/stock-ledger/internal/domain/entity"
	dominv "github.com/mudras/stock-ledger/internal/domain/inventory"
	"github.com/mudras/stock-ledger/internal/domain/repository"
)

// Reconciliation compara el registro de stock con la suma de deltas de su historial.
type Reconciliation struct {
	ArticleID     int64
	LocationID    int64
	Quantity      decimal.Decimal
	SumOfDeltas   decimal.Decimal
	MovementCount int
	Consistent    bool
}

// StockQueryUseCase consultas de solo lectura. Los valores son instantáneas para mostrar;
// las operaciones de escritura vuelven a validar todo al confirmar.
type StockQueryUseCase struct {
	txRunner  TxRunner
	locker    *KeyLocker
	stockRepo repository.StockReader
	movRepo   repository.MovementReader
	registry  LocationRegistry
}

// NewStockQueryUseCase construye el caso de uso con repositorios fuera de transacción.
// txRunner y locker se usan solo para conciliar con una lectura consistente.
func NewStockQueryUseCase(txRunner TxRunner, locker *KeyLocker, stockRepo repository.StockReader, movRepo repository.MovementReader, registry LocationRegistry) *StockQueryUseCase {
	if locker == nil {
		locker = NewKeyLocker(0)
	}
	return &StockQueryUseCase{txRunner: txRunner, locker: locker, stockRepo: stockRepo, movRepo: movRepo, registry: registry}
}

// GetQuantity devuelve la cantidad actual (cero si no hay registro).
func (uc *StockQueryUseCase) GetQuantity(ctx context.Context, articleID, locationID int64) (*entity.StockRecord, error) {
	rec, err := uc.stockRepo.Get(ctx, articleID, locationID)
	if err != nil {
		return nil, classify(err)
	}
	return rec, nil
}

// ListMovements devuelve el historial del par, del más antiguo al más reciente.
func (uc *StockQueryUseCase) ListMovements(ctx context.Context, articleID, locationID int64) ([]*entity.Movement, error) {
	list, err := uc.movRepo.ListForArticleLocation(ctx, articleID, locationID)
	if err != nil {
		return nil, classify(err)
	}
	return list, nil
}

// GetRelatedMovement devuelve el movimiento emparejado (transferencias). ErrNotFound si id no existe;
// nil sin error si el movimiento no tiene pareja.
func (uc *StockQueryUseCase) GetRelatedMovement(ctx context.Context, id int64) (*entity.Movement, error) {
	m, err := uc.movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, classify(err)
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	related, err := uc.movRepo.GetRelated(ctx, id)
	if err != nil {
		return nil, classify(err)
	}
	return related, nil
}

// Reconcile verifica que la suma de deltas del historial coincida con la cantidad actual.
// Toma la clave y lee dentro de una transacción para no observar una escritura a medias.
func (uc *StockQueryUseCase) Reconcile(ctx context.Context, articleID, locationID int64) (*Reconciliation, error) {
	unlock, err := uc.locker.Lock(ctx, []entity.StockKey{{ArticleID: articleID, LocationID: locationID}})
	if err != nil {
		return nil, classify(err)
	}
	defer unlock()

	var out Reconciliation
	err = uc.txRunner.Run(ctx, func(
		ctx context.Context,
		stockRepo repository.StockRepository,
		movRepo repository.MovementRepository,
	) error {
		rec, err := stockRepo.GetForUpdate(ctx, articleID, locationID)
		if err != nil {
			return err
		}
		movs, err := movRepo.ListForArticleLocation(ctx, articleID, locationID)
		if err != nil {
			return err
		}
		sum, err := movRepo.SumDeltas(ctx, articleID, locationID)
		if err != nil {
			return err
		}
		out = Reconciliation{
			ArticleID:     articleID,
			LocationID:    locationID,
			Quantity:      rec.Quantity,
			SumOfDeltas:   sum,
			MovementCount: len(movs),
			Consistent:    sum.Equal(rec.Quantity),
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return &out, nil
}

// StockByLocation lista el stock de un punto (ObtenerStockPuntoMudras).
func (uc *StockQueryUseCase) StockByLocation(ctx context.Context, locationID int64) ([]*entity.StockRecord, error) {
	loc, err := uc.registry.GetLocation(ctx, locationID)
	if err != nil {
		return nil, classify(err)
	}
	if loc == nil {
		return nil, domain.ErrUnknownLocation
	}
	list, err := uc.stockRepo.ListByLocation(ctx, locationID)
	if err != nil {
		return nil, classify(err)
	}
	return list, nil
}

// StockByArticle lista el stock de un artículo en cada punto (stockPorPunto).
func (uc *StockQueryUseCase) StockByArticle(ctx context.Context, articleID int64) ([]*entity.StockRecord, error) {
	if err := dominv.ValidateArticle(articleID); err != nil {
		return nil, err
	}
	list, err := uc.stockRepo.ListByArticle(ctx, articleID)
	if err != nil {
		return nil, classify(err)
	}
	return list, nil
}
