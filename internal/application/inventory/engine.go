package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/mudras/stock-ledger/internal/domain"
	"github.com/mudras/stock-ledger/internal/domain/entity"
	dominv "github.com/mudras/stock-ledger/internal/domain/inventory"
	"github.com/mudras/stock-ledger/internal/domain/repository"
)

// Nombres de operación usados en logs y métricas.
const (
	OpAdjust     = "adjust"
	OpTransfer   = "transfer"
	OpBulkAssign = "bulk_assign"
)

// Motivos por defecto cuando el llamador no indica uno.
const (
	DefaultAdjustReason   = "Ajuste de stock"
	DefaultTransferReason = "Transferencia desde panel global"
	DefaultBulkReason     = "Asignación masiva de stock"
)

// Options configura la política de concurrencia compartida por los casos de uso.
type Options struct {
	LockTimeout   time.Duration
	RetryAttempts uint64 // intentos totales ante ErrConcurrentModification (>= 1)
	RetryBase     time.Duration
	RetryMax      time.Duration
	Logger        zerolog.Logger
	Metrics       Metrics
	Now           func() time.Time
}

func (o Options) withDefaults() Options {
	if o.RetryAttempts == 0 {
		o.RetryAttempts = 3
	}
	if o.RetryBase <= 0 {
		o.RetryBase = 10 * time.Millisecond
	}
	if o.RetryMax <= 0 {
		o.RetryMax = 200 * time.Millisecond
	}
	if o.Now == nil {
		o.Now = func() time.Time { return time.Now().UTC() }
	}
	return o
}

// engine agrupa lo que comparten Adjust, Transfer y AssignBulk: validación de puntos,
// bloqueo por clave, transacción y reintentos acotados. Ningún caso de uso llama a otro.
type engine struct {
	txRunner TxRunner
	registry LocationRegistry
	locker   *KeyLocker
	opts     Options
	log      zerolog.Logger
}

func newEngine(txRunner TxRunner, registry LocationRegistry, locker *KeyLocker, opts Options) engine {
	opts = opts.withDefaults()
	if locker == nil {
		locker = NewKeyLocker(opts.LockTimeout)
	}
	return engine{
		txRunner: txRunner,
		registry: registry,
		locker:   locker,
		opts:     opts,
		log:      opts.Logger,
	}
}

type txFunc func(ctx context.Context, stockRepo repository.StockRepository, movRepo repository.MovementRepository) error

// execute toma las claves en orden global, corre fn en una transacción y reintenta con
// backoff exponencial mientras el almacenamiento reporte modificación concurrente.
func (e *engine) execute(ctx context.Context, op string, keys []entity.StockKey, fn txFunc) error {
	start := time.Now()
	backoff := retry.WithMaxRetries(e.opts.RetryAttempts-1,
		retry.WithCappedDuration(e.opts.RetryMax, retry.NewExponential(e.opts.RetryBase)))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		lockStart := time.Now()
		unlock, err := e.locker.Lock(ctx, keys)
		if err != nil {
			return err
		}
		defer unlock()
		if e.opts.Metrics != nil {
			e.opts.Metrics.ObserveLockWait(time.Since(lockStart))
		}
		// El punto pudo desactivarse mientras se esperaba el bloqueo.
		if err := e.recheckLocations(ctx, keys); err != nil {
			return err
		}
		err = e.txRunner.Run(ctx, fn)
		if errors.Is(err, domain.ErrConcurrentModification) {
			e.log.Debug().Str("op", op).Msg("conflicto de concurrencia, reintentando")
			return retry.RetryableError(err)
		}
		return err
	})
	err = classify(err)
	if e.opts.Metrics != nil {
		e.opts.Metrics.ObserveOperation(op, outcome(err), time.Since(start))
	}
	return err
}

// reject registra una operación rechazada antes de tocar el almacenamiento.
func (e *engine) reject(op string, err error) error {
	if e.opts.Metrics != nil {
		e.opts.Metrics.ObserveOperation(op, outcome(err), 0)
	}
	e.log.Info().Str("op", op).Err(err).Msg("operación rechazada")
	return err
}

// checkLocation valida existencia y estado de un punto antes de cualquier escritura.
func (e *engine) checkLocation(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ErrUnknownLocation
	}
	loc, err := e.registry.GetLocation(ctx, id)
	if err != nil {
		return classify(err)
	}
	return dominv.CheckLocation(loc)
}

// recheckLocations vuelve a validar cada punto de las claves ya bloqueadas.
func (e *engine) recheckLocations(ctx context.Context, keys []entity.StockKey) error {
	var last int64
	for _, k := range dominv.SortKeys(keys) {
		if k.LocationID == last {
			continue
		}
		last = k.LocationID
		if err := e.checkLocation(ctx, k.LocationID); err != nil {
			return err
		}
	}
	return nil
}

// lockRecords lee con bloqueo todos los registros en el orden global de claves.
func lockRecords(ctx context.Context, stockRepo repository.StockRepository, keys []entity.StockKey) (map[entity.StockKey]*entity.StockRecord, error) {
	out := make(map[entity.StockKey]*entity.StockRecord, len(keys))
	for _, k := range dominv.SortKeys(keys) {
		rec, err := stockRepo.GetForUpdate(ctx, k.ArticleID, k.LocationID)
		if err != nil {
			return nil, err
		}
		out[k] = rec
	}
	return out, nil
}

// classify lleva cualquier error ajeno a la taxonomía del libro a ErrStorageUnavailable.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", domain.ErrOperationTimeout, err)
	case errors.Is(err, context.Canceled):
		return err
	case domain.IsLedgerError(err):
		return err
	default:
		return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrConcurrentModification):
		return "conflict"
	case errors.Is(err, domain.ErrOperationTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrStorageUnavailable):
		return "storage_error"
	default:
		return "rejected"
	}
}

func reasonOr(reason, def string) string {
	if reason == "" {
		return def
	}
	return reason
}
