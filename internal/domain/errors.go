package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio del libro de stock (sin dependencias de infraestructura).
// Todos son recuperables por el llamador y nunca dejan estado parcial.
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrInvalidQuantity        = errors.New("cantidad inválida")
	ErrInvalidArticle         = errors.New("artículo inválido")
	ErrUnknownLocation        = errors.New("punto desconocido")
	ErrInactiveLocation       = errors.New("punto inactivo")
	ErrSameLocation           = errors.New("el punto de origen y destino no pueden ser el mismo")
	ErrInsufficientStock      = errors.New("no hay suficiente stock")
	ErrDuplicateArticle       = errors.New("artículo repetido en el lote")
	ErrEmptyBatch             = errors.New("el lote no tiene líneas")
	ErrBulkValidationFailed   = errors.New("el lote tiene líneas inválidas")
	ErrConcurrentModification = errors.New("el stock fue modificado concurrentemente")
	ErrOperationTimeout       = errors.New("tiempo de espera agotado")
	ErrStorageUnavailable     = errors.New("almacenamiento no disponible")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrForbidden              = errors.New("acceso denegado")
	ErrEmailAlreadyExists     = errors.New("el email ya está registrado")
)

// InsufficientStockError informa la cantidad realmente disponible en el origen al momento del commit.
type InsufficientStockError struct {
	ArticleID  int64
	LocationID int64
	Requested  decimal.Decimal
	Available  decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("no hay suficiente stock: artículo %d en punto %d, solicitado %s, disponible %s",
		e.ArticleID, e.LocationID, e.Requested.String(), e.Available.String())
}

// Unwrap permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// LineError es el motivo de rechazo de una línea de un lote.
type LineError struct {
	Index     int
	ArticleID int64
	Err       error
}

func (e LineError) Error() string {
	return fmt.Sprintf("línea %d (artículo %d): %v", e.Index, e.ArticleID, e.Err)
}

// BulkValidationError agrupa las líneas rechazadas de una asignación masiva.
// Coincide con ErrBulkValidationFailed y con la causa de cada línea (p. ej. ErrInvalidQuantity).
type BulkValidationError struct {
	Lines []LineError
}

func (e *BulkValidationError) Error() string {
	parts := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		parts = append(parts, l.Error())
	}
	return ErrBulkValidationFailed.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap expone el sentinel del lote y las causas de cada línea.
func (e *BulkValidationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Lines)+1)
	errs = append(errs, ErrBulkValidationFailed)
	for _, l := range e.Lines {
		errs = append(errs, l.Err)
	}
	return errs
}

// IsLedgerError indica si err pertenece a la taxonomía del libro de stock.
// Cualquier otro error de almacenamiento se presenta como ErrStorageUnavailable.
func IsLedgerError(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrInvalidInput, ErrInvalidQuantity, ErrInvalidArticle,
		ErrUnknownLocation, ErrInactiveLocation, ErrSameLocation, ErrInsufficientStock,
		ErrDuplicateArticle, ErrEmptyBatch, ErrBulkValidationFailed,
		ErrConcurrentModification, ErrOperationTimeout, ErrStorageUnavailable,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
