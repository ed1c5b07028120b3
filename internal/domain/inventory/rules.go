package inventory

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mudras/stock-ledger/internal/domain"
	"github.com/mudras/stock-ledger/internal/domain/entity"
)

// AbsoluteDelta calcula el delta con signo de un "set absoluto" (servicio de dominio).
// Delta = CantidadNueva - CantidadAnterior
func AbsoluteDelta(previous, next decimal.Decimal) decimal.Decimal {
	return next.Sub(previous)
}

// QuantityScale decimales admitidos en una cantidad; coincide con NUMERIC(18, 4).
const QuantityScale = 4

// MaxQuantity cota superior exclusiva de cualquier cantidad almacenada (18 dígitos, 4 decimales).
var MaxQuantity = decimal.New(1, 18-QuantityScale)

// ValidateScale rechaza cantidades que el almacenamiento redondearía o no podría guardar.
func ValidateScale(q decimal.Decimal) error {
	if !q.Equal(q.Truncate(QuantityScale)) || q.Abs().GreaterThanOrEqual(MaxQuantity) {
		return domain.ErrInvalidQuantity
	}
	return nil
}

// ValidateAbsoluteQuantity valida una cantidad final: cero permitido, negativa no.
func ValidateAbsoluteQuantity(q decimal.Decimal) error {
	if q.IsNegative() {
		return domain.ErrInvalidQuantity
	}
	return ValidateScale(q)
}

// ValidateTransferQuantity valida la cantidad a transferir: estrictamente positiva.
func ValidateTransferQuantity(q decimal.Decimal) error {
	if !q.IsPositive() {
		return domain.ErrInvalidQuantity
	}
	return ValidateScale(q)
}

// ValidateArticle valida el identificador opaco de artículo.
func ValidateArticle(articleID int64) error {
	if articleID <= 0 {
		return domain.ErrInvalidArticle
	}
	return nil
}

// CheckAvailable verifica que el origen cubra la cantidad pedida.
func CheckAvailable(origin *entity.StockRecord, requested decimal.Decimal) error {
	if origin.Quantity.LessThan(requested) {
		return &domain.InsufficientStockError{
			ArticleID:  origin.ArticleID,
			LocationID: origin.LocationID,
			Requested:  requested,
			Available:  origin.Quantity,
		}
	}
	return nil
}

// CheckLocation valida que el punto exista y esté activo.
func CheckLocation(loc *entity.Location) error {
	if loc == nil {
		return domain.ErrUnknownLocation
	}
	if !loc.Active {
		return domain.ErrInactiveLocation
	}
	return nil
}

// SortKeys ordena claves en el orden global de bloqueo (LocationID, ArticleID) sin duplicados.
func SortKeys(keys []entity.StockKey) []entity.StockKey {
	out := make([]entity.StockKey, 0, len(keys))
	seen := make(map[entity.StockKey]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	slices.SortFunc(out, func(a, b entity.StockKey) int {
		if c := cmp.Compare(a.LocationID, b.LocationID); c != 0 {
			return c
		}
		return cmp.Compare(a.ArticleID, b.ArticleID)
	})
	return out
}
