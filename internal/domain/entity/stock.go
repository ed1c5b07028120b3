package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockKey identifica un registro de stock (artículo, punto).
type StockKey struct {
	ArticleID  int64
	LocationID int64
}

// Less ordena por (LocationID, ArticleID); es el orden global de bloqueo.
func (k StockKey) Less(o StockKey) bool {
	if k.LocationID != o.LocationID {
		return k.LocationID < o.LocationID
	}
	return k.ArticleID < o.ArticleID
}

// StockRecord es la cantidad disponible de un artículo en un punto.
// La ausencia de registro equivale a cantidad cero.
type StockRecord struct {
	ArticleID  int64
	LocationID int64
	Quantity   decimal.Decimal // siempre >= 0
	Version    int64           // se incrementa en cada escritura
	UpdatedAt  time.Time
}

// Key devuelve la clave del registro.
func (s StockRecord) Key() StockKey {
	return StockKey{ArticleID: s.ArticleID, LocationID: s.LocationID}
}
