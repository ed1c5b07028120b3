package entity

import "time"

// LocationKind distingue puntos de venta de depósitos.
type LocationKind string

// Tipos de punto Mudras.
const (
	LocationKindSale      LocationKind = "venta"
	LocationKindWarehouse LocationKind = "deposito"
)

// Valid indica si el tipo es conocido.
func (k LocationKind) Valid() bool {
	return k == LocationKindSale || k == LocationKindWarehouse
}

// Location representa un punto Mudras (punto de venta o depósito) donde se lleva stock.
// El libro de stock solo lo lee; su ciclo de vida lo administra el registro de puntos.
type Location struct {
	ID                  int64
	Name                string
	Kind                LocationKind
	Active              bool
	Description         string
	Address             string
	Phone               string
	Email               string
	AllowsOnlineSales   bool
	TracksPhysicalStock bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
