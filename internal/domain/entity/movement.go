package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind clasifica un movimiento de stock.
type MovementKind string

// Tipos de movimiento.
const (
	MovementKindAdjustment  MovementKind = "ADJUSTMENT"   // ingreso rápido / ajuste absoluto
	MovementKindTransferOut MovementKind = "TRANSFER_OUT" // salida por transferencia
	MovementKindTransferIn  MovementKind = "TRANSFER_IN"  // entrada por transferencia
	MovementKindBulkAssign  MovementKind = "BULK_ASSIGN"  // asignación masiva
)

// Movement es una entrada inmutable del historial: un cambio de cantidad con signo.
// Una transferencia son dos movimientos que se referencian mutuamente vía RelatedMovementID.
type Movement struct {
	ID                int64
	OperationID       string // agrupa los movimientos escritos en la misma unidad atómica
	Timestamp         time.Time
	ArticleID         int64
	LocationID        int64
	Kind              MovementKind
	DeltaQuantity     decimal.Decimal
	PreviousQuantity  decimal.Decimal
	ResultingQuantity decimal.Decimal
	Reason            string
	RelatedMovementID *int64
	CreatedBy         string
}
