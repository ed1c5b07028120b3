package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body para POST /api/stock/adjustments. new_quantity es la cantidad final.
type AdjustStockRequest struct {
	ArticleID   int64           `json:"article_id"`
	LocationID  int64           `json:"location_id"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
	Reason      string          `json:"reason,omitempty"`
}

// AdjustStockResponse resultado de un ajuste.
type AdjustStockResponse struct {
	ArticleID        int64           `json:"article_id"`
	LocationID       int64           `json:"location_id"`
	PreviousQuantity decimal.Decimal `json:"previous_quantity"`
	NewQuantity      decimal.Decimal `json:"new_quantity"`
	Delta            decimal.Decimal `json:"delta"`
	MovementID       int64           `json:"movement_id"`
}

// TransferStockRequest body para POST /api/stock/transfers.
type TransferStockRequest struct {
	ArticleID     int64           `json:"article_id"`
	OriginID      int64           `json:"origin_id"`
	DestinationID int64           `json:"destination_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	Reason        string          `json:"reason,omitempty"`
}

// TransferStockResponse resultado de una transferencia.
type TransferStockResponse struct {
	OperationID           string          `json:"operation_id"`
	OriginRemaining       decimal.Decimal `json:"origin_remaining"`
	DestinationNew        decimal.Decimal `json:"destination_new"`
	OriginMovementID      int64           `json:"origin_movement_id"`
	DestinationMovementID int64           `json:"destination_movement_id"`
}

// BulkAssignLine cantidad final de un artículo en el destino.
type BulkAssignLine struct {
	ArticleID int64           `json:"article_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// BulkAssignRequest body para POST /api/stock/bulk-assignments.
type BulkAssignRequest struct {
	DestinationID int64            `json:"destination_id"`
	Lines         []BulkAssignLine `json:"lines"`
	Reason        string           `json:"reason,omitempty"`
}

// BulkAssignLineResponse estado anterior y nuevo de una línea aplicada.
type BulkAssignLineResponse struct {
	ArticleID        int64           `json:"article_id"`
	PreviousQuantity decimal.Decimal `json:"previous_quantity"`
	NewQuantity      decimal.Decimal `json:"new_quantity"`
	MovementID       int64           `json:"movement_id"`
}

// BulkAssignResponse resultado de una asignación masiva.
type BulkAssignResponse struct {
	OperationID  string                   `json:"operation_id"`
	AppliedCount int                      `json:"applied_count"`
	MovementIDs  []int64                  `json:"movement_ids"`
	Lines        []BulkAssignLineResponse `json:"lines"`
}

// StockResponse cantidad de un artículo en un punto. updated_at se omite si nunca hubo registro.
type StockResponse struct {
	ArticleID  int64           `json:"article_id"`
	LocationID int64           `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UpdatedAt  *time.Time      `json:"updated_at,omitempty"`
}

// StockListResponse listado de registros de stock.
type StockListResponse struct {
	Items []StockResponse `json:"items"`
	Total int             `json:"total"`
}

// MovementResponse entrada del historial.
type MovementResponse struct {
	ID                int64           `json:"id"`
	OperationID       string          `json:"operation_id"`
	Timestamp         time.Time       `json:"timestamp"`
	ArticleID         int64           `json:"article_id"`
	LocationID        int64           `json:"location_id"`
	Kind              string          `json:"kind"`
	DeltaQuantity     decimal.Decimal `json:"delta_quantity"`
	PreviousQuantity  decimal.Decimal `json:"previous_quantity"`
	ResultingQuantity decimal.Decimal `json:"resulting_quantity"`
	Reason            string          `json:"reason"`
	RelatedMovementID *int64          `json:"related_movement_id,omitempty"`
	CreatedBy         string          `json:"created_by,omitempty"`
}

// MovementListResponse historial de un par (artículo, punto), del más antiguo al más reciente.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Total int                `json:"total"`
}

// ReconciliationResponse resultado de conciliar un registro con su historial.
type ReconciliationResponse struct {
	ArticleID     int64           `json:"article_id"`
	LocationID    int64           `json:"location_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	SumOfDeltas   decimal.Decimal `json:"sum_of_deltas"`
	MovementCount int             `json:"movement_count"`
	Consistent    bool            `json:"consistent"`
}
