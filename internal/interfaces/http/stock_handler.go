package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/mudras/stock-ledger/internal/application/dto"
	"github.com/mudras/stock-ledger/internal/application/inventory"
	"github.com/mudras/stock-ledger/internal/domain/entity"
)

// StockHandler maneja ajustes, transferencias, asignaciones masivas y consultas de stock (protegido).
type StockHandler struct {
	adjust   *inventory.AdjustStockUseCase
	transfer *inventory.TransferStockUseCase
	bulk     *inventory.AssignBulkUseCase
	query    *inventory.StockQueryUseCase
	log      zerolog.Logger
}

// NewStockHandler construye el handler.
func NewStockHandler(
	adjust *inventory.AdjustStockUseCase,
	transfer *inventory.TransferStockUseCase,
	bulk *inventory.AssignBulkUseCase,
	query *inventory.StockQueryUseCase,
	log zerolog.Logger,
) *StockHandler {
	return &StockHandler{adjust: adjust, transfer: transfer, bulk: bulk, query: query, log: log}
}

// Adjust godoc
// @Summary      Ajustar stock (cantidad final absoluta)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.AdjustStockRequest  true  "article_id, location_id, new_quantity, reason"
// @Success      201   {object}  dto.AdjustStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/stock/adjustments [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.adjust.Adjust(c.UserContext(), inventory.AdjustInput{
		ArticleID:   in.ArticleID,
		LocationID:  in.LocationID,
		NewQuantity: in.NewQuantity,
		Reason:      in.Reason,
		OperatorID:  GetOperatorID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AdjustStockResponse{
		ArticleID:        in.ArticleID,
		LocationID:       in.LocationID,
		PreviousQuantity: out.PreviousQuantity,
		NewQuantity:      out.NewQuantity,
		Delta:            out.Delta,
		MovementID:       out.MovementID,
	})
}

// Transfer godoc
// @Summary      Transferir stock entre puntos
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.TransferStockRequest  true  "article_id, origin_id, destination_id, quantity, reason"
// @Success      201   {object}  dto.TransferStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK incluye available"
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/stock/transfers [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.transfer.Transfer(c.UserContext(), inventory.TransferInput{
		ArticleID:     in.ArticleID,
		OriginID:      in.OriginID,
		DestinationID: in.DestinationID,
		Quantity:      in.Quantity,
		Reason:        in.Reason,
		OperatorID:    GetOperatorID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransferStockResponse{
		OperationID:           out.OperationID,
		OriginRemaining:       out.OriginRemaining,
		DestinationNew:        out.DestinationNew,
		OriginMovementID:      out.OriginMovementID,
		DestinationMovementID: out.DestinationMovementID,
	})
}

// AssignBulk godoc
// @Summary      Asignación masiva de stock a un punto (todo o nada)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.BulkAssignRequest  true  "destination_id, lines[{article_id, quantity}], reason"
// @Success      201   {object}  dto.BulkAssignResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse  "líneas rechazadas en lines"
// @Router       /api/stock/bulk-assignments [post]
func (h *StockHandler) AssignBulk(c *fiber.Ctx) error {
	var in dto.BulkAssignRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	lines := make([]inventory.BulkLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, inventory.BulkLine{ArticleID: l.ArticleID, Quantity: l.Quantity})
	}
	out, err := h.bulk.AssignBulk(c.UserContext(), inventory.BulkInput{
		DestinationID: in.DestinationID,
		Lines:         lines,
		Reason:        in.Reason,
		OperatorID:    GetOperatorID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	resp := dto.BulkAssignResponse{
		OperationID:  out.OperationID,
		AppliedCount: out.AppliedCount,
		MovementIDs:  out.MovementIDs,
		Lines:        make([]dto.BulkAssignLineResponse, 0, len(out.Lines)),
	}
	for _, l := range out.Lines {
		resp.Lines = append(resp.Lines, dto.BulkAssignLineResponse{
			ArticleID: l.ArticleID, PreviousQuantity: l.Previous, NewQuantity: l.New, MovementID: l.MovementID,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetQuantity godoc
// @Summary      Cantidad actual de un artículo en un punto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        articleId   path  int  true  "ID del artículo"
// @Param        locationId  path  int  true  "ID del punto"
// @Success      200  {object}  dto.StockResponse
// @Router       /api/stock/{articleId}/locations/{locationId} [get]
func (h *StockHandler) GetQuantity(c *fiber.Ctx) error {
	articleID, locationID, ok := pairParams(c)
	if !ok {
		return badParam(c, "articleId/locationId")
	}
	rec, err := h.query.GetQuantity(c.UserContext(), articleID, locationID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toStockResponse(rec))
}

// ListMovements godoc
// @Summary      Historial de movimientos de un artículo en un punto (más antiguo primero)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        articleId   path  int  true  "ID del artículo"
// @Param        locationId  path  int  true  "ID del punto"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/stock/{articleId}/locations/{locationId}/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	articleID, locationID, ok := pairParams(c)
	if !ok {
		return badParam(c, "articleId/locationId")
	}
	list, err := h.query.ListMovements(c.UserContext(), articleID, locationID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementResponse(m))
	}
	return c.JSON(dto.MovementListResponse{Items: items, Total: len(items)})
}

// Reconcile godoc
// @Summary      Conciliar stock con la suma de deltas del historial
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        articleId   path  int  true  "ID del artículo"
// @Param        locationId  path  int  true  "ID del punto"
// @Success      200  {object}  dto.ReconciliationResponse
// @Router       /api/stock/{articleId}/locations/{locationId}/reconciliation [get]
func (h *StockHandler) Reconcile(c *fiber.Ctx) error {
	articleID, locationID, ok := pairParams(c)
	if !ok {
		return badParam(c, "articleId/locationId")
	}
	r, err := h.query.Reconcile(c.UserContext(), articleID, locationID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ReconciliationResponse{
		ArticleID:     r.ArticleID,
		LocationID:    r.LocationID,
		Quantity:      r.Quantity,
		SumOfDeltas:   r.SumOfDeltas,
		MovementCount: r.MovementCount,
		Consistent:    r.Consistent,
	})
}

// GetRelatedMovement godoc
// @Summary      Movimiento emparejado (transferencias)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/movements/{id}/related [get]
func (h *StockHandler) GetRelatedMovement(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badParam(c, "id")
	}
	m, err := h.query.GetRelatedMovement(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if m == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(toMovementResponse(m))
}

// StockByArticle godoc
// @Summary      Stock de un artículo en cada punto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        articleId  path  int  true  "ID del artículo"
// @Success      200  {object}  dto.StockListResponse
// @Router       /api/stock/articles/{articleId} [get]
func (h *StockHandler) StockByArticle(c *fiber.Ctx) error {
	articleID, err := strconv.ParseInt(c.Params("articleId"), 10, 64)
	if err != nil {
		return badParam(c, "articleId")
	}
	list, err := h.query.StockByArticle(c.UserContext(), articleID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toStockList(list))
}

func pairParams(c *fiber.Ctx) (articleID, locationID int64, ok bool) {
	a, err := strconv.ParseInt(c.Params("articleId"), 10, 64)
	if err != nil {
		return 0, 0, false
	}
	l, err := strconv.ParseInt(c.Params("locationId"), 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return a, l, true
}

func toStockResponse(r *entity.StockRecord) dto.StockResponse {
	out := dto.StockResponse{ArticleID: r.ArticleID, LocationID: r.LocationID, Quantity: r.Quantity}
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}

func toStockList(list []*entity.StockRecord) dto.StockListResponse {
	items := make([]dto.StockResponse, 0, len(list))
	for _, r := range list {
		items = append(items, toStockResponse(r))
	}
	return dto.StockListResponse{Items: items, Total: len(items)}
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:                m.ID,
		OperationID:       m.OperationID,
		Timestamp:         m.Timestamp,
		ArticleID:         m.ArticleID,
		LocationID:        m.LocationID,
		Kind:              string(m.Kind),
		DeltaQuantity:     m.DeltaQuantity,
		PreviousQuantity:  m.PreviousQuantity,
		ResultingQuantity: m.ResultingQuantity,
		Reason:            m.Reason,
		RelatedMovementID: m.RelatedMovementID,
		CreatedBy:         m.CreatedBy,
	}
}
