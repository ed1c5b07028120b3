package http

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/mudras/stock-ledger/internal/application/dto"
	"github.com/mudras/stock-ledger/internal/application/inventory"
	"github.com/mudras/stock-ledger/internal/application/usecase"
	"github.com/mudras/stock-ledger/internal/domain/entity"
)

// StockReportGenerator genera el PDF del stock de un punto.
type StockReportGenerator interface {
	GenerateLocationStockPDF(ctx context.Context, location *entity.Location, records []*entity.StockRecord, generatedAt time.Time) ([]byte, error)
}

// LocationHandler maneja las peticiones HTTP de puntos Mudras (protegido).
type LocationHandler struct {
	uc     *usecase.LocationUseCase
	query  *inventory.StockQueryUseCase
	report StockReportGenerator
	log    zerolog.Logger
}

// NewLocationHandler construye el handler. report puede ser nil (sin PDF).
func NewLocationHandler(uc *usecase.LocationUseCase, query *inventory.StockQueryUseCase, report StockReportGenerator, log zerolog.Logger) *LocationHandler {
	return &LocationHandler{uc: uc, query: query, report: report, log: log}
}

// Create godoc
// @Summary      Crear punto Mudras
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLocationRequest  true  "Datos del punto (kind: venta | deposito)"
// @Success      201   {object}  dto.LocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/locations [post]
func (h *LocationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name es requerido"})
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener punto por ID
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del punto"
// @Success      200  {object}  dto.LocationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [get]
func (h *LocationHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badParam(c, "id")
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "punto no encontrado"})
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar punto
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                        true  "ID del punto"
// @Param        body  body  dto.UpdateLocationRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.LocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [put]
func (h *LocationHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badParam(c, "id")
	}
	var in dto.UpdateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "punto no encontrado"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar puntos
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.LocationListResponse
// @Router       /api/locations [get]
func (h *LocationHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	if page.Limit > 100 {
		page.Limit = 100
	}
	out, err := h.uc.List(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Estadísticas de puntos y stock
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.LocationStatsResponse
// @Router       /api/locations/stats [get]
func (h *LocationHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Stock godoc
// @Summary      Stock de un punto
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del punto"
// @Success      200  {object}  dto.StockListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locations/{id}/stock [get]
func (h *LocationHandler) Stock(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badParam(c, "id")
	}
	list, err := h.query.StockByLocation(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toStockList(list))
}

// StockPDF godoc
// @Summary      Reporte PDF del stock de un punto
// @Tags         locations
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "ID del punto"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locations/{id}/stock.pdf [get]
func (h *LocationHandler) StockPDF(c *fiber.Ctx) error {
	if h.report == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "NOT_IMPLEMENTED", Message: "reporte PDF no disponible"})
	}
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badParam(c, "id")
	}
	list, err := h.query.StockByLocation(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	loc, err := h.uc.GetLocation(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if loc == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "punto no encontrado"})
	}
	doc, err := h.report.GenerateLocationStockPDF(c.UserContext(), loc, list, time.Now())
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="stock-punto-%d.pdf"`, id))
	return c.Send(doc)
}
