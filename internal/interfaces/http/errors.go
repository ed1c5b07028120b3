package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/mudras/stock-ledger/internal/application/dto"
	"github.com/mudras/stock-ledger/internal/domain"
)

// writeError traduce los errores del libro a status HTTP y cuerpo dto.ErrorResponse.
// El orden importa: un error de lote coincide también con la causa de sus líneas.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	var insufficient *domain.InsufficientStockError
	var bulk *domain.BulkValidationError

	switch {
	case errors.As(err, &bulk):
		lines := make([]dto.LineErrorDTO, 0, len(bulk.Lines))
		for _, l := range bulk.Lines {
			lines = append(lines, dto.LineErrorDTO{Index: l.Index, ArticleID: l.ArticleID, Message: l.Err.Error()})
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code: "BULK_VALIDATION_FAILED", Message: domain.ErrBulkValidationFailed.Error(), Lines: lines,
		})
	case errors.As(err, &insufficient):
		available := insufficient.Available
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente", Available: &available,
		})
	}

	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		status, code = fiber.StatusBadRequest, "INVALID_QUANTITY"
	case errors.Is(err, domain.ErrInvalidArticle):
		status, code = fiber.StatusBadRequest, "INVALID_ARTICLE"
	case errors.Is(err, domain.ErrSameLocation):
		status, code = fiber.StatusBadRequest, "SAME_LOCATION"
	case errors.Is(err, domain.ErrDuplicateArticle):
		status, code = fiber.StatusBadRequest, "DUPLICATE_ARTICLE"
	case errors.Is(err, domain.ErrEmptyBatch):
		status, code = fiber.StatusBadRequest, "EMPTY_BATCH"
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrUnknownLocation):
		status, code = fiber.StatusNotFound, "UNKNOWN_LOCATION"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInactiveLocation):
		status, code = fiber.StatusConflict, "INACTIVE_LOCATION"
	case errors.Is(err, domain.ErrInsufficientStock):
		status, code = fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrConcurrentModification):
		status, code = fiber.StatusConflict, "CONCURRENT_MODIFICATION"
	case errors.Is(err, domain.ErrOperationTimeout):
		status, code = fiber.StatusServiceUnavailable, "OPERATION_TIMEOUT"
	case errors.Is(err, domain.ErrStorageUnavailable):
		status, code = fiber.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"
	case errors.Is(err, domain.ErrForbidden):
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		status, code = fiber.StatusConflict, "EMAIL_EXISTS"
	}

	msg := err.Error()
	if status >= fiber.StatusInternalServerError {
		// El detalle del almacenamiento queda en el log, no en la respuesta.
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error atendiendo petición")
		msg = rootMessage(err)
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func rootMessage(err error) string {
	for _, sentinel := range []error{domain.ErrOperationTimeout, domain.ErrStorageUnavailable} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "error interno"
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func badParam(c *fiber.Ctx, name string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAM", Message: "parámetro inválido: " + name})
}
