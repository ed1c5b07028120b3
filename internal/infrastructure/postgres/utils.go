package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mudras/stock-ledger/internal/domain"
)

// Códigos SQLSTATE que el libro traduce a errores de dominio.
const (
	codeNumericOverflow      = "22003"
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeQueryCanceled        = "57014"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}

// mapError envuelve err con op y, si corresponde, con el error de dominio equivalente.
// Los errores sin traducción quedan envueltos tal cual; la capa de aplicación los
// presenta como ErrStorageUnavailable.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrOperationTimeout, err)
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	switch pgErr.Code {
	case codeLockNotAvailable, codeQueryCanceled:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrOperationTimeout, err)
	case codeSerializationFailure, codeDeadlockDetected:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrConcurrentModification, err)
	case codeCheckViolation, codeNumericOverflow:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrInvalidQuantity, err)
	case codeForeignKeyViolation:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrUnknownLocation, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
