package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/mudras/stock-ledger/internal/application/dto"
	"github.com/mudras/stock-ledger/internal/application/inventory"
	"github.com/mudras/stock-ledger/internal/application/usecase"
)

// openingRow una fila del CSV de stock inicial: punto;tipo;articulo;cantidad.
type openingRow struct {
	Line      int
	Location  string
	Kind      string
	ArticleID int64
	Quantity  decimal.Decimal
}

// readOpening parsea el CSV. Con latin1 la entrada se decodifica desde ISO-8859-1
// (exportaciones de planillas viejas). La primera fila es encabezado.
func readOpening(r io.Reader, sep rune, latin1 bool) ([]openingRow, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = sep
	cr.FieldsPerRecord = 4
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer csv: %w", err)
	}
	if len(records) < 2 {
		return nil, errors.New("csv sin filas de datos")
	}
	rows := make([]openingRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		line := i + 2
		articleID, err := strconv.ParseInt(strings.TrimSpace(rec[2]), 10, 64)
		if err != nil || articleID <= 0 {
			return nil, fmt.Errorf("línea %d: artículo inválido %q", line, rec[2])
		}
		qty, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(rec[3]), ",", "."))
		if err != nil || qty.IsNegative() {
			return nil, fmt.Errorf("línea %d: cantidad inválida %q", line, rec[3])
		}
		name := strings.TrimSpace(rec[0])
		if name == "" {
			return nil, fmt.Errorf("línea %d: punto vacío", line)
		}
		rows = append(rows, openingRow{
			Line:      line,
			Location:  name,
			Kind:      strings.ToLower(strings.TrimSpace(rec[1])),
			ArticleID: articleID,
			Quantity:  qty,
		})
	}
	return rows, nil
}

// seedResult resumen de una carga.
type seedResult struct {
	LocationsCreated int
	Adjustments      int
}

// applyOpening crea los puntos que falten (por nombre) y fija cada saldo con un ajuste,
// así todo saldo inicial queda respaldado por un movimiento.
func applyOpening(ctx context.Context, rows []openingRow, locations *usecase.LocationUseCase, adjust *inventory.AdjustStockUseCase, operatorID string) (seedResult, error) {
	var res seedResult
	existing, err := locations.List(ctx, 0, 0)
	if err != nil {
		return res, err
	}
	byName := make(map[string]int64, len(existing.Items))
	for _, l := range existing.Items {
		byName[strings.ToLower(l.Name)] = l.ID
	}

	for _, row := range rows {
		key := strings.ToLower(row.Location)
		id, ok := byName[key]
		if !ok {
			created, err := locations.Create(ctx, dto.CreateLocationRequest{Name: row.Location, Kind: row.Kind})
			if err != nil {
				return res, fmt.Errorf("línea %d: crear punto %q: %w", row.Line, row.Location, err)
			}
			id = created.ID
			byName[key] = id
			res.LocationsCreated++
		}
		_, err := adjust.Adjust(ctx, inventory.AdjustInput{
			ArticleID:   row.ArticleID,
			LocationID:  id,
			NewQuantity: row.Quantity,
			Reason:      "stock inicial",
			OperatorID:  operatorID,
		})
		if err != nil {
			return res, fmt.Errorf("línea %d: ajustar artículo %d: %w", row.Line, row.ArticleID, err)
		}
		res.Adjustments++
	}
	return res, nil
}
