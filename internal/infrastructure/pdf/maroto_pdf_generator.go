// Package pdf genera el reporte imprimible del stock de un punto Mudras.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del punto + tipo  │  Fecha de emisión        │
//	│  DATOS: Dirección / Tel / Email                              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Artículo | Cantidad | Última actualización           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: artículos con stock / unidades                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/mudras/stock-ledger/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator genera reportes de stock usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateLocationStockPDF genera el reporte de stock del punto y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateLocationStockPDF(
	_ context.Context,
	location *entity.Location,
	records []*entity.StockRecord,
	generatedAt time.Time,
) ([]byte, error) {
	if location == nil {
		return nil, fmt.Errorf("pdf: punto requerido")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Stock de "+location.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(location, generatedAt))
	m.AddRows(contactRow(location))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(records)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(records))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(location *entity.Location, generatedAt time.Time) core.Row {
	kind := "Punto de venta"
	if location.Kind == entity.LocationKindWarehouse {
		kind = "Depósito"
	}
	if !location.Active {
		kind += " (inactivo)"
	}
	return row.New(16).Add(
		col.New(8).Add(
			text.New(location.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(kind, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("REPORTE DE STOCK", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Emitido: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func contactRow(location *entity.Location) core.Row {
	return row.New(8).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Dirección: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(location.Address, "—"),
				nonEmpty(location.Phone, "—"),
				nonEmpty(location.Email, "—"),
			), props.Text{Size: 8, Top: 2, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("Artículo", 4, align.Left),
		h("Cantidad", 4, align.Right),
		h("Actualizado", 4, align.Right),
	)
}

func tableRows(records []*entity.StockRecord) []core.Row {
	out := make([]core.Row, 0, len(records))
	for _, r := range records {
		updated := "—"
		if !r.UpdatedAt.IsZero() {
			updated = r.UpdatedAt.Format("02/01/2006 15:04")
		}
		out = append(out, row.New(6).Add(
			col.New(4).Add(text.New(strconv.FormatInt(r.ArticleID, 10), props.Text{Size: 8, Top: 1})),
			col.New(4).Add(text.New(r.Quantity.String(), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(4).Add(text.New(updated, props.Text{Size: 8, Align: align.Right, Top: 1, Color: colorGray})),
		))
	}
	return out
}

func totalsRow(records []*entity.StockRecord) core.Row {
	withStock := 0
	units := decimal.Zero
	for _, r := range records {
		if r.Quantity.IsPositive() {
			withStock++
		}
		units = units.Add(r.Quantity)
	}
	return row.New(10).Add(
		col.New(6).Add(text.New(fmt.Sprintf("Artículos con stock: %d", withStock), props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 3,
		})),
		col.New(6).Add(text.New("Unidades totales: "+units.String(), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 3,
		})),
	)
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
