// Package pdf genera el reporte imprimible del inventario usando Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación │ Resumen              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Artículo | Cant. | Precio USD | Precio Bs   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Referencias / Unidades / Valor USD / Valor Bs      │
//	│  PIE: leyenda del servidor                                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"
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

	"github.com/jdrojas/repuestos-lan/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// StockReportGenerator implementa report.Generator usando Maroto v2.
type StockReportGenerator struct{}

// NewStockReportGenerator construye el generador.
func NewStockReportGenerator() *StockReportGenerator { return &StockReportGenerator{} }

// GenerateStockReport genera el PDF del inventario y devuelve sus bytes.
func (g *StockReportGenerator) GenerateStockReport(items []*entity.Item, generatedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de Inventario", true).
		WithAuthor("repuestos-lan", true).
		Build()

	m := maroto.New(cfg)

	// Header principal
	m.AddRows(headerRow(generatedAt, len(items)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	// Tabla de artículos
	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(items) {
		m.AddRows(r)
	}

	// Totales
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(items))

	// Pie
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y fecha de generación + referencias (der).
func headerRow(generatedAt time.Time, refs int) core.Row {
	fecha := generatedAt.Format("02/01/2006 15:04")

	return row.New(18).Add(
		col.New(7).Add(
			text.New("INVENTARIO DE REPUESTOS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Stock disponible y valorización", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("REPORTE DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Referencias: %d", refs), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Generado: "+fecha+" UTC", props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de artículos con fondo azul.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Código", 2, align.Left),
		h("Artículo", 4, align.Left),
		h("Cant.", 1, align.Center),
		h("Precio USD", 2, align.Right),
		h("Precio Bs", 3, align.Right),
	)
}

// tableDetailRows: una fila por artículo.
func tableDetailRows(items []*entity.Item) []core.Row {
	if len(items) == 0 {
		return []core.Row{row.New(8).Add(col.New(12).Add(
			text.New("Inventario vacío", props.Text{
				Size: 8, Align: align.Center, Color: colorGray, Top: 2,
			}),
		))}
	}
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				it.ID,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(4).Add(text.New(
				itemLabel(it),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", it.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				"$"+formatMoney(it.PriceUSD),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				"Bs "+formatMoney(it.PriceBs),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha. El valor total
// multiplica el precio de cada artículo por sus unidades en stock.
func totalsRow(items []*entity.Item) core.Row {
	var units int64
	var totalUSD, totalBs decimal.Decimal
	for _, it := range items {
		units += it.Quantity
		q := decimal.NewFromInt(it.Quantity)
		totalUSD = totalUSD.Add(it.PriceUSD.Mul(q))
		totalBs = totalBs.Add(it.PriceBs.Mul(q))
	}

	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(26).Add(
		col.New(3), // espacio izquierdo
		col.New(3).Add(
			label("Unidades en stock:"),
			label("Valor total USD:"),
			grandLabel("VALOR TOTAL Bs:"),
		),
		col.New(3).Add(
			value(fmt.Sprintf("%d", units)),
			value("$"+formatMoney(totalUSD)),
			grandValue("Bs "+formatMoney(totalBs)),
		),
		col.New(3), // espacio derecho
	)
}

// footerRow: leyenda del servidor.
func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			"Reporte generado por el servidor de inventario de la LAN. "+
				"Los precios corresponden a la última actualización de cada artículo.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// itemLabel arma la celda del artículo: nombre, y descripción entre paréntesis
// si existe.
func itemLabel(it *entity.Item) string {
	if it.Description == "" {
		return it.Name
	}
	return it.Name + " (" + it.Description + ")"
}

// formatMoney formatea un decimal con puntos de miles y coma decimal.
// Ej: 12345.67 → "12.345,67", 1000000 → "1.000.000,00"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, intPart[i])
	}
	out := string(buf) + "," + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
