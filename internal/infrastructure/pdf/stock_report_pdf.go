// Package pdf genera la representación PDF de los reportes de stock por categoría.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título de la categoría  │  umbral + fecha          │
//	│  FILTROS: texto / proveedor                                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Proveedor | Cant. | Valor unit. | Total   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: lotes / unidades / valor                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

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

	"github.com/jhoicas/stockledger-api/internal/application/inventory"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/stock"
)

var _ inventory.ReportPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

var categoryTitles = map[stock.Category]string{
	stock.CategoryOutOfStock: "Stock agotado",
	stock.CategoryCritical:   "Stock crítico",
	stock.CategoryLow:        "Stock bajo",
	stock.CategoryAdequate:   "Stock adecuado",
}

// MarotoPDFGenerator implementa inventory.ReportPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateStockReportPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateStockReportPDF(_ context.Context, r inventory.StockReport) ([]byte, error) {
	title := categoryTitles[r.Category]
	if title == "" {
		title = "Reporte de stock"
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(title, r))
	m.AddRows(filterRow(r.Filter))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	if len(r.Lots) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin lotes en esta categoría", props.Text{Size: 9, Align: align.Center, Color: colorGray, Top: 3}),
		)))
	}
	for _, lr := range tableDetailRows(r.Lots) {
		m.AddRows(lr)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(r))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, r inventory.StockReport) core.Row {
	thresholdLabel := "Umbral: " + strconv.FormatInt(r.Threshold, 10)
	if r.Category == stock.CategoryOutOfStock {
		thresholdLabel = "Cantidad = 0"
	}
	return row.New(16).Add(
		col.New(7).Add(
			text.New(strings.ToUpper(title), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New(thresholdLabel, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1,
			}),
			text.New("Generado: "+r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 7, Color: colorGray,
			}),
		),
	)
}

func filterRow(f inventory.ReportFilter) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Búsqueda: %s   |   Proveedor: %s",
			nonEmpty(f.Query, "-"), nonEmpty(f.SupplierID, "todos"),
		), props.Text{Size: 8, Color: colorGray, Top: 1}),
	))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 4, align.Left),
		h("Proveedor", 3, align.Left),
		h("Cant.", 1, align.Center),
		h("Valor unit.", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

func tableDetailRows(lots []*entity.StockLot) []core.Row {
	result := make([]core.Row, 0, len(lots))
	for _, l := range lots {
		qtyColor := colorGray
		if l.Quantity == 0 {
			qtyColor = colorAlert
		}
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(l.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(l.SupplierName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(strconv.FormatInt(l.Quantity, 10), props.Text{
				Size: 8, Align: align.Center, Top: 1, Color: qtyColor,
			})),
			col.New(2).Add(text.New("$"+formatMoney(l.UnitValue), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New("$"+formatMoney(l.TotalValue()), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalsRow(r inventory.StockReport) core.Row {
	var units int64
	value := decimal.Zero
	for _, l := range r.Lots {
		units += l.Quantity
		value = value.Add(l.TotalValue())
	}
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	val := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(18).Add(
		col.New(6),
		col.New(3).Add(
			label("Lotes:"),
			text.New("Unidades:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 5}),
			text.New("Valor total:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 2, Top: 10, Color: colorPrimary}),
		),
		col.New(3).Add(
			val(strconv.FormatInt(r.Total, 10), 0),
			val(strconv.FormatInt(units, 10), 5),
			text.New("$"+formatMoney(value), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 1, Top: 10, Color: colorPrimary}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formatea con puntos de miles y coma decimal. Ej: 1234567.5 → "1.234.567,50".
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf) + "," + frac
}
