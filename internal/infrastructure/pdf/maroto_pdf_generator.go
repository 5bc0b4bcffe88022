// Package pdf imprime la remisión de entrega.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la empresa │ N° Remisión + Estado + Fecha │
//	│  CLIENTE: Nombre + Factura + Dirección de entrega            │
//	│  TRANSPORTE: Conductor / Placa / Despacho                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Producto | Und | Pedido | Entregado | Pend.  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Total factura / Pagado / Estado de pago            │
//	│  FIRMAS: Despacha / Recibe                                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
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
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/Distribucion-api/internal/application/workflow"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
)

var _ workflow.DeliveryNotePDFGenerator = (*MarotoPDFGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// MarotoPDFGenerator implementa workflow.DeliveryNotePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	company string
	printer *message.Printer
}

// NewMarotoPDFGenerator construye el generador; company va en el encabezado.
func NewMarotoPDFGenerator(company string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{company: company, printer: message.NewPrinter(language.Spanish)}
}

// GenerateDeliveryNotePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateDeliveryNotePDF(_ context.Context, doc *workflow.DeliveryNotePrintout) ([]byte, error) {
	if doc == nil || doc.Note == nil || doc.Invoice == nil {
		return nil, fmt.Errorf("pdf: remisión incompleta")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Remisión "+doc.Note.Code, true).
		WithAuthor(g.company, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(doc.Note))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(doc.Note, doc.Invoice))
	m.AddRows(transportRow(doc.Note))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(g.itemRows(doc)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.summaryRow(doc.Invoice))
	m.AddRows(row.New(20))
	m.AddRows(signatureRow())

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

func (g *MarotoPDFGenerator) headerRow(dn *entity.DeliveryNote) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.company, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Remisión de entrega", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(dn.Code, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1}),
			text.New("Estado: "+string(dn.Status), props.Text{Size: 8, Align: align.Right, Top: 8, Color: colorGray}),
			text.New("Fecha: "+dn.CreatedAt.Format("02/01/2006"), props.Text{Size: 8, Align: align.Right, Top: 13, Color: colorGray}),
		),
	)
}

func customerRow(dn *entity.DeliveryNote, inv *entity.Invoice) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(inv.CustomerName, props.Text{Style: fontstyle.Bold, Size: 10, Top: 5}),
			text.New(fmt.Sprintf("Factura: %s   |   Dirección de entrega: %s", inv.Code, nonEmpty(dn.DeliveryAddress, "-")),
				props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func transportRow(dn *entity.DeliveryNote) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Conductor: %s   |   Placa: %s   |   Despacho: %s   |   Entrega: %s",
				nonEmpty(dn.DriverName, "-"),
				nonEmpty(dn.VehiclePlate, "-"),
				formatDate(dn.ShippedAt),
				formatDate(dn.DeliveredAt),
			), props.Text{Size: 8, Top: 2, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Und", 1, align.Center),
		h("Pedido", 2, align.Right),
		h("Entregado", 2, align.Right),
		h("Pend.", 1, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func (g *MarotoPDFGenerator) itemRows(doc *workflow.DeliveryNotePrintout) []core.Row {
	rows := make([]core.Row, 0, len(doc.Note.Items))
	for _, it := range doc.Note.Items {
		code, name, unit := it.ProductID, "", ""
		if p, ok := doc.Products[it.ProductID]; ok {
			code, name, unit = p.Code, p.Name, p.Unit
		}
		cell := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
		}
		rows = append(rows, row.New(7).Add(
			cell(code, 2, align.Left),
			cell(name, 4, align.Left),
			cell(unit, 1, align.Center),
			cell(g.quantity(it.OrderedQty), 2, align.Right),
			cell(g.quantity(it.DeliveredQty), 2, align.Right),
			cell(g.quantity(it.Pending()), 1, align.Right),
		))
	}
	return rows
}

func (g *MarotoPDFGenerator) summaryRow(inv *entity.Invoice) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(label("Total factura:"), label("Pagado:"), label("Estado de pago:")),
		col.New(3).Add(
			value(g.money(inv.TotalAmount)),
			value(g.money(inv.PaidAmount)),
			value(string(inv.PaymentStatus)),
		),
	)
}

func signatureRow() core.Row {
	sign := func(label string) core.Col {
		return col.New(6).Add(text.New("______________________________\n"+label, props.Text{
			Size: 8, Align: align.Center, Color: colorGray,
		}))
	}
	return row.New(12).Add(sign("Despacha"), sign("Recibe (nombre y firma)"))
}

// money formatea con separador de miles local, sin decimales. Ej: 2025000 → "$2.025.000".
func (g *MarotoPDFGenerator) money(d decimal.Decimal) string {
	return "$" + g.printer.Sprintf("%d", d.Round(0).IntPart())
}

func (g *MarotoPDFGenerator) quantity(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return g.printer.Sprintf("%d", d.IntPart())
	}
	return d.StringFixed(2)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("02/01/2006 15:04")
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
