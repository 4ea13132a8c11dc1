// Package pdf implementa la generación del recibo de venta en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la tabla  │  N° de venta + Fecha         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  COMPRADOR: Nombre + Email                                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SNAPSHOT: Campo | Valor   (data congelada al vender)        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Cantidad / Precio unitario / TOTAL                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: método de pago + estado + leyenda                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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

	appcommerce "github.com/jhoicas/Tablas-api/internal/application/commerce"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ appcommerce.ReceiptGenerator = (*MarotoReceiptGenerator)(nil)

// MarotoReceiptGenerator implementa commerce.ReceiptGenerator usando Maroto v2.
type MarotoReceiptGenerator struct{}

// NewMarotoReceiptGenerator construye el generador.
func NewMarotoReceiptGenerator() *MarotoReceiptGenerator { return &MarotoReceiptGenerator{} }

// GenerateSaleReceipt genera el PDF del recibo y devuelve sus bytes.
func (g *MarotoReceiptGenerator) GenerateSaleReceipt(
	_ context.Context,
	sale *entity.Sale,
	table *entity.Table,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Recibo de venta "+sale.SaleNumber, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(sale, table))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(buyerRow(sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Snapshot del ítem tal como estaba al vender
	m.AddRows(snapshotHeaderRow())
	for _, r := range snapshotRows(sale.ItemSnapshot) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(sale))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(sale)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: tabla de origen (izq) y N° de venta + fecha (der).
func headerRow(sale *entity.Sale, table *entity.Table) core.Row {
	fecha := sale.CreatedAt.Format("02/01/2006 15:04")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(table.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Tabla de venta", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("RECIBO DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(sale.SaleNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// buyerRow: datos del comprador.
func buyerRow(sale *entity.Sale) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("COMPRADOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(sale.CustomerName, "Consumidor final"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New("Email: "+nonEmpty(sale.CustomerEmail, "—"), props.Text{
				Size: 8, Top: 12, Color: colorGray,
			}),
		),
	)
}

// snapshotHeaderRow: cabecera de la tabla Campo | Valor.
func snapshotHeaderRow() core.Row {
	h := func(label string, size int) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2, Left: 1,
		}))
	}
	return row.New(8).Add(
		h("Campo", 4),
		h("Valor al momento de la venta", 8),
	)
}

// snapshotRows: una fila por campo del snapshot congelado. Si el snapshot no
// parsea se muestra una sola fila con el aviso; el recibo no falla por eso.
func snapshotRows(snapshot []byte) []core.Row {
	data, err := entity.RowDataFromJSON(snapshot)
	if err != nil || data.Len() == 0 {
		return []core.Row{row.New(7).Add(col.New(12).Add(
			text.New("(sin detalle del ítem)", props.Text{
				Size: 8, Color: colorGray, Top: 1, Left: 1,
			}),
		))}
	}

	result := make([]core.Row, 0, data.Len())
	for _, key := range data.Keys() {
		v, _ := data.Get(key)
		result = append(result, row.New(6).Add(
			col.New(4).Add(text.New(key, props.Text{
				Size: 8, Top: 1, Left: 1,
			})),
			col.New(8).Add(text.New(nonEmpty(v.String(), "—"), props.Text{
				Size: 8, Top: 1, Left: 1, Color: colorGray,
			})),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(sale *entity.Sale) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: 16,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: 16,
		})
	}

	return row.New(26).Add(
		col.New(3),
		col.New(4).Add(
			label("Cantidad:", 2),
			label("Precio unitario:", 8),
			grandLabel("TOTAL:"),
		),
		col.New(4).Add(
			value(sale.Quantity.String(), 2),
			value("$"+sale.UnitPrice.StringFixed(2), 8),
			grandValue("$"+sale.Total.StringFixed(2)),
		),
		col.New(1),
	)
}

// footerRows: método de pago, estado y leyenda.
func footerRows(sale *entity.Sale) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New(fmt.Sprintf("Método de pago: %s   |   Estado: %s",
				nonEmpty(sale.PaymentMethod, "—"), sale.Status,
			), props.Text{Size: 8, Color: colorGray, Top: 1}),
		)),
	}
	if sale.Notes != "" {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New("Notas: "+sale.Notes, props.Text{Size: 8, Color: colorGray, Top: 1}),
		)))
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			"El detalle del ítem corresponde al estado de la fila al momento de la venta; "+
				"ediciones posteriores de la tabla no alteran este recibo.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
