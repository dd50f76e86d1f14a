// Package pdf genera la representación gráfica de un DTE de El Salvador a partir
// del documento JSON. La usa la CLI para poblar el respaldo de demostración.
//
// Layout de la página Carta:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  EMISOR: Nombre + NIT/NRC   │  TIPO DTE + N° de control     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  Código de generación / Fecha y hora de emisión             │
//	│  RECEPTOR: Nombre + documento + dirección                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | Ventas gravadas       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Subtotal / IVA / TOTAL A PAGAR / en letras        │
//	│  QR de consulta pública + leyenda                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"net/url"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/Henri-Funes/Vault-DTE/internal/domain/dte"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/entity"
)

// URL de consulta pública de Hacienda codificada en el QR.
const publicQueryURL = "https://admin.factura.gob.sv/consultaPublica"

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 51, Blue: 102}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorVoid    = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

// DTERenderer dibuja un InvoiceRecord con Maroto v2.
type DTERenderer struct{}

// NewDTERenderer construye el renderer.
func NewDTERenderer() *DTERenderer { return &DTERenderer{} }

// Render devuelve los bytes del PDF.
func (g *DTERenderer) Render(rec *entity.InvoiceRecord) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.Letter).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(dte.DocumentTypeName(rec.Identification.DTEType), true).
		WithAuthor(rec.Issuer.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(rec))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(identificationRow(rec))
	m.AddRows(receiverRow(rec))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(itemsHeaderRow())
	m.AddRows(itemRows(rec.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(rec))
	if rec.Folder() == dte.FolderAnuladas {
		m.AddRows(voidRow())
	}
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(rec))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar DTE %s: %w", rec.GenerationCode(), err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(rec *entity.InvoiceRecord) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(rec.Issuer.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("NIT: %s   NRC: %s", rec.Issuer.NIT, nonEmpty(rec.Issuer.NRC, "-")), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(dte.DocumentTypeName(rec.Identification.DTEType), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(rec.Identification.ControlNumber, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 7,
			}),
			text.New("Sucursal: "+nonEmpty(dte.BranchLabel(rec.Branch), rec.Branch), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func identificationRow(rec *entity.InvoiceRecord) core.Row {
	id := rec.Identification
	return row.New(10).Add(
		col.New(8).Add(
			text.New("Código de generación: "+id.GenerationCode, props.Text{Size: 8, Top: 1}),
		),
		col.New(4).Add(
			text.New(fmt.Sprintf("Emisión: %s %s", id.EmissionDate, id.EmissionTime), props.Text{
				Size: 8, Align: align.Right, Top: 1,
			}),
		),
	)
}

func receiverRow(rec *entity.InvoiceRecord) core.Row {
	r := rec.Receiver
	address := "-"
	if r.Address != nil {
		address = strings.Join([]string{r.Address.Detail, r.Address.Municipality, r.Address.Department}, ", ")
	}
	return row.New(16).Add(
		col.New(12).Add(
			text.New("RECEPTOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(r.Name, "Consumidor final"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 5,
			}),
			text.New(fmt.Sprintf("Documento: %s   |   Dirección: %s   |   Correo: %s",
				nonEmpty(r.DocumentNumber, "-"), address, nonEmpty(r.Email, "-"),
			), props.Text{Size: 7.5, Top: 11, Color: colorGray}),
		),
	)
}

func itemsHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 6, align.Left),
		h("Precio unit.", 2, align.Right),
		h("Ventas gravadas", 3, align.Right),
	)
}

func itemRows(items []entity.LineItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(it.Quantity.String(), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(6).Add(text.New(it.Description, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(formatMoney(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(formatMoney(it.TaxedSale), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func summaryRow(rec *entity.InvoiceRecord) core.Row {
	s := rec.Summary
	label := func(v string, top float64) core.Component {
		return text.New(v, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(v string, top float64) core.Component {
		return text.New(v, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(26).Add(
		col.New(6).Add(
			text.New(s.TotalInWords, props.Text{Size: 7.5, Top: 2, Color: colorGray}),
		),
		col.New(3).Add(
			label("Subtotal:", 1),
			label("IVA 13%:", 7),
			label("TOTAL A PAGAR:", 14),
		),
		col.New(3).Add(
			value(formatMoney(s.Subtotal), 1),
			value(formatMoney(s.TotalVAT), 7),
			text.New(formatMoney(s.TotalToPay), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 1, Top: 14, Color: colorPrimary,
			}),
		),
	)
}

func voidRow() core.Row {
	return row.New(12).Add(col.New(12).Add(
		text.New("DOCUMENTO INVALIDADO", props.Text{
			Style: fontstyle.Bold, Size: 14, Align: align.Center, Color: colorVoid, Top: 2,
		}),
	))
}

func footerRow(rec *entity.InvoiceRecord) core.Row {
	return row.New(40).Add(
		col.New(4).Add(code.NewQr(PublicQueryURL(rec), props.Rect{Percent: 95, Center: true})),
		col.New(8).Add(
			text.New("Escanee el código QR para consultar este documento\nen el portal de Hacienda.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Sello de recepción: "+nonEmpty(rec.ReceptionStamp, "-"), props.Text{
				Size: 7, Top: 20, Left: 3, Color: colorGray,
			}),
		),
	)
}

// PublicQueryURL enlace de consulta pública del DTE.
func PublicQueryURL(rec *entity.InvoiceRecord) string {
	q := url.Values{}
	q.Set("ambiente", rec.Identification.Environment)
	q.Set("codGen", rec.Identification.GenerationCode)
	q.Set("fechaEmi", rec.Identification.EmissionDate)
	return publicQueryURL + "?" + q.Encode()
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney monto en dólares con separador de miles: 1234.5 → "$1,234.50".
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	s := d.StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]

	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return sign + "$" + string(buf) + frac
}
