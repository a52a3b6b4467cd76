package infra

// pdf.go renders the sale receipt with go-pdf/fpdf. The receipt is built only
// from the frozen sale snapshot:
//   - business header and sale number
//   - customer, date and delivery type
//   - line table (code, name, quantity, unit price, subtotal)
//   - bold total

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/Martin-Comito/alambrados/internal/ledger"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// Empresa is the letterhead printed on customer documents.
type Empresa struct {
	Nombre   string
	Telefono string
}

// GenerarReciboPDF renders an A5 receipt and returns the PDF bytes. loc is
// the shop's time zone; the sale date is stored in UTC.
func GenerarReciboPDF(r ledger.Recibo, emp Empresa, loc *time.Location) ([]byte, error) {
	if loc == nil {
		loc = time.UTC
	}
	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(8, 8, 8)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 16

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, tr(emp.Nombre), "", 1, "C", false, 0, "")
	if emp.Telefono != "" {
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(contentW, 4, tr("Tel. "+emp.Telefono), "", 1, "C", false, 0, "")
	}
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW/2, 6, tr(fmt.Sprintf("Recibo N° %06d", r.Numero)), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW/2, 6, r.Fecha.In(loc).Format("02/01/2006 15:04"), "", 1, "R", false, 0, "")

	pdf.CellFormat(contentW, 5, tr("Cliente: "+clienteOConsumidor(r.Cliente)), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, tr("Entrega: "+etiquetaEntrega(r.Entrega)), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	// ── Lines ─────────────────────────────────────────────────────────────────
	wCod := contentW * 0.12
	wNom := contentW * 0.40
	wCant := contentW * 0.14
	wPU := contentW * 0.16
	wSub := contentW * 0.18

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(wCod, 6, tr("Cód."), "1", 0, "C", true, 0, "")
	pdf.CellFormat(wNom, 6, "Producto", "1", 0, "L", true, 0, "")
	pdf.CellFormat(wCant, 6, "Cant.", "1", 0, "R", true, 0, "")
	pdf.CellFormat(wPU, 6, "P. Unit.", "1", 0, "R", true, 0, "")
	pdf.CellFormat(wSub, 6, "Subtotal", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, l := range r.Lineas {
		pdf.CellFormat(wCod, 5, tr(l.Codigo), "1", 0, "C", false, 0, "")
		pdf.CellFormat(wNom, 5, tr(recortar(l.Nombre, 32)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(wCant, 5, tr(l.Cantidad.String()+" "+l.Unidad), "1", 0, "R", false, 0, "")
		pdf.CellFormat(wPU, 5, Pesos(l.PrecioUnitario), "1", 0, "R", false, 0, "")
		pdf.CellFormat(wSub, 5, Pesos(l.Subtotal), "1", 1, "R", false, 0, "")
	}

	// ── Total ─────────────────────────────────────────────────────────────────
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW-wSub-wPU, 7, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(wPU, 7, "TOTAL", "", 0, "R", false, 0, "")
	pdf.CellFormat(wSub, 7, Pesos(r.Total), "", 1, "R", false, 0, "")

	if r.Entrega == ledger.EntregaAcopio {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.MultiCell(contentW, 4, tr("Mercadería en acopio: queda reservada a nombre del cliente hasta su retiro."), "", "L", false)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 4, tr("¡Gracias por su compra!"), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render recibo: %w", err)
	}
	return buf.Bytes(), nil
}

// Pesos formats an amount as "$ 17.999,00".
func Pesos(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	entero, dec, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, c := range entero {
		if i > 0 && (len(entero)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "$ " + b.String() + "," + dec
}

func clienteOConsumidor(c string) string {
	if strings.TrimSpace(c) == "" {
		return "Consumidor final"
	}
	return c
}

func etiquetaEntrega(e ledger.Entrega) string {
	if e == ledger.EntregaAcopio {
		return "Acopio"
	}
	return "Inmediata"
}

func recortar(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
