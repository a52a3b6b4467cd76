package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recibo carries everything needed to render a receipt without touching the
// catalog again.
type Recibo struct {
	Numero  int
	Cliente string
	Fecha   time.Time
	Entrega Entrega
	Lineas  []LineaRecibo
	Total   decimal.Decimal
}

type LineaRecibo struct {
	Codigo         string
	Nombre         string
	Unidad         string
	Cantidad       decimal.Decimal
	PrecioUnitario decimal.Decimal
	Subtotal       decimal.Decimal
}

// ReciboDesdeVenta copies the sale snapshot into a receipt.
func ReciboDesdeVenta(v Venta) Recibo {
	r := Recibo{
		Numero:  v.Numero,
		Cliente: v.Cliente,
		Fecha:   v.Fecha,
		Entrega: v.Entrega,
		Lineas:  make([]LineaRecibo, len(v.Lineas)),
		Total:   v.Total,
	}
	for i, l := range v.Lineas {
		r.Lineas[i] = LineaRecibo{
			Codigo:         l.Codigo,
			Nombre:         l.Nombre,
			Unidad:         l.Unidad,
			Cantidad:       l.Cantidad,
			PrecioUnitario: l.PrecioUnitario,
			Subtotal:       l.Subtotal,
		}
	}
	return r
}

// SumaLineas recomputes the total from the receipt lines.
func (r Recibo) SumaLineas() decimal.Decimal {
	total := decimal.Zero
	for _, l := range r.Lineas {
		total = total.Add(l.Cantidad.Mul(l.PrecioUnitario))
	}
	return total
}

// Venta rebuilds a sale record from the receipt. Cost prices are not on the
// receipt, so Ganancia is left at zero.
func (r Recibo) Venta() Venta {
	v := Venta{
		Numero:   r.Numero,
		Fecha:    r.Fecha,
		Cliente:  r.Cliente,
		Entrega:  r.Entrega,
		Lineas:   make([]LineaVenta, len(r.Lineas)),
		Total:    r.SumaLineas(),
		Ganancia: decimal.Zero,
	}
	for i, l := range r.Lineas {
		v.Lineas[i] = LineaVenta{
			Codigo:         l.Codigo,
			Nombre:         l.Nombre,
			Unidad:         l.Unidad,
			Cantidad:       l.Cantidad,
			PrecioUnitario: l.PrecioUnitario,
			Subtotal:       l.Cantidad.Mul(l.PrecioUnitario),
		}
	}
	return v
}
