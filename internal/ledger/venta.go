package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entrega is the delivery type of a sale.
type Entrega string

const (
	EntregaInmediata Entrega = "inmediata"
	EntregaAcopio    Entrega = "acopio"
)

func (e Entrega) Valida() bool { return e == EntregaInmediata || e == EntregaAcopio }

// Pedido is a cart ready to be confirmed.
type Pedido struct {
	Cliente string
	Entrega Entrega
	Lineas  Carrito
}

// LineaVenta is the frozen copy of a cart line at sale time.
type LineaVenta struct {
	ItemID         uuid.UUID
	Codigo         string
	Nombre         string
	Unidad         string
	Cantidad       decimal.Decimal
	PrecioUnitario decimal.Decimal
	PrecioCosto    decimal.Decimal
	Subtotal       decimal.Decimal
}

// Venta is an immutable sale record. Numero is assigned by the caller when
// the record is appended.
type Venta struct {
	Numero   int
	Fecha    time.Time
	Cliente  string
	Entrega  Entrega
	Lineas   []LineaVenta
	Total    decimal.Decimal
	Ganancia decimal.Decimal
}

type lineaResuelta struct {
	item     *Item
	cantidad decimal.Decimal
}

// AplicarVenta resolves every line before touching the catalog, so a
// rejected sale leaves the snapshot unchanged. Immediate sales decrement the
// physical quantity; acopio sales increment the reserved quantity.
func AplicarVenta(cat *Catalogo, p Pedido, ahora time.Time) (*Venta, []Advertencia, error) {
	if !p.Entrega.Valida() {
		return nil, nil, fmt.Errorf("%w: %q", ErrEntregaInvalida, p.Entrega)
	}
	pol := cat.Politica()

	var advs []Advertencia
	resueltas := make([]lineaResuelta, 0, len(p.Lineas))
	pedido := make(map[*Item]decimal.Decimal)
	for _, l := range p.Lineas {
		if !l.Cantidad.IsPositive() {
			return nil, nil, fmt.Errorf("%w: codigo %s", ErrCantidadInvalida, l.Codigo)
		}
		it, err := ResolverLinea(cat, l)
		if err != nil {
			if pol.SiFaltaCodigo == FaltaOmitir {
				continue
			}
			return nil, nil, err
		}
		if n := cat.Coincidencias(l.Codigo); n > 1 && l.ItemID == nil {
			advs = append(advs, advertenciaDuplicado(it, n))
		}
		pedido[it] = pedido[it].Add(l.Cantidad)
		resueltas = append(resueltas, lineaResuelta{item: it, cantidad: l.Cantidad})
	}

	for _, r := range resueltas {
		total, ok := pedido[r.item]
		if !ok {
			continue
		}
		delete(pedido, r.item)
		if total.LessThanOrEqual(r.item.Disponible()) {
			continue
		}
		if pol.StockEstricto {
			return nil, nil, fmt.Errorf("%w: %s (disponible %s, pedido %s)",
				ErrStockInsuficiente, r.item.Nombre, r.item.Disponible().String(), total.String())
		}
		advs = append(advs, Advertencia{
			Tipo: AdvStockInsuficiente, Codigo: r.item.Codigo, Nombre: r.item.Nombre,
			Detalle: fmt.Sprintf("se venden %s con %s disponibles", total.String(), r.item.Disponible().String()),
		})
	}

	v := &Venta{
		Fecha:    ahora,
		Cliente:  p.Cliente,
		Entrega:  p.Entrega,
		Lineas:   make([]LineaVenta, 0, len(resueltas)),
		Total:    decimal.Zero,
		Ganancia: decimal.Zero,
	}
	for _, r := range resueltas {
		it := r.item
		subtotal := r.cantidad.Mul(it.PrecioVenta)
		v.Lineas = append(v.Lineas, LineaVenta{
			ItemID:         it.ID,
			Codigo:         it.Codigo,
			Nombre:         it.Nombre,
			Unidad:         it.Unidad,
			Cantidad:       r.cantidad,
			PrecioUnitario: it.PrecioVenta,
			PrecioCosto:    it.PrecioCosto,
			Subtotal:       subtotal,
		})
		v.Total = v.Total.Add(subtotal)
		v.Ganancia = v.Ganancia.Add(it.PrecioVenta.Sub(it.PrecioCosto).Mul(r.cantidad))

		switch p.Entrega {
		case EntregaInmediata:
			advs = append(advs, cat.AjustarCantidad(it, r.cantidad.Neg())...)
		case EntregaAcopio:
			advs = append(advs, cat.AjustarReservado(it, r.cantidad)...)
		}
	}
	return v, dedup(advs), nil
}

// EntregarAcopio records the pickup of goods held in acopio: both the
// physical and the reserved quantity go down by q.
func EntregarAcopio(cat *Catalogo, codigo string, q decimal.Decimal) (*Item, []Advertencia, error) {
	if !q.IsPositive() {
		return nil, nil, ErrCantidadInvalida
	}
	it, err := cat.BuscarPorCodigo(codigo)
	if err != nil {
		return nil, nil, err
	}
	var advs []Advertencia
	if q.GreaterThan(it.Reservado) {
		if cat.Politica().StockEstricto {
			return nil, nil, fmt.Errorf("%w: %s (reservado %s, entrega %s)",
				ErrAcopioInsuficiente, it.Nombre, it.Reservado.String(), q.String())
		}
		advs = append(advs, Advertencia{
			Tipo: AdvReservaNegativa, Codigo: it.Codigo, Nombre: it.Nombre,
			Detalle: fmt.Sprintf("se entregan %s con %s en acopio", q.String(), it.Reservado.String()),
		})
	}
	advs = append(advs, cat.AjustarCantidad(it, q.Neg())...)
	advs = append(advs, cat.AjustarReservado(it, q.Neg())...)
	return it, dedup(advs), nil
}

func dedup(advs []Advertencia) []Advertencia {
	if len(advs) < 2 {
		return advs
	}
	vistos := make(map[Advertencia]struct{}, len(advs))
	out := advs[:0]
	for _, a := range advs {
		if _, ok := vistos[a]; ok {
			continue
		}
		vistos[a] = struct{}{}
		out = append(out, a)
	}
	return out
}
