package service

import (
	"time"

	"github.com/Martin-Comito/alambrados/internal/dto"
	"github.com/Martin-Comito/alambrados/internal/ledger"
	"github.com/Martin-Comito/alambrados/internal/model"
)

func productoToResponse(p model.Producto) dto.ProductoResponse {
	return dto.ProductoResponse{
		ID:          p.ID.String(),
		Codigo:      p.Codigo,
		Nombre:      p.Nombre,
		Unidad:      p.Unidad,
		PrecioCosto: p.PrecioCosto,
		PrecioVenta: p.PrecioVenta,
		Cantidad:    p.Cantidad,
		Reservado:   p.Reservado,
		Disponible:  p.Cantidad.Sub(p.Reservado),
		StockMinimo: p.StockMinimo,
	}
}

func itemToResponse(it ledger.Item) dto.ProductoResponse {
	return dto.ProductoResponse{
		ID:          it.ID.String(),
		Codigo:      it.Codigo,
		Nombre:      it.Nombre,
		Unidad:      it.Unidad,
		PrecioCosto: it.PrecioCosto,
		PrecioVenta: it.PrecioVenta,
		Cantidad:    it.Cantidad,
		Reservado:   it.Reservado,
		Disponible:  it.Disponible(),
		StockMinimo: it.StockMinimo,
	}
}

// ventaDesdeModelo rebuilds the frozen sale snapshot from its rows.
func ventaDesdeModelo(v model.Venta) ledger.Venta {
	out := ledger.Venta{
		Numero:   v.Numero,
		Fecha:    v.Fecha,
		Cliente:  v.Cliente,
		Entrega:  ledger.Entrega(v.Entrega),
		Total:    v.Total,
		Ganancia: v.Ganancia,
		Lineas:   make([]ledger.LineaVenta, len(v.Items)),
	}
	for i, it := range v.Items {
		l := ledger.LineaVenta{
			Codigo:         it.Codigo,
			Nombre:         it.Nombre,
			Unidad:         it.Unidad,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			PrecioCosto:    it.PrecioCosto,
			Subtotal:       it.Subtotal,
		}
		if it.ProductoID != nil {
			l.ItemID = *it.ProductoID
		}
		out.Lineas[i] = l
	}
	return out
}

func modeloDesdeVenta(v ledger.Venta) model.Venta {
	out := model.Venta{
		Numero:   v.Numero,
		Fecha:    v.Fecha,
		Cliente:  v.Cliente,
		Entrega:  string(v.Entrega),
		Total:    v.Total,
		Ganancia: v.Ganancia,
		Items:    make([]model.VentaItem, len(v.Lineas)),
	}
	for i, l := range v.Lineas {
		id := l.ItemID
		out.Items[i] = model.VentaItem{
			Orden:          i,
			ProductoID:     &id,
			Codigo:         l.Codigo,
			Nombre:         l.Nombre,
			Unidad:         l.Unidad,
			Cantidad:       l.Cantidad,
			PrecioUnitario: l.PrecioUnitario,
			PrecioCosto:    l.PrecioCosto,
			Subtotal:       l.Subtotal,
		}
	}
	return out
}

func lineasToResponse(ls []ledger.LineaVenta) []dto.ItemVentaResponse {
	out := make([]dto.ItemVentaResponse, len(ls))
	for i, l := range ls {
		out[i] = dto.ItemVentaResponse{
			Codigo:         l.Codigo,
			Nombre:         l.Nombre,
			Unidad:         l.Unidad,
			Cantidad:       l.Cantidad,
			PrecioUnitario: l.PrecioUnitario,
			Subtotal:       l.Subtotal,
		}
	}
	return out
}

func (r Reloj) ventaToResponse(m model.Venta, advs []ledger.Advertencia) dto.VentaResponse {
	v := ventaDesdeModelo(m)
	return dto.VentaResponse{
		ID:           m.ID.String(),
		Numero:       v.Numero,
		Fecha:        r.Local(v.Fecha),
		Cliente:      v.Cliente,
		Entrega:      string(v.Entrega),
		Total:        v.Total,
		Ganancia:     v.Ganancia,
		Items:        lineasToResponse(v.Lineas),
		Advertencias: advs,
	}
}

func loteDesdeModelo(l model.LoteProduccion) ledger.Lote {
	return ledger.Lote{
		ID:           l.ID,
		Producto:     l.Producto,
		Cantidad:     l.Cantidad,
		FechaInicio:  l.FechaInicio.UTC(),
		DiasFraguado: l.DiasFraguado,
		Estado:       ledger.EstadoLote(l.Estado),
		FinalizadoEl: l.FinalizadoEl,
	}
}

func modeloDesdeLote(base model.LoteProduccion, l ledger.Lote) model.LoteProduccion {
	base.ID = l.ID
	base.Producto = l.Producto
	base.Cantidad = l.Cantidad
	base.FechaInicio = l.FechaInicio
	base.DiasFraguado = l.DiasFraguado
	base.FechaListo = l.FechaListo()
	base.Estado = string(l.Estado)
	base.FinalizadoEl = l.FinalizadoEl
	return base
}

// loteToResponse reports the derived state ("listo") as of hoy.
func (r Reloj) loteToResponse(m model.LoteProduccion, hoy time.Time) dto.LoteResponse {
	l := loteDesdeModelo(m)
	resp := dto.LoteResponse{
		ID:           m.ID.String(),
		Producto:     l.Producto,
		Cantidad:     l.Cantidad,
		FechaInicio:  l.FechaInicio.Format(formatoDia),
		DiasFraguado: l.DiasFraguado,
		FechaListo:   l.FechaListo().Format(formatoDia),
		Estado:       string(l.EstadoEn(hoy)),
	}
	if l.FinalizadoEl != nil {
		s := r.Local(*l.FinalizadoEl)
		resp.FinalizadoEl = &s
	}
	return resp
}

func (r Reloj) movimientoToResponse(m model.MovimientoStock) dto.MovimientoResponse {
	resp := dto.MovimientoResponse{
		ID:         m.ID.String(),
		ProductoID: m.ProductoID.String(),
		Codigo:     m.Codigo,
		Nombre:     m.Nombre,
		Tipo:       m.Tipo,
		Campo:      m.Campo,
		Cantidad:   m.Cantidad,
		Anterior:   m.Anterior,
		Nuevo:      m.Nuevo,
		Motivo:     m.Motivo,
		Fecha:      r.Local(m.CreatedAt),
	}
	if m.ReferenciaID != nil {
		s := m.ReferenciaID.String()
		resp.ReferenciaID = &s
	}
	return resp
}

func (r Reloj) gastoToResponse(g model.Gasto) dto.GastoResponse {
	return dto.GastoResponse{
		ID:         g.ID.String(),
		Fecha:      g.Fecha.Format(formatoDia),
		Insumo:     g.Insumo,
		ProductoID: g.ProductoID.String(),
		Cantidad:   g.Cantidad,
		Monto:      g.Monto,
		Proveedor:  g.Proveedor,
	}
}
