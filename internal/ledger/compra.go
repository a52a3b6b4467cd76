package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// UnidadPorDefecto is assigned to materials created from a purchase.
const UnidadPorDefecto = "un."

// Compra is a purchase of material. When Nuevo is set the material is added
// to the catalog; otherwise Insumo must match an existing item by name.
type Compra struct {
	Insumo   string
	Codigo   string
	Unidad   string
	Cantidad decimal.Decimal
	Monto    decimal.Decimal
	Nuevo    bool
}

// RegistrarCompra adds purchased stock. A new material gets cost
// Monto/Cantidad and a sale price of zero.
func RegistrarCompra(cat *Catalogo, c Compra) (*Item, []Advertencia, error) {
	if !c.Cantidad.IsPositive() {
		return nil, nil, ErrCantidadInvalida
	}
	if c.Monto.IsNegative() {
		return nil, nil, ErrMontoNegativo
	}
	if strings.TrimSpace(c.Insumo) == "" {
		return nil, nil, ErrProductoRequerido
	}
	if c.Nuevo {
		unidad := c.Unidad
		if unidad == "" {
			unidad = UnidadPorDefecto
		}
		it, err := cat.CrearItem(NuevoItem{
			Codigo:      c.Codigo,
			Nombre:      c.Insumo,
			Unidad:      unidad,
			PrecioCosto: c.Monto.Div(c.Cantidad).Round(2),
			PrecioVenta: decimal.Zero,
			Cantidad:    c.Cantidad,
		})
		if err != nil {
			return nil, nil, err
		}
		return it, revisar(it), nil
	}
	it, err := cat.BuscarPorNombre(c.Insumo)
	if err != nil {
		return nil, nil, err
	}
	return it, cat.AjustarCantidad(it, c.Cantidad), nil
}
