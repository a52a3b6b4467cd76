package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// LineaReceta says how much of a material one unit of a product consumes.
type LineaReceta struct {
	ProductoFinal string
	Insumo        string
	Cantidad      decimal.Decimal
}

// InsumosDe filters the recipe lines of one product.
func InsumosDe(receta []LineaReceta, producto string) []LineaReceta {
	var out []LineaReceta
	for _, l := range receta {
		if l.ProductoFinal == producto {
			out = append(out, l)
		}
	}
	return out
}

// ConsumoReceta is one material drawn by a production batch.
type ConsumoReceta struct {
	Item     *Item
	Cantidad decimal.Decimal
}

// ConsumirReceta discounts the materials needed to make `unidades` of
// producto. Every material is resolved first; a missing one aborts without
// changes.
func ConsumirReceta(cat *Catalogo, receta []LineaReceta, producto string, unidades decimal.Decimal) ([]ConsumoReceta, []Advertencia, error) {
	lineas := InsumosDe(receta, producto)
	consumos := make([]ConsumoReceta, 0, len(lineas))
	for _, l := range lineas {
		it, err := cat.BuscarPorNombre(l.Insumo)
		if err != nil {
			return nil, nil, fmt.Errorf("insumo de %s: %w", producto, err)
		}
		consumos = append(consumos, ConsumoReceta{Item: it, Cantidad: l.Cantidad.Mul(unidades)})
	}
	var advs []Advertencia
	for _, c := range consumos {
		advs = append(advs, cat.AjustarCantidad(c.Item, c.Cantidad.Neg())...)
	}
	return consumos, dedup(advs), nil
}
