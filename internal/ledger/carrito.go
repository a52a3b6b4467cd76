package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineaCarrito is a line request: a code and a quantity. Prices are looked up
// when the cart is totalled or confirmed, never stored. ItemID pins the line
// to one catalog item when the code is shared, as quotes do.
type LineaCarrito struct {
	Codigo   string          `json:"codigo"`
	ItemID   *uuid.UUID      `json:"item_id,omitempty"`
	Cantidad decimal.Decimal `json:"cantidad"`
}

// ResolverLinea finds the item a line refers to. A pinned item wins over the
// code; a pinned item that no longer exists falls back to the code.
func ResolverLinea(cat *Catalogo, l LineaCarrito) (*Item, error) {
	if l.ItemID != nil && *l.ItemID != uuid.Nil {
		if it, err := cat.BuscarPorID(*l.ItemID); err == nil {
			return it, nil
		}
	}
	return cat.BuscarPorCodigo(l.Codigo)
}

// Carrito is an ordered list of line requests.
type Carrito []LineaCarrito

// AgregarLinea returns a new cart with the line appended; c is not modified.
func AgregarLinea(c Carrito, codigo string, cantidad decimal.Decimal) (Carrito, error) {
	if !cantidad.IsPositive() {
		return c, ErrCantidadInvalida
	}
	out := make(Carrito, len(c), len(c)+1)
	copy(out, c)
	return append(out, LineaCarrito{Codigo: codigo, Cantidad: cantidad}), nil
}

// QuitarLinea returns a new cart without the line at index i.
func QuitarLinea(c Carrito, i int) Carrito {
	if i < 0 || i >= len(c) {
		return c
	}
	out := make(Carrito, 0, len(c)-1)
	out = append(out, c[:i]...)
	return append(out, c[i+1:]...)
}

// TotalCarrito prices every line at the current catalog price. Unknown codes
// follow the catalog policy, same as AplicarVenta.
func TotalCarrito(cat *Catalogo, c Carrito) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, l := range c {
		it, err := ResolverLinea(cat, l)
		if err != nil {
			if cat.Politica().SiFaltaCodigo == FaltaOmitir {
				continue
			}
			return decimal.Zero, err
		}
		total = total.Add(it.PrecioVenta.Mul(l.Cantidad))
	}
	return total, nil
}
