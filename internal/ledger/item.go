// Package ledger holds the inventory rules of the shop: the catalog with its
// physical/reserved split, sale application, production batches and the
// derived documents. It performs no I/O; callers load a snapshot, run an
// operation and persist whatever changed.
package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is one catalog entry. Reservado is the quantity sold in acopio that
// still sits in the yard.
type Item struct {
	ID          uuid.UUID
	Codigo      string
	Nombre      string
	Unidad      string
	PrecioCosto decimal.Decimal
	PrecioVenta decimal.Decimal
	Cantidad    decimal.Decimal
	Reservado   decimal.Decimal
	StockMinimo decimal.Decimal
}

// Disponible is the quantity that can be sold today.
func (i Item) Disponible() decimal.Decimal {
	return i.Cantidad.Sub(i.Reservado)
}

// NuevoItem carries the fields accepted by CrearItem.
type NuevoItem struct {
	Codigo      string
	Nombre      string
	Unidad      string
	PrecioCosto decimal.Decimal
	PrecioVenta decimal.Decimal
	Cantidad    decimal.Decimal
	StockMinimo decimal.Decimal
}

// EdicionItem updates descriptive fields. Nil fields are left as they are.
// Quantities are not editable here; they move through the Ajustar* functions.
type EdicionItem struct {
	Codigo      *string
	Nombre      *string
	Unidad      *string
	PrecioCosto *decimal.Decimal
	PrecioVenta *decimal.Decimal
	StockMinimo *decimal.Decimal
}
