package ledger

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SiFaltaCodigo decides what a sale does with a line whose code is unknown.
type SiFaltaCodigo string

const (
	FaltaRechazar SiFaltaCodigo = "rechazar"
	FaltaOmitir   SiFaltaCodigo = "omitir"
)

// Politica groups the configurable business rules of the ledger.
type Politica struct {
	SiFaltaCodigo            SiFaltaCodigo
	StockEstricto            bool // reject sales beyond Disponible instead of warning
	CodigosUnicos            bool
	NombresUnicos            bool
	AutoFinalizarSinFraguado bool // finalize batches with zero curing days on registration
}

// PoliticaPorDefecto is permissive on stock and duplicates, strict on unknown codes.
func PoliticaPorDefecto() Politica {
	return Politica{SiFaltaCodigo: FaltaRechazar}
}

// Catalogo is an in-memory snapshot of the catalog. Order is significant:
// lookups by code return the first match.
type Catalogo struct {
	items    []*Item
	politica Politica
}

// NuevoCatalogo copies items into a new snapshot.
func NuevoCatalogo(items []Item, pol Politica) *Catalogo {
	c := &Catalogo{politica: pol}
	c.items = make([]*Item, len(items))
	for i := range items {
		it := items[i]
		c.items[i] = &it
	}
	return c
}

func (c *Catalogo) Politica() Politica { return c.politica }

func (c *Catalogo) Len() int { return len(c.items) }

// Items returns a copy of the current snapshot in catalog order.
func (c *Catalogo) Items() []Item {
	out := make([]Item, len(c.items))
	for i, it := range c.items {
		out[i] = *it
	}
	return out
}

// BuscarPorCodigo returns the first item with the given code.
func (c *Catalogo) BuscarPorCodigo(codigo string) (*Item, error) {
	for _, it := range c.items {
		if it.Codigo == codigo {
			return it, nil
		}
	}
	return nil, noEncontradoCodigo(codigo)
}

// Coincidencias counts the items sharing a code.
func (c *Catalogo) Coincidencias(codigo string) int {
	n := 0
	for _, it := range c.items {
		if it.Codigo == codigo {
			n++
		}
	}
	return n
}

// BuscarPorNombre is an exact, case-sensitive match.
func (c *Catalogo) BuscarPorNombre(nombre string) (*Item, error) {
	for _, it := range c.items {
		if it.Nombre == nombre {
			return it, nil
		}
	}
	return nil, noEncontradoNombre(nombre)
}

// BuscarPorID looks an item up by its primary key.
func (c *Catalogo) BuscarPorID(id uuid.UUID) (*Item, error) {
	for _, it := range c.items {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, &NoEncontradoError{Campo: "id", Valor: id.String()}
}

// BuscarPorFragmento returns the first item whose name contains frag,
// ignoring case.
func (c *Catalogo) BuscarPorFragmento(frag string) (*Item, bool) {
	frag = strings.ToLower(strings.TrimSpace(frag))
	if frag == "" {
		return nil, false
	}
	for _, it := range c.items {
		if strings.Contains(strings.ToLower(it.Nombre), frag) {
			return it, true
		}
	}
	return nil, false
}

// CodigosDuplicados maps every code used by more than one item to its count.
func (c *Catalogo) CodigosDuplicados() map[string]int {
	cuenta := make(map[string]int)
	for _, it := range c.items {
		cuenta[it.Codigo]++
	}
	for k, n := range cuenta {
		if n < 2 {
			delete(cuenta, k)
		}
	}
	return cuenta
}

// CrearItem appends a new item. Duplicate codes and names are accepted unless
// the policy enables uniqueness.
func (c *Catalogo) CrearItem(n NuevoItem) (*Item, error) {
	if n.PrecioCosto.IsNegative() || n.PrecioVenta.IsNegative() {
		return nil, ErrMontoNegativo
	}
	if err := c.verificarUnicidad(uuid.Nil, n.Codigo, n.Nombre); err != nil {
		return nil, err
	}
	it := &Item{
		ID:          uuid.New(),
		Codigo:      n.Codigo,
		Nombre:      n.Nombre,
		Unidad:      n.Unidad,
		PrecioCosto: n.PrecioCosto,
		PrecioVenta: n.PrecioVenta,
		Cantidad:    n.Cantidad,
		Reservado:   decimal.Zero,
		StockMinimo: n.StockMinimo,
	}
	c.items = append(c.items, it)
	return it, nil
}

// Editar applies descriptive changes to an existing item.
func (c *Catalogo) Editar(id uuid.UUID, e EdicionItem) (*Item, error) {
	it, err := c.BuscarPorID(id)
	if err != nil {
		return nil, err
	}
	codigo, nombre := it.Codigo, it.Nombre
	if e.Codigo != nil {
		codigo = *e.Codigo
	}
	if e.Nombre != nil {
		nombre = *e.Nombre
	}
	if err := c.verificarUnicidad(id, codigo, nombre); err != nil {
		return nil, err
	}
	if (e.PrecioCosto != nil && e.PrecioCosto.IsNegative()) || (e.PrecioVenta != nil && e.PrecioVenta.IsNegative()) {
		return nil, ErrMontoNegativo
	}
	it.Codigo, it.Nombre = codigo, nombre
	if e.Unidad != nil {
		it.Unidad = *e.Unidad
	}
	if e.PrecioCosto != nil {
		it.PrecioCosto = *e.PrecioCosto
	}
	if e.PrecioVenta != nil {
		it.PrecioVenta = *e.PrecioVenta
	}
	if e.StockMinimo != nil {
		it.StockMinimo = *e.StockMinimo
	}
	return it, nil
}

func (c *Catalogo) verificarUnicidad(propio uuid.UUID, codigo, nombre string) error {
	for _, it := range c.items {
		if it.ID == propio && propio != uuid.Nil {
			continue
		}
		if c.politica.CodigosUnicos && it.Codigo == codigo {
			return fmt.Errorf("%w: %s", ErrCodigoDuplicado, codigo)
		}
		if c.politica.NombresUnicos && it.Nombre == nombre {
			return fmt.Errorf("%w: %s", ErrNombreDuplicado, nombre)
		}
	}
	return nil
}

// AjustarCantidad adds delta to the physical quantity. There is no floor:
// the result may go negative and is reported as an advisory.
func (c *Catalogo) AjustarCantidad(it *Item, delta decimal.Decimal) []Advertencia {
	it.Cantidad = it.Cantidad.Add(delta)
	return revisar(it)
}

// AjustarReservado adds delta to the acopio quantity, without bounds.
func (c *Catalogo) AjustarReservado(it *Item, delta decimal.Decimal) []Advertencia {
	it.Reservado = it.Reservado.Add(delta)
	return revisar(it)
}

// ReemplazarTodo swaps the whole snapshot. Nothing changes when the new set
// violates the policy.
func (c *Catalogo) ReemplazarTodo(items []Item) error {
	nuevo := NuevoCatalogo(nil, c.politica)
	ids := make(map[uuid.UUID]bool, len(items))
	for i := range items {
		it := items[i]
		if it.ID != uuid.Nil {
			if ids[it.ID] {
				return fmt.Errorf("%w: %s", ErrIDDuplicado, it.ID)
			}
			ids[it.ID] = true
		}
		if it.PrecioCosto.IsNegative() || it.PrecioVenta.IsNegative() {
			return fmt.Errorf("%w: %s", ErrMontoNegativo, it.Nombre)
		}
		if err := nuevo.verificarUnicidad(uuid.Nil, it.Codigo, it.Nombre); err != nil {
			return err
		}
		if it.ID == uuid.Nil {
			it.ID = uuid.New()
		}
		nuevo.items = append(nuevo.items, &it)
	}
	c.items = nuevo.items
	return nil
}

// Alertas lists every advisory condition present in the snapshot.
func (c *Catalogo) Alertas() []Advertencia {
	var out []Advertencia
	for _, it := range c.items {
		out = append(out, revisar(it)...)
	}
	for _, it := range c.items {
		if n := c.Coincidencias(it.Codigo); n > 1 {
			if first, _ := c.BuscarPorCodigo(it.Codigo); first == it {
				out = append(out, advertenciaDuplicado(it, n))
			}
		}
	}
	return out
}

func revisar(it *Item) []Advertencia {
	var out []Advertencia
	if it.Cantidad.IsNegative() {
		out = append(out, Advertencia{
			Tipo: AdvStockNegativo, Codigo: it.Codigo, Nombre: it.Nombre,
			Detalle: fmt.Sprintf("stock fisico negativo: %s %s", it.Cantidad.String(), it.Unidad),
		})
	}
	if it.Reservado.IsNegative() {
		out = append(out, Advertencia{
			Tipo: AdvReservaNegativa, Codigo: it.Codigo, Nombre: it.Nombre,
			Detalle: fmt.Sprintf("acopio negativo: %s %s", it.Reservado.String(), it.Unidad),
		})
	}
	if it.Reservado.GreaterThan(it.Cantidad) && !it.Reservado.IsZero() {
		out = append(out, Advertencia{
			Tipo: AdvSobreReservado, Codigo: it.Codigo, Nombre: it.Nombre,
			Detalle: fmt.Sprintf("reservado %s supera el stock fisico %s", it.Reservado.String(), it.Cantidad.String()),
		})
	}
	if it.StockMinimo.IsPositive() && it.Disponible().LessThan(it.StockMinimo) {
		out = append(out, Advertencia{
			Tipo: AdvBajoMinimo, Codigo: it.Codigo, Nombre: it.Nombre,
			Detalle: fmt.Sprintf("disponible %s por debajo del minimo %s", it.Disponible().String(), it.StockMinimo.String()),
		})
	}
	return out
}

func advertenciaDuplicado(it *Item, n int) Advertencia {
	return Advertencia{
		Tipo: AdvCodigoDuplicado, Codigo: it.Codigo, Nombre: it.Nombre,
		Detalle: fmt.Sprintf("%d productos comparten el codigo %s; se usa el primero", n, it.Codigo),
	}
}

// AdvertenciaCodigo reports a shared code, or nothing when the code is unique.
func (c *Catalogo) AdvertenciaCodigo(codigo string) []Advertencia {
	n := c.Coincidencias(codigo)
	if n < 2 {
		return nil
	}
	first, _ := c.BuscarPorCodigo(codigo)
	return []Advertencia{advertenciaDuplicado(first, n)}
}

// Advertencias lists the stock conditions of a single item.
func (i Item) Advertencias() []Advertencia { return revisar(&i) }
