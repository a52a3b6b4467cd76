package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EstadoLote is the lifecycle of a production batch. Only EnProceso and
// Finalizado are stored; Listo is derived from the date.
type EstadoLote string

const (
	LoteEnProceso  EstadoLote = "en_proceso"
	LoteListo      EstadoLote = "listo"
	LoteFinalizado EstadoLote = "finalizado"
)

// Lote is a batch of manufactured goods curing in the yard. Producto refers to
// a catalog item by name.
type Lote struct {
	ID           uuid.UUID
	Producto     string
	Cantidad     decimal.Decimal
	FechaInicio  time.Time
	DiasFraguado int
	Estado       EstadoLote
	FinalizadoEl *time.Time
}

// FechaListo is the first calendar day the batch may be finalized.
func (l Lote) FechaListo() time.Time {
	return dia(l.FechaInicio).AddDate(0, 0, l.DiasFraguado)
}

// EstaListo compares calendar days, so the hour of registration does not
// delay the batch.
func EstaListo(l Lote, hoy time.Time) bool {
	return !dia(hoy).Before(l.FechaListo())
}

// EstadoEn projects the displayed state at the given day.
func (l Lote) EstadoEn(hoy time.Time) EstadoLote {
	if l.Estado == LoteFinalizado {
		return LoteFinalizado
	}
	if EstaListo(l, hoy) {
		return LoteListo
	}
	return LoteEnProceso
}

// NuevoLote validates a registration request.
func NuevoLote(producto string, cantidad decimal.Decimal, inicio time.Time, dias int) (*Lote, error) {
	if strings.TrimSpace(producto) == "" {
		return nil, ErrProductoRequerido
	}
	if !cantidad.IsPositive() {
		return nil, ErrCantidadInvalida
	}
	if dias < 0 {
		return nil, fmt.Errorf("%w: dias de fraguado %d", ErrParametroInvalido, dias)
	}
	return &Lote{
		ID:           uuid.New(),
		Producto:     producto,
		Cantidad:     cantidad,
		FechaInicio:  inicio,
		DiasFraguado: dias,
		Estado:       LoteEnProceso,
	}, nil
}

// RegistrarLote creates a batch. The product name is not required to exist
// yet; an unknown name is reported and only fails at finalization. With
// AutoFinalizarSinFraguado a zero-day batch goes straight into stock.
func RegistrarLote(cat *Catalogo, producto string, cantidad decimal.Decimal, inicio time.Time, dias int) (*Lote, []Advertencia, error) {
	l, err := NuevoLote(producto, cantidad, inicio, dias)
	if err != nil {
		return nil, nil, err
	}
	var advs []Advertencia
	if _, err := cat.BuscarPorNombre(producto); err != nil {
		advs = append(advs, Advertencia{
			Tipo: AdvProductoDesconocido, Nombre: producto,
			Detalle: "no hay un producto con ese nombre; el lote no podra finalizarse hasta crearlo",
		})
	}
	if dias == 0 && cat.Politica().AutoFinalizarSinFraguado {
		fin, err := Finalizar(l, cat, inicio)
		if err != nil {
			return nil, nil, err
		}
		advs = append(advs, fin...)
	}
	return l, advs, nil
}

// Finalizar moves the batch quantity into the catalog item with the same
// name. On any error the batch stays as it was.
func Finalizar(l *Lote, cat *Catalogo, hoy time.Time) ([]Advertencia, error) {
	if l.Estado == LoteFinalizado {
		return nil, ErrLoteFinalizado
	}
	if !EstaListo(*l, hoy) {
		return nil, fmt.Errorf("%w: listo el %s", ErrLoteNoListo, l.FechaListo().Format("02/01/2006"))
	}
	it, err := cat.BuscarPorNombre(l.Producto)
	if err != nil {
		return nil, err
	}
	advs := cat.AjustarCantidad(it, l.Cantidad)
	l.Estado = LoteFinalizado
	t := hoy
	l.FinalizadoEl = &t
	return advs, nil
}

// LotesActivos filters out finalized batches.
func LotesActivos(lotes []Lote) []Lote {
	out := make([]Lote, 0, len(lotes))
	for _, l := range lotes {
		if l.Estado != LoteFinalizado {
			out = append(out, l)
		}
	}
	return out
}

// dia truncates to the calendar day. Days are UTC midnight of the local date,
// and drivers may hand them back in time.Local, so the date is read in UTC.
func dia(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
