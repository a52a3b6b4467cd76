package ledger

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TipoObra distinguishes a straight fence run from a closed perimeter.
type TipoObra string

const (
	ObraLineal    TipoObra = "lineal"
	ObraPerimetro TipoObra = "perimetro"
)

var (
	metrosEntrePostes   = decimal.NewFromInt(3)
	metrosEntreRefuerzo = decimal.NewFromInt(25)
	desperdicioTejido   = decimal.RequireFromString("1.05")
	alturaTresHilos     = decimal.RequireFromString("1.5")
)

// ParametrosObra describes a fence job. Nil overrides take the computed value.
type ParametrosObra struct {
	Tipo   TipoObra
	Largo  decimal.Decimal
	Ancho  decimal.Decimal
	Altura decimal.Decimal
	Hilos  int // 0 = sugerido por altura

	PostesIntermedios *int
	PostesRefuerzo    *int
	MetrosTejido      *decimal.Decimal
}

// MaterialesObra is the bill of materials for a fence job.
type MaterialesObra struct {
	Metros            decimal.Decimal
	PostesIntermedios int
	PostesRefuerzo    int
	MetrosTejido      decimal.Decimal
	Hilos             int
	MetrosAlambre     decimal.Decimal
}

// HilosSugeridos is 3 strands up to 1.5 m high, 4 above.
func HilosSugeridos(altura decimal.Decimal) int {
	if altura.LessThanOrEqual(alturaTresHilos) {
		return 3
	}
	return 4
}

// CalcularMateriales computes posts, mesh and wire for a fence.
func CalcularMateriales(p ParametrosObra) (MaterialesObra, error) {
	var metros decimal.Decimal
	switch p.Tipo {
	case ObraPerimetro:
		metros = p.Largo.Add(p.Ancho).Mul(decimal.NewFromInt(2))
	case ObraLineal:
		metros = p.Largo
	default:
		return MaterialesObra{}, fmt.Errorf("%w: tipo de obra %q", ErrParametroInvalido, p.Tipo)
	}
	if !metros.IsPositive() {
		return MaterialesObra{}, fmt.Errorf("%w: metros de obra", ErrCantidadInvalida)
	}
	if p.Hilos < 0 {
		return MaterialesObra{}, fmt.Errorf("%w: hilos", ErrCantidadInvalida)
	}

	intermedios := int(metros.Div(metrosEntrePostes).Ceil().IntPart())
	refuerzo := int(metros.Div(metrosEntreRefuerzo).Floor().IntPart())
	if p.Tipo == ObraLineal {
		intermedios++
		refuerzo += 2
	} else {
		refuerzo += 4
	}
	tejido := metros.Mul(desperdicioTejido).Round(1)
	hilos := p.Hilos
	if hilos == 0 {
		hilos = HilosSugeridos(p.Altura)
	}

	if p.PostesIntermedios != nil {
		intermedios = *p.PostesIntermedios
	}
	if p.PostesRefuerzo != nil {
		refuerzo = *p.PostesRefuerzo
	}
	if p.MetrosTejido != nil {
		tejido = *p.MetrosTejido
	}
	return MaterialesObra{
		Metros:            metros,
		PostesIntermedios: intermedios,
		PostesRefuerzo:    refuerzo,
		MetrosTejido:      tejido,
		Hilos:             hilos,
		MetrosAlambre:     metros.Mul(decimal.NewFromInt(int64(hilos))),
	}, nil
}

// ClavesMateriales maps each material to a fragment of a catalog name.
type ClavesMateriales struct {
	PosteIntermedio string
	PosteRefuerzo   string
	Tejido          string
	Alambre         string
	// MetrosPorUnidadAlambre is how many metres one catalog unit of wire holds.
	MetrosPorUnidadAlambre decimal.Decimal
}

func ClavesPorDefecto() ClavesMateriales {
	return ClavesMateriales{
		PosteIntermedio:        "Intermedio",
		PosteRefuerzo:          "Refuerzo",
		Tejido:                 "Tejido",
		Alambre:                "Alambre",
		MetrosPorUnidadAlambre: decimal.NewFromInt(100),
	}
}

// LineaPresupuesto is a priced material line of a quote.
type LineaPresupuesto struct {
	Material       string
	Codigo         string
	Nombre         string
	Unidad         string
	Cantidad       decimal.Decimal
	PrecioUnitario decimal.Decimal
	Subtotal       decimal.Decimal
}

// Presupuesto is a priced quote plus a cart that can be confirmed as a sale.
type Presupuesto struct {
	Materiales MaterialesObra
	Lineas     []LineaPresupuesto
	Carrito    Carrito
	Total      decimal.Decimal
}

// PresupuestarObra prices the materials at current catalog prices. A
// material with no matching item is priced at zero and reported.
func PresupuestarObra(cat *Catalogo, m MaterialesObra, claves ClavesMateriales) (Presupuesto, []Advertencia) {
	porUnidad := claves.MetrosPorUnidadAlambre
	if !porUnidad.IsPositive() {
		porUnidad = decimal.NewFromInt(100)
	}
	pedidos := []struct {
		material string
		clave    string
		cantidad decimal.Decimal
	}{
		{"Postes intermedios", claves.PosteIntermedio, decimal.NewFromInt(int64(m.PostesIntermedios))},
		{"Postes de refuerzo", claves.PosteRefuerzo, decimal.NewFromInt(int64(m.PostesRefuerzo))},
		{"Tejido romboidal", claves.Tejido, m.MetrosTejido},
		{"Alambre", claves.Alambre, m.MetrosAlambre.Div(porUnidad)},
	}

	p := Presupuesto{Materiales: m, Total: decimal.Zero}
	var advs []Advertencia
	for _, pd := range pedidos {
		if !pd.cantidad.IsPositive() {
			continue
		}
		it, ok := cat.BuscarPorFragmento(pd.clave)
		if !ok {
			advs = append(advs, Advertencia{
				Tipo:    AdvMaterialSinPrecio,
				Nombre:  pd.material,
				Detalle: fmt.Sprintf("ningun producto contiene %q; se cotiza en cero", pd.clave),
			})
			p.Lineas = append(p.Lineas, LineaPresupuesto{
				Material: pd.material, Cantidad: pd.cantidad,
				PrecioUnitario: decimal.Zero, Subtotal: decimal.Zero,
			})
			continue
		}
		subtotal := pd.cantidad.Mul(it.PrecioVenta)
		p.Lineas = append(p.Lineas, LineaPresupuesto{
			Material:       pd.material,
			Codigo:         it.Codigo,
			Nombre:         it.Nombre,
			Unidad:         it.Unidad,
			Cantidad:       pd.cantidad,
			PrecioUnitario: it.PrecioVenta,
			Subtotal:       subtotal,
		})
		linea := LineaCarrito{Codigo: it.Codigo, Cantidad: pd.cantidad}
		if it.ID != uuid.Nil {
			id := it.ID
			linea.ItemID = &id
		}
		p.Carrito = append(p.Carrito, linea)
		p.Total = p.Total.Add(subtotal)
	}
	return p, advs
}
