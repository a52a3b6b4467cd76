package ledger_test

import (
	"testing"
	"time"

	"github.com/Martin-Comito/alambrados/internal/ledger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcularMateriales_Perimetro(t *testing.T) {
	m, err := ledger.CalcularMateriales(ledger.ParametrosObra{
		Tipo:   ledger.ObraPerimetro,
		Largo:  d("40"),
		Ancho:  d("20"),
		Altura: d("1.8"),
	})
	require.NoError(t, err)
	assert.Equal(t, "120", m.Metros.String())
	assert.Equal(t, 40, m.PostesIntermedios) // ceil(120/3)
	assert.Equal(t, 8, m.PostesRefuerzo)     // floor(120/25) + 4
	assert.Equal(t, "126", m.MetrosTejido.String())
	assert.Equal(t, 4, m.Hilos)
	assert.Equal(t, "480", m.MetrosAlambre.String())
}

func TestCalcularMateriales_Lineal(t *testing.T) {
	m, err := ledger.CalcularMateriales(ledger.ParametrosObra{
		Tipo:   ledger.ObraLineal,
		Largo:  d("31"),
		Altura: d("1.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, 12, m.PostesIntermedios) // ceil(31/3) + 1
	assert.Equal(t, 3, m.PostesRefuerzo)     // floor(31/25) + 2
	assert.Equal(t, "32.6", m.MetrosTejido.String())
	assert.Equal(t, 3, m.Hilos)
	assert.Equal(t, "93", m.MetrosAlambre.String())
}

func TestCalcularMateriales_Overrides(t *testing.T) {
	pi, pr := 10, 2
	tejido := d("50")
	m, err := ledger.CalcularMateriales(ledger.ParametrosObra{
		Tipo:              ledger.ObraLineal,
		Largo:             d("31"),
		Altura:            d("1.5"),
		Hilos:             5,
		PostesIntermedios: &pi,
		PostesRefuerzo:    &pr,
		MetrosTejido:      &tejido,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, m.PostesIntermedios)
	assert.Equal(t, 2, m.PostesRefuerzo)
	assert.Equal(t, "50", m.MetrosTejido.String())
	assert.Equal(t, "155", m.MetrosAlambre.String())
}

func TestCalcularMateriales_Invalido(t *testing.T) {
	_, err := ledger.CalcularMateriales(ledger.ParametrosObra{Tipo: "circular", Largo: d("10")})
	assert.ErrorIs(t, err, ledger.ErrParametroInvalido)
	_, err = ledger.CalcularMateriales(ledger.ParametrosObra{Tipo: ledger.ObraLineal})
	assert.ErrorIs(t, err, ledger.ErrCantidadInvalida)
}

func TestPresupuestarObra(t *testing.T) {
	cat := catalogo(ledger.PoliticaPorDefecto(),
		ledger.Item{Codigo: "10", Nombre: "POSTE INTERMEDIO 2.40", PrecioVenta: d("9000")},
		ledger.Item{Codigo: "11", Nombre: "Poste Refuerzo 2.40", PrecioVenta: d("15000")},
		ledger.Item{Codigo: "12", Nombre: "TEJIDO ROMBOIDAL 1.80", Unidad: "m", PrecioVenta: d("2500")},
	)
	m, err := ledger.CalcularMateriales(ledger.ParametrosObra{Tipo: ledger.ObraLineal, Largo: d("30"), Altura: d("1.8")})
	require.NoError(t, err)

	p, advs := ledger.PresupuestarObra(cat, m, ledger.ClavesPorDefecto())
	// no wire in the catalog
	require.Len(t, advs, 1)
	assert.Equal(t, ledger.AdvMaterialSinPrecio, advs[0].Tipo)

	// 11 intermedios, 3 refuerzos, 31.5 m de tejido
	assert.Equal(t, "11", p.Lineas[0].Cantidad.String())
	assert.Equal(t, "3", p.Lineas[1].Cantidad.String())
	assert.Equal(t, "31.5", p.Lineas[2].Cantidad.String())
	assert.Equal(t, "222750", p.Total.String()) // 99000 + 45000 + 78750
	require.Len(t, p.Carrito, 3)
	assert.Equal(t, "11", p.Carrito[1].Codigo)

	total, err := ledger.TotalCarrito(cat, p.Carrito)
	require.NoError(t, err)
	assert.True(t, total.Equal(p.Total))
}

// The quote pins each line to the item it priced, so a shared code sells the
// quoted product and not the first one holding that code.
func TestPresupuestarObra_CodigoCompartido(t *testing.T) {
	malla := ledger.Item{ID: uuid.New(), Codigo: "3", Nombre: "MALLA SIMA", Unidad: "m", PrecioVenta: d("900"), Cantidad: d("100")}
	tejido := ledger.Item{ID: uuid.New(), Codigo: "3", Nombre: "TEJIDO ROMBOIDAL 1.50", Unidad: "m", PrecioVenta: d("2100"), Cantidad: d("100")}
	cat := catalogo(ledger.PoliticaPorDefecto(), malla, tejido)

	tejidoM := d("10")
	m, err := ledger.CalcularMateriales(ledger.ParametrosObra{
		Tipo: ledger.ObraLineal, Largo: d("9"), Altura: d("1.5"), MetrosTejido: &tejidoM,
	})
	require.NoError(t, err)
	p, _ := ledger.PresupuestarObra(cat, m, ledger.ClavesPorDefecto())
	require.Len(t, p.Carrito, 1)
	assert.Equal(t, "21000", p.Total.String())

	total, err := ledger.TotalCarrito(cat, p.Carrito)
	require.NoError(t, err)
	assert.Equal(t, "21000", total.String())

	v, _, err := ledger.AplicarVenta(cat, ledger.Pedido{Entrega: ledger.EntregaInmediata, Lineas: p.Carrito}, time.Now())
	require.NoError(t, err)
	require.Len(t, v.Lineas, 1)
	assert.Equal(t, tejido.ID, v.Lineas[0].ItemID)
	assert.Equal(t, "TEJIDO ROMBOIDAL 1.50", v.Lineas[0].Nombre)
	assert.Equal(t, "21000", v.Total.String())

	vendido, _ := cat.BuscarPorID(tejido.ID)
	assert.Equal(t, "90", vendido.Cantidad.String())
	intacto, _ := cat.BuscarPorID(malla.ID)
	assert.Equal(t, "100", intacto.Cantidad.String())
}

func TestResolverLinea_ItemBorradoUsaElCodigo(t *testing.T) {
	cat := catalogo(ledger.PoliticaPorDefecto(), posteOlimpico())
	borrado := uuid.New()

	it, err := ledger.ResolverLinea(cat, ledger.LineaCarrito{Codigo: "27", ItemID: &borrado, Cantidad: d("1")})
	require.NoError(t, err)
	assert.Equal(t, "POSTE OLIMPICO", it.Nombre)
}
