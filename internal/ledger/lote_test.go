package ledger_test

import (
	"testing"
	"time"

	"github.com/Martin-Comito/alambrados/internal/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLote_FraguadoDe28Dias(t *testing.T) {
	inicio := time.Date(2024, 3, 1, 17, 45, 0, 0, time.UTC)
	cat := catalogo(ledger.PoliticaPorDefecto(), posteOlimpico())

	l, advs, err := ledger.RegistrarLote(cat, "POSTE OLIMPICO", d("20"), inicio, 28)
	require.NoError(t, err)
	assert.Empty(t, advs)
	assert.Equal(t, ledger.LoteEnProceso, l.Estado)

	listo := time.Date(2024, 3, 29, 0, 0, 0, 0, time.UTC)
	for dia := inicio; dia.Before(listo); dia = dia.AddDate(0, 0, 1) {
		assert.False(t, ledger.EstaListo(*l, dia), dia.Format("2006-01-02"))
		assert.Equal(t, ledger.LoteEnProceso, l.EstadoEn(dia))
	}
	assert.True(t, ledger.EstaListo(*l, listo))
	assert.True(t, ledger.EstaListo(*l, listo.AddDate(0, 2, 0)))
	assert.Equal(t, ledger.LoteListo, l.EstadoEn(listo))

	_, err = ledger.Finalizar(l, cat, listo.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, ledger.ErrLoteNoListo)
	assert.Equal(t, ledger.LoteEnProceso, l.Estado)

	_, err = ledger.Finalizar(l, cat, listo)
	require.NoError(t, err)
	assert.Equal(t, ledger.LoteFinalizado, l.Estado)
	require.NotNil(t, l.FinalizadoEl)

	it, _ := cat.BuscarPorNombre("POSTE OLIMPICO")
	assert.Equal(t, "30", it.Cantidad.String())

	// terminal state: a second finalize fails and does not add stock again
	_, err = ledger.Finalizar(l, cat, listo.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, ledger.ErrLoteFinalizado)
	assert.Equal(t, "30", it.Cantidad.String())
}

func TestLote_EstaListo_ComparaPorDia(t *testing.T) {
	inicio := time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)
	l, err := ledger.NuevoLote("POSTE", d("1"), inicio, 1)
	require.NoError(t, err)

	assert.True(t, ledger.EstaListo(*l, time.Date(2024, 3, 2, 0, 0, 1, 0, time.UTC)))
}

func TestLote_ProductoInexistente(t *testing.T) {
	cat := catalogo(ledger.PoliticaPorDefecto(), posteOlimpico())
	inicio := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	l, advs, err := ledger.RegistrarLote(cat, "POSTE OLIMPICO 3M", d("5"), inicio, 0)
	require.NoError(t, err)
	assert.Equal(t, []ledger.TipoAdvertencia{ledger.AdvProductoDesconocido}, tiposDe(advs))

	_, err = ledger.Finalizar(l, cat, inicio)
	assert.ErrorIs(t, err, ledger.ErrNoEncontrado)
	assert.Equal(t, ledger.LoteEnProceso, l.Estado)
	assert.Nil(t, l.FinalizadoEl)
}

func TestLote_AutoFinalizarSinFraguado(t *testing.T) {
	inicio := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	cat := catalogo(ledger.PoliticaPorDefecto(), posteOlimpico())
	l, _, err := ledger.RegistrarLote(cat, "POSTE OLIMPICO", d("5"), inicio, 0)
	require.NoError(t, err)
	assert.Equal(t, ledger.LoteEnProceso, l.Estado)

	pol := ledger.PoliticaPorDefecto()
	pol.AutoFinalizarSinFraguado = true
	cat = catalogo(pol, posteOlimpico())
	l, _, err = ledger.RegistrarLote(cat, "POSTE OLIMPICO", d("5"), inicio, 0)
	require.NoError(t, err)
	assert.Equal(t, ledger.LoteFinalizado, l.Estado)
	it, _ := cat.BuscarPorNombre("POSTE OLIMPICO")
	assert.Equal(t, "15", it.Cantidad.String())
}

func TestLote_Validaciones(t *testing.T) {
	hoy := time.Now()
	_, err := ledger.NuevoLote("", d("1"), hoy, 1)
	assert.ErrorIs(t, err, ledger.ErrProductoRequerido)
	_, err = ledger.NuevoLote("POSTE", d("0"), hoy, 1)
	assert.ErrorIs(t, err, ledger.ErrCantidadInvalida)
	_, err = ledger.NuevoLote("POSTE", d("1"), hoy, -1)
	assert.Error(t, err)
}

func TestLotesActivos(t *testing.T) {
	lotes := []ledger.Lote{
		{Producto: "A", Estado: ledger.LoteEnProceso},
		{Producto: "B", Estado: ledger.LoteFinalizado},
		{Producto: "C", Estado: ledger.LoteEnProceso},
	}
	activos := ledger.LotesActivos(lotes)
	require.Len(t, activos, 2)
	assert.Equal(t, "A", activos[0].Producto)
	assert.Equal(t, "C", activos[1].Producto)
	assert.Len(t, lotes, 3)
}

// ── Recipes & purchases ───────────────────────────────────────────────────────

func TestConsumirReceta(t *testing.T) {
	cat := catalogo(ledger.PoliticaPorDefecto(),
		posteOlimpico(),
		ledger.Item{Codigo: "90", Nombre: "CEMENTO", Unidad: "bolsa", Cantidad: d("10")},
		ledger.Item{Codigo: "91", Nombre: "HIERRO 4.2", Unidad: "m", Cantidad: d("200")},
	)
	receta := []ledger.LineaReceta{
		{ProductoFinal: "POSTE OLIMPICO", Insumo: "CEMENTO", Cantidad: d("0.25")},
		{ProductoFinal: "POSTE OLIMPICO", Insumo: "HIERRO 4.2", Cantidad: d("9.6")},
		{ProductoFinal: "POSTE REFUERZO", Insumo: "CEMENTO", Cantidad: d("1")},
	}

	consumos, _, err := ledger.ConsumirReceta(cat, receta, "POSTE OLIMPICO", d("20"))
	require.NoError(t, err)
	assert.Len(t, consumos, 2)

	cemento, _ := cat.BuscarPorNombre("CEMENTO")
	hierro, _ := cat.BuscarPorNombre("HIERRO 4.2")
	assert.Equal(t, "5", cemento.Cantidad.String())
	assert.Equal(t, "8", hierro.Cantidad.String())
}

func TestConsumirReceta_InsumoFaltanteNoConsumeNada(t *testing.T) {
	cat := catalogo(ledger.PoliticaPorDefecto(),
		ledger.Item{Codigo: "90", Nombre: "CEMENTO", Cantidad: d("10")},
	)
	receta := []ledger.LineaReceta{
		{ProductoFinal: "POSTE", Insumo: "CEMENTO", Cantidad: d("1")},
		{ProductoFinal: "POSTE", Insumo: "ARENA", Cantidad: d("1")},
	}
	_, _, err := ledger.ConsumirReceta(cat, receta, "POSTE", d("2"))
	assert.ErrorIs(t, err, ledger.ErrNoEncontrado)
	cemento, _ := cat.BuscarPorNombre("CEMENTO")
	assert.Equal(t, "10", cemento.Cantidad.String())
}

func TestRegistrarCompra_Existente(t *testing.T) {
	cat := catalogo(ledger.PoliticaPorDefecto(), posteOlimpico())

	it, _, err := ledger.RegistrarCompra(cat, ledger.Compra{Insumo: "POSTE OLIMPICO", Cantidad: d("5"), Monto: d("60000")})
	require.NoError(t, err)
	assert.Equal(t, "15", it.Cantidad.String())
	assert.Equal(t, "12000", it.PrecioCosto.String())
}

func TestRegistrarCompra_Nuevo(t *testing.T) {
	cat := catalogo(ledger.PoliticaPorDefecto())

	it, _, err := ledger.RegistrarCompra(cat, ledger.Compra{Insumo: "GRAMPAS", Cantidad: d("3"), Monto: d("1000"), Nuevo: true})
	require.NoError(t, err)
	assert.Equal(t, "un.", it.Unidad)
	assert.Equal(t, "333.33", it.PrecioCosto.String())
	assert.True(t, it.PrecioVenta.IsZero())
	assert.Equal(t, "3", it.Cantidad.String())
	assert.Equal(t, 1, cat.Len())
}

func TestRegistrarCompra_Invalida(t *testing.T) {
	cat := catalogo(ledger.PoliticaPorDefecto(), posteOlimpico())
	_, _, err := ledger.RegistrarCompra(cat, ledger.Compra{Insumo: "POSTE OLIMPICO", Cantidad: d("0")})
	assert.ErrorIs(t, err, ledger.ErrCantidadInvalida)
	_, _, err = ledger.RegistrarCompra(cat, ledger.Compra{Insumo: "NADA", Cantidad: d("1")})
	assert.ErrorIs(t, err, ledger.ErrNoEncontrado)
}

// Postgres hands timestamptz back in time.Local; the stored day must not
// shift to the previous date in a zone west of UTC.
func TestLote_FechaInicioEnZonaLocal(t *testing.T) {
	art := time.FixedZone("ART", -3*3600)
	guardado := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	l := ledger.Lote{FechaInicio: guardado.In(art), DiasFraguado: 28, Estado: ledger.LoteEnProceso}

	assert.Equal(t, time.Date(2026, 10, 29, 0, 0, 0, 0, time.UTC), l.FechaListo())
	assert.False(t, ledger.EstaListo(l, time.Date(2026, 10, 28, 0, 0, 0, 0, time.UTC)))
	assert.True(t, ledger.EstaListo(l, time.Date(2026, 10, 29, 0, 0, 0, 0, time.UTC)))
}

func TestNuevoLote_DiasNegativos(t *testing.T) {
	_, err := ledger.NuevoLote("POSTE", d("1"), time.Now(), -1)
	assert.ErrorIs(t, err, ledger.ErrParametroInvalido)
}
