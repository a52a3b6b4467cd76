package ledger_test

import (
	"errors"
	"testing"

	"github.com/Martin-Comito/alambrados/internal/ledger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Helpers ───────────────────────────────────────────────────────────────────

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func posteOlimpico() ledger.Item {
	return ledger.Item{
		Codigo:      "27",
		Nombre:      "POSTE OLIMPICO",
		Unidad:      "un.",
		PrecioCosto: d("12000"),
		PrecioVenta: d("17999"),
		Cantidad:    d("10"),
		Reservado:   decimal.Zero,
		StockMinimo: decimal.Zero,
	}
}

func catalogo(pol ledger.Politica, items ...ledger.Item) *ledger.Catalogo {
	return ledger.NuevoCatalogo(items, pol)
}

func tiposDe(advs []ledger.Advertencia) []ledger.TipoAdvertencia {
	out := make([]ledger.TipoAdvertencia, len(advs))
	for i, a := range advs {
		out[i] = a.Tipo
	}
	return out
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestBuscarPorCodigo_PrimeraCoincidencia(t *testing.T) {
	a := ledger.Item{Codigo: "3", Nombre: "TEJIDO 1.50"}
	b := ledger.Item{Codigo: "3", Nombre: "TEJIDO 1.80"}
	cat := catalogo(ledger.PoliticaPorDefecto(), a, b)

	it, err := cat.BuscarPorCodigo("3")
	require.NoError(t, err)
	assert.Equal(t, "TEJIDO 1.50", it.Nombre)
	assert.Equal(t, 2, cat.Coincidencias("3"))
	assert.Equal(t, map[string]int{"3": 2}, cat.CodigosDuplicados())
}

func TestBuscarPorCodigo_NoExiste(t *testing.T) {
	cat := catalogo(ledger.PoliticaPorDefecto(), posteOlimpico())

	_, err := cat.BuscarPorCodigo("99")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ledger.ErrNoEncontrado))

	var nf *ledger.NoEncontradoError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "codigo", nf.Campo)
	assert.Equal(t, "99", nf.Valor)
}

func TestBuscarPorNombre_SensibleAMayusculas(t *testing.T) {
	cat := catalogo(ledger.PoliticaPorDefecto(), posteOlimpico())

	_, err := cat.BuscarPorNombre("POSTE OLIMPICO")
	require.NoError(t, err)
	_, err = cat.BuscarPorNombre("poste olimpico")
	assert.ErrorIs(t, err, ledger.ErrNoEncontrado)
}

func TestCrearItem_DuplicadosPermitidosPorDefecto(t *testing.T) {
	cat := catalogo(ledger.PoliticaPorDefecto(), posteOlimpico())

	_, err := cat.CrearItem(ledger.NuevoItem{Codigo: "27", Nombre: "POSTE OLIMPICO", Unidad: "un."})
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())
}

func TestCrearItem_CodigosUnicos(t *testing.T) {
	pol := ledger.PoliticaPorDefecto()
	pol.CodigosUnicos = true
	cat := catalogo(pol, posteOlimpico())

	_, err := cat.CrearItem(ledger.NuevoItem{Codigo: "27", Nombre: "OTRO"})
	assert.ErrorIs(t, err, ledger.ErrCodigoDuplicado)
	assert.Equal(t, 1, cat.Len())
}

func TestCrearItem_NombresUnicos(t *testing.T) {
	pol := ledger.PoliticaPorDefecto()
	pol.NombresUnicos = true
	cat := catalogo(pol, posteOlimpico())

	_, err := cat.CrearItem(ledger.NuevoItem{Codigo: "28", Nombre: "POSTE OLIMPICO"})
	assert.ErrorIs(t, err, ledger.ErrNombreDuplicado)
}

func TestCrearItem_PrecioNegativo(t *testing.T) {
	cat := catalogo(ledger.PoliticaPorDefecto())
	_, err := cat.CrearItem(ledger.NuevoItem{Codigo: "1", Nombre: "X", PrecioVenta: d("-1")})
	assert.ErrorIs(t, err, ledger.ErrMontoNegativo)
}

func TestAjustes_SumanDelta(t *testing.T) {
	deltas := []string{"5", "-3", "0", "-25", "2.5"}
	for _, delta := range deltas {
		cat := catalogo(ledger.PoliticaPorDefecto(), posteOlimpico())
		it, _ := cat.BuscarPorCodigo("27")
		antesCant, antesRes := it.Cantidad, it.Reservado

		cat.AjustarCantidad(it, d(delta))
		assert.True(t, it.Cantidad.Equal(antesCant.Add(d(delta))), "cantidad delta %s", delta)
		assert.True(t, it.Reservado.Equal(antesRes), "reservado intacto delta %s", delta)

		cat.AjustarReservado(it, d(delta))
		assert.True(t, it.Reservado.Equal(antesRes.Add(d(delta))), "reservado delta %s", delta)
		assert.True(t, it.Disponible().Equal(it.Cantidad.Sub(it.Reservado)))
	}
}

func TestAjustarCantidad_NegativoEsAdvertencia(t *testing.T) {
	cat := catalogo(ledger.PoliticaPorDefecto(), posteOlimpico())
	it, _ := cat.BuscarPorCodigo("27")

	advs := cat.AjustarCantidad(it, d("-12"))
	assert.True(t, it.Cantidad.Equal(d("-2")))
	assert.Contains(t, tiposDe(advs), ledger.AdvStockNegativo)
}

func TestAjustarReservado_SobreReservado(t *testing.T) {
	cat := catalogo(ledger.PoliticaPorDefecto(), posteOlimpico())
	it, _ := cat.BuscarPorCodigo("27")

	advs := cat.AjustarReservado(it, d("11"))
	assert.Contains(t, tiposDe(advs), ledger.AdvSobreReservado)
}

func TestBajoMinimo(t *testing.T) {
	item := posteOlimpico()
	item.StockMinimo = d("8")
	cat := catalogo(ledger.PoliticaPorDefecto(), item)
	it, _ := cat.BuscarPorCodigo("27")

	advs := cat.AjustarCantidad(it, d("-3"))
	assert.Equal(t, []ledger.TipoAdvertencia{ledger.AdvBajoMinimo}, tiposDe(advs))
}

func TestReemplazarTodo(t *testing.T) {
	cat := catalogo(ledger.PoliticaPorDefecto(), posteOlimpico())

	err := cat.ReemplazarTodo([]ledger.Item{
		{Codigo: "1", Nombre: "ALAMBRE LISO", Cantidad: d("4")},
		{Codigo: "2", Nombre: "TEJIDO ROMBOIDAL", Cantidad: d("30")},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())
	_, err = cat.BuscarPorCodigo("27")
	assert.ErrorIs(t, err, ledger.ErrNoEncontrado)
}

func TestReemplazarTodo_InvalidoNoCambiaNada(t *testing.T) {
	pol := ledger.PoliticaPorDefecto()
	pol.CodigosUnicos = true
	cat := catalogo(pol, posteOlimpico())

	err := cat.ReemplazarTodo([]ledger.Item{
		{Codigo: "1", Nombre: "A"},
		{Codigo: "1", Nombre: "B"},
	})
	assert.ErrorIs(t, err, ledger.ErrCodigoDuplicado)
	assert.Equal(t, 1, cat.Len())
	_, err = cat.BuscarPorCodigo("27")
	assert.NoError(t, err)
}

func TestEditar(t *testing.T) {
	cat := catalogo(ledger.PoliticaPorDefecto(), posteOlimpico())
	it, _ := cat.BuscarPorCodigo("27")
	precio := d("19500")

	editado, err := cat.Editar(it.ID, ledger.EdicionItem{PrecioVenta: &precio})
	require.NoError(t, err)
	assert.True(t, editado.PrecioVenta.Equal(precio))
	assert.True(t, editado.Cantidad.Equal(d("10")))
}

func TestAlertas_CodigoDuplicadoUnaVez(t *testing.T) {
	cat := catalogo(ledger.PoliticaPorDefecto(),
		ledger.Item{Codigo: "15", Nombre: "A", Cantidad: d("1")},
		ledger.Item{Codigo: "15", Nombre: "B", Cantidad: d("1")},
		ledger.Item{Codigo: "15", Nombre: "C", Cantidad: d("1")},
	)
	advs := cat.Alertas()
	require.Len(t, advs, 1)
	assert.Equal(t, ledger.AdvCodigoDuplicado, advs[0].Tipo)
	assert.Equal(t, "A", advs[0].Nombre)
}

func TestAdvertenciaCodigo(t *testing.T) {
	cat := catalogo(ledger.PoliticaPorDefecto(),
		ledger.Item{Codigo: "3", Nombre: "TEJIDO 1.50"},
		ledger.Item{Codigo: "3", Nombre: "TEJIDO 1.80"},
		posteOlimpico(),
	)
	assert.Empty(t, cat.AdvertenciaCodigo("27"))
	advs := cat.AdvertenciaCodigo("3")
	require.Len(t, advs, 1)
	assert.Equal(t, "TEJIDO 1.50", advs[0].Nombre)
}

func TestReemplazarTodo_IDRepetido(t *testing.T) {
	cat := catalogo(ledger.PoliticaPorDefecto(), posteOlimpico())
	id := uuid.New()

	err := cat.ReemplazarTodo([]ledger.Item{
		{ID: id, Codigo: "1", Nombre: "ALAMBRE LISO"},
		{ID: id, Codigo: "2", Nombre: "TEJIDO ROMBOIDAL"},
	})
	assert.ErrorIs(t, err, ledger.ErrIDDuplicado)
	assert.Equal(t, 1, cat.Len())
}
