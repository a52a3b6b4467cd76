package service_test

import (
	"context"
	"testing"

	"github.com/Martin-Comito/alambrados/internal/dto"
	"github.com/Martin-Comito/alambrados/internal/ledger"
	"github.com/Martin-Comito/alambrados/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObtenerAlertas(t *testing.T) {
	e := nuevoEntorno(t, ledger.PoliticaPorDefecto())
	ctx := context.Background()
	e.crear(t, "3", "TEJIDO 1.50", "10", "2500")
	e.crear(t, "3", "TEJIDO 1.80", "10", "2900")
	_, err := e.productos.Crear(ctx, nil, dto.CrearProductoRequest{
		Codigo: "7", Nombre: "TORNIQUETE", Cantidad: d("2"), StockMinimo: d("5"),
	})
	require.NoError(t, err)

	resp, err := e.inventario.ObtenerAlertas(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.ElementsMatch(t,
		[]ledger.TipoAdvertencia{ledger.AdvBajoMinimo, ledger.AdvCodigoDuplicado},
		tiposDe(resp.Alertas))
}

func TestListarMovimientos_FiltroInvalido(t *testing.T) {
	e := nuevoEntorno(t, ledger.PoliticaPorDefecto())
	_, err := e.inventario.ListarMovimientos(context.Background(), dto.MovimientoFilter{ProductoID: "no-es-uuid"})
	assert.ErrorIs(t, err, service.ErrDatoInvalido)
}

func TestRecetas_Reemplazar(t *testing.T) {
	e := nuevoEntorno(t, ledger.PoliticaPorDefecto())
	ctx := context.Background()
	recetaPoste(t, e)

	lineas, err := e.recetas.Listar(ctx)
	require.NoError(t, err)
	assert.Len(t, lineas, 2)

	_, err = e.recetas.Reemplazar(ctx, dto.ReemplazarRecetasRequest{Lineas: []dto.RecetaLinea{
		{ProductoFinal: "POSTE", Insumo: "POSTE", Cantidad: d("1")},
	}})
	assert.ErrorIs(t, err, service.ErrDatoInvalido)

	lineas, err = e.recetas.Listar(ctx)
	require.NoError(t, err)
	assert.Len(t, lineas, 2)

	_, err = e.recetas.Reemplazar(ctx, dto.ReemplazarRecetasRequest{})
	require.NoError(t, err)
	lineas, err = e.recetas.Listar(ctx)
	require.NoError(t, err)
	assert.Empty(t, lineas)
}
