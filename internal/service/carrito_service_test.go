package service_test

import (
	"context"
	"testing"

	"github.com/Martin-Comito/alambrados/internal/dto"
	"github.com/Martin-Comito/alambrados/internal/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCarrito_AgregarYQuitar(t *testing.T) {
	e := nuevoEntorno(t, ledger.PoliticaPorDefecto())
	ctx := context.Background()
	e.crear(t, "27", "POSTE OLIMPICO", "10", "17999")
	e.crear(t, "3", "TEJIDO 1.50", "40", "2500")

	_, err := e.carritos.AgregarLinea(ctx, "u1", dto.AgregarLineaRequest{Codigo: "27", Cantidad: d("2")})
	require.NoError(t, err)
	c, err := e.carritos.AgregarLinea(ctx, "u1", dto.AgregarLineaRequest{Codigo: "3", Cantidad: d("10")})
	require.NoError(t, err)
	require.Len(t, c.Lineas, 2)
	assert.Equal(t, "60998", c.Total.String())

	c, err = e.carritos.QuitarLinea(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, c.Lineas, 1)
	assert.Equal(t, "3", c.Lineas[0].Codigo)
	assert.Equal(t, 0, c.Lineas[0].Indice)

	_, err = e.carritos.QuitarLinea(ctx, "u1", 5)
	assert.ErrorIs(t, err, ledger.ErrNoEncontrado)

	// carts are per user
	otro, err := e.carritos.Obtener(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, otro.Lineas)
}

func TestCarrito_CodigoDesconocidoRechazado(t *testing.T) {
	e := nuevoEntorno(t, ledger.PoliticaPorDefecto())
	_, err := e.carritos.AgregarLinea(context.Background(), "u1", dto.AgregarLineaRequest{Codigo: "99", Cantidad: d("1")})
	assert.ErrorIs(t, err, ledger.ErrNoEncontrado)
}

func TestCarrito_CantidadInvalida(t *testing.T) {
	e := nuevoEntorno(t, ledger.PoliticaPorDefecto())
	e.crear(t, "27", "POSTE OLIMPICO", "10", "17999")
	_, err := e.carritos.AgregarLinea(context.Background(), "u1", dto.AgregarLineaRequest{Codigo: "27", Cantidad: d("0")})
	assert.ErrorIs(t, err, ledger.ErrCantidadInvalida)
}

func TestCarrito_PreciosActuales(t *testing.T) {
	e := nuevoEntorno(t, ledger.PoliticaPorDefecto())
	ctx := context.Background()
	p := e.crear(t, "27", "POSTE OLIMPICO", "10", "17999")
	_, err := e.carritos.AgregarLinea(ctx, "u1", dto.AgregarLineaRequest{Codigo: "27", Cantidad: d("2")})
	require.NoError(t, err)

	precio := d("19500")
	_, err = e.productos.Actualizar(ctx, nil, parseID(t, p.ID), dto.ActualizarProductoRequest{PrecioVenta: &precio})
	require.NoError(t, err)

	c, err := e.carritos.Obtener(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "39000", c.Total.String())
}

func TestCarrito_LineaHuerfanaSeInforma(t *testing.T) {
	e := nuevoEntorno(t, ledger.PoliticaPorDefecto())
	ctx := context.Background()
	e.crear(t, "27", "POSTE OLIMPICO", "10", "17999")
	_, err := e.carritos.Reemplazar(ctx, "u1", ledger.Carrito{
		{Codigo: "27", Cantidad: d("1")},
		{Codigo: "88", Cantidad: d("1")},
	})
	require.NoError(t, err)

	c, err := e.carritos.Obtener(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, c.Lineas, 2)
	assert.Equal(t, "17999", c.Total.String())
	assert.Equal(t, []ledger.TipoAdvertencia{ledger.AdvProductoDesconocido}, tiposDe(c.Advertencias))
}
