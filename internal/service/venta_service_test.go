package service_test

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/Martin-Comito/alambrados/internal/dto"
	"github.com/Martin-Comito/alambrados/internal/infra"
	"github.com/Martin-Comito/alambrados/internal/ledger"
	"github.com/Martin-Comito/alambrados/internal/model"
	"github.com/Martin-Comito/alambrados/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func venta(entrega string, items ...dto.ItemVentaRequest) dto.ConfirmarVentaRequest {
	return dto.ConfirmarVentaRequest{Cliente: "Juan Perez", Entrega: entrega, Items: items}
}

func item(codigo, cantidad string) dto.ItemVentaRequest {
	return dto.ItemVentaRequest{Codigo: codigo, Cantidad: d(cantidad)}
}

func TestConfirmar_InmediataDescuentaStock(t *testing.T) {
	e := nuevoEntorno(t, ledger.PoliticaPorDefecto())
	p := e.crear(t, "27", "POSTE OLIMPICO", "10", "17999")

	resp, err := e.ventas.Confirmar(context.Background(), nil, venta("inmediata", item("27", "3")))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Numero)
	assert.Equal(t, "53997", resp.Total.String())
	assert.Empty(t, resp.Advertencias)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "POSTE OLIMPICO", resp.Items[0].Nombre)

	assert.Equal(t, "7", e.producto(t, p.ID).Cantidad.String())
	movs := e.movimientos(t, p.ID, model.MovVenta)
	require.Len(t, movs, 1)
	require.NotNil(t, movs[0].ReferenciaID)
	assert.Equal(t, resp.ID, *movs[0].ReferenciaID)
	assert.Equal(t, "Venta #1", movs[0].Motivo)
	assert.Contains(t, e.eventos.tipos(), infra.EventoVentaConfirmada)
}

func TestConfirmar_AcopioReservaYEntrega(t *testing.T) {
	e := nuevoEntorno(t, ledger.PoliticaPorDefecto())
	ctx := context.Background()
	p := e.crear(t, "27", "POSTE OLIMPICO", "10", "17999")

	v, err := e.ventas.Confirmar(ctx, nil, venta("acopio", item("27", "3")))
	require.NoError(t, err)
	prod := e.producto(t, p.ID)
	assert.Equal(t, "10", prod.Cantidad.String())
	assert.Equal(t, "3", prod.Reservado.String())
	assert.Equal(t, "7", prod.Disponible.String())
	assert.Len(t, e.movimientos(t, p.ID, model.MovAcopio), 1)

	entrega, err := e.ventas.EntregarAcopio(ctx, nil, dto.EntregarAcopioRequest{Codigo: "27", Cantidad: d("2"), VentaID: &v.ID})
	require.NoError(t, err)
	assert.Equal(t, "8", entrega.Producto.Cantidad.String())
	assert.Equal(t, "1", entrega.Producto.Reservado.String())

	movs := e.movimientos(t, p.ID, model.MovEntregaAcopio)
	require.Len(t, movs, 2) // cantidad and reservado
	assert.Equal(t, "Entrega de acopio, venta #1", movs[0].Motivo)
	assert.Contains(t, e.eventos.tipos(), infra.EventoAcopioEntregado)
}

func TestEntregarAcopio_VentaInmediataRechazada(t *testing.T) {
	e := nuevoEntorno(t, ledger.PoliticaPorDefecto())
	e.crear(t, "27", "POSTE OLIMPICO", "10", "17999")
	v, err := e.ventas.Confirmar(context.Background(), nil, venta("inmediata", item("27", "1")))
	require.NoError(t, err)

	_, err = e.ventas.EntregarAcopio(context.Background(), nil, dto.EntregarAcopioRequest{Codigo: "27", Cantidad: d("1"), VentaID: &v.ID})
	assert.ErrorIs(t, err, service.ErrDatoInvalido)
}

func TestConfirmar_PermisivoVendeSinStock(t *testing.T) {
	e := nuevoEntorno(t, ledger.PoliticaPorDefecto())
	p := e.crear(t, "27", "POSTE OLIMPICO", "10", "17999")

	resp, err := e.ventas.Confirmar(context.Background(), nil, venta("inmediata", item("27", "11")))
	require.NoError(t, err)
	assert.Contains(t, tiposDe(resp.Advertencias), ledger.AdvStockInsuficiente)
	assert.Contains(t, tiposDe(resp.Advertencias), ledger.AdvStockNegativo)
	assert.Equal(t, "-1", e.producto(t, p.ID).Cantidad.String())
}

func TestConfirmar_EstrictoRechazaSinCambios(t *testing.T) {
	pol := ledger.PoliticaPorDefecto()
	pol.StockEstricto = true
	e := nuevoEntorno(t, pol)
	p := e.crear(t, "27", "POSTE OLIMPICO", "10", "17999")
	q := e.crear(t, "3", "TEJIDO 1.50", "40", "2500")

	_, err := e.ventas.Confirmar(context.Background(), nil, venta("inmediata", item("3", "5"), item("27", "11")))
	assert.ErrorIs(t, err, ledger.ErrStockInsuficiente)

	assert.Equal(t, "10", e.producto(t, p.ID).Cantidad.String())
	assert.Equal(t, "40", e.producto(t, q.ID).Cantidad.String())
	lista, err := e.ventas.Listar(context.Background(), dto.VentaFilter{})
	require.NoError(t, err)
	assert.Zero(t, lista.Total)
}

func TestConfirmar_CodigoDesconocido(t *testing.T) {
	e := nuevoEntorno(t, ledger.PoliticaPorDefecto())
	p := e.crear(t, "27", "POSTE OLIMPICO", "10", "17999")

	_, err := e.ventas.Confirmar(context.Background(), nil, venta("inmediata", item("27", "1"), item("99", "1")))
	assert.ErrorIs(t, err, ledger.ErrNoEncontrado)
	assert.Equal(t, "10", e.producto(t, p.ID).Cantidad.String())
}

func TestConfirmar_CodigoDesconocidoSeOmite(t *testing.T) {
	pol := ledger.PoliticaPorDefecto()
	pol.SiFaltaCodigo = ledger.FaltaOmitir
	e := nuevoEntorno(t, pol)
	e.crear(t, "27", "POSTE OLIMPICO", "10", "17999")

	resp, err := e.ventas.Confirmar(context.Background(), nil, venta("inmediata", item("27", "1"), item("99", "1")))
	require.NoError(t, err)
	assert.Len(t, resp.Items, 1)
	assert.Equal(t, "17999", resp.Total.String())
}

func TestConfirmar_ConcurrenteNoPierdeVentas(t *testing.T) {
	e := nuevoEntorno(t, ledger.PoliticaPorDefecto())
	p := e.crear(t, "27", "POSTE OLIMPICO", "10", "17999")

	const n = 10
	var wg sync.WaitGroup
	numeros := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := e.ventas.Confirmar(context.Background(), nil, venta("inmediata", item("27", "1")))
			if assert.NoError(t, err) {
				numeros <- resp.Numero
			}
		}()
	}
	wg.Wait()
	close(numeros)

	vistos := map[int]bool{}
	for num := range numeros {
		assert.False(t, vistos[num], "numero repetido %d", num)
		vistos[num] = true
	}
	assert.Len(t, vistos, n)
	assert.Equal(t, "0", e.producto(t, p.ID).Cantidad.String())
}

func TestConfirmarCarrito_VaciaElCarrito(t *testing.T) {
	e := nuevoEntorno(t, ledger.PoliticaPorDefecto())
	ctx := context.Background()
	e.crear(t, "27", "POSTE OLIMPICO", "10", "17999")
	usuario := uuid.New()

	_, err := e.carritos.AgregarLinea(ctx, usuario.String(), dto.AgregarLineaRequest{Codigo: "27", Cantidad: d("2")})
	require.NoError(t, err)
	resp, err := e.ventas.ConfirmarCarrito(ctx, usuario, dto.ConfirmarCarritoRequest{Entrega: "inmediata"})
	require.NoError(t, err)
	assert.Equal(t, "35998", resp.Total.String())

	c, err := e.carritos.Obtener(ctx, usuario.String())
	require.NoError(t, err)
	assert.Empty(t, c.Lineas)
}

func TestResumen_PorEntrega(t *testing.T) {
	e := nuevoEntorno(t, ledger.PoliticaPorDefecto())
	ctx := context.Background()
	e.crear(t, "27", "POSTE OLIMPICO", "10", "300")
	_, err := e.ventas.Confirmar(ctx, nil, venta("inmediata", item("27", "2")))
	require.NoError(t, err)
	_, err = e.ventas.Confirmar(ctx, nil, venta("acopio", item("27", "1")))
	require.NoError(t, err)

	r, err := e.ventas.Resumen(ctx, dto.ResumenFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, r.Ventas)
	assert.Equal(t, "900", r.Total.String())
	assert.Equal(t, "300", r.Ganancia.String()) // cost is 200
	require.Len(t, r.PorEntrega, 2)
	assert.EqualValues(t, 1, r.PorEntrega[0].Ventas)
	assert.Equal(t, "600", r.PorEntrega[0].Total.String())
	assert.Equal(t, "300", r.PorEntrega[1].Total.String())
}

func TestListar_RangoInvalido(t *testing.T) {
	e := nuevoEntorno(t, ledger.PoliticaPorDefecto())
	_, err := e.ventas.Listar(context.Background(), dto.VentaFilter{Desde: "2026-03-10", Hasta: "2026-03-01"})
	assert.ErrorIs(t, err, service.ErrDatoInvalido)
}

func TestGenerarPDF_GuardaYReimprime(t *testing.T) {
	e := nuevoEntorno(t, ledger.PoliticaPorDefecto())
	ctx := context.Background()
	e.crear(t, "27", "POSTE OLIMPICO", "10", "17999")
	v, err := e.ventas.Confirmar(ctx, nil, venta("inmediata", item("27", "1")))
	require.NoError(t, err)
	id := parseID(t, v.ID)

	doc, err := e.ventas.GenerarPDF(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Numero)
	assert.Contains(t, doc.Path, "recibo-000001-juan-perez")

	data, archivo, err := e.ventas.ReimprimirPDF(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "venta-000001.pdf", archivo)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	recibo, err := e.ventas.Recibo(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "17999", recibo.Total.String())
}

func TestObtenerPorID_NoExiste(t *testing.T) {
	e := nuevoEntorno(t, ledger.PoliticaPorDefecto())
	_, err := e.ventas.ObtenerPorID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ledger.ErrNoEncontrado)
}
