package service_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/Martin-Comito/alambrados/internal/dto"
	"github.com/Martin-Comito/alambrados/internal/infra"
	"github.com/Martin-Comito/alambrados/internal/ledger"
	"github.com/Martin-Comito/alambrados/internal/model"
	"github.com/Martin-Comito/alambrados/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCrear_CodigoRepetidoAdvierte(t *testing.T) {
	e := nuevoEntorno(t, ledger.PoliticaPorDefecto())
	ctx := context.Background()
	primero := e.crear(t, "3", "TEJIDO 1.50", "10", "2500")

	resp, err := e.productos.Crear(ctx, nil, dto.CrearProductoRequest{Codigo: "3", Nombre: "TEJIDO 1.80", PrecioVenta: d("2900")})
	require.NoError(t, err)
	assert.Contains(t, tiposDe(resp.Advertencias), ledger.AdvCodigoDuplicado)
	assert.Equal(t, "un.", resp.Producto.Unidad)

	porCodigo, err := e.productos.ObtenerPorCodigo(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, primero.ID, porCodigo.Producto.ID)
	require.Len(t, porCodigo.Advertencias, 1)

	precio, err := e.productos.ConsultarPrecio(ctx, "3")
	require.NoError(t, err)
	assert.True(t, precio.Ambiguo)
	assert.Equal(t, "TEJIDO 1.50", precio.Nombre)
}

func TestCrear_CodigosUnicosRechaza(t *testing.T) {
	pol := ledger.PoliticaPorDefecto()
	pol.CodigosUnicos = true
	e := nuevoEntorno(t, pol)
	e.crear(t, "27", "POSTE OLIMPICO", "10", "17999")

	_, err := e.productos.Crear(context.Background(), nil, dto.CrearProductoRequest{Codigo: "27", Nombre: "OTRO"})
	assert.ErrorIs(t, err, ledger.ErrCodigoDuplicado)
}

func TestObtenerPorCodigo_NoExiste(t *testing.T) {
	e := nuevoEntorno(t, ledger.PoliticaPorDefecto())
	_, err := e.productos.ObtenerPorCodigo(context.Background(), "99")
	assert.ErrorIs(t, err, ledger.ErrNoEncontrado)
}

func TestAjustarStock_RegistraMovimiento(t *testing.T) {
	e := nuevoEntorno(t, ledger.PoliticaPorDefecto())
	p := e.crear(t, "27", "POSTE OLIMPICO", "10", "17999")

	resp, err := e.productos.AjustarStock(context.Background(), nil, parseID(t, p.ID), dto.AjustarStockRequest{
		Delta: d("-3"), Motivo: "rotura en el galpon",
	})
	require.NoError(t, err)
	assert.Equal(t, "7", resp.Producto.Cantidad.String())

	movs := e.movimientos(t, p.ID, model.MovAjusteManual)
	require.Len(t, movs, 1)
	assert.Equal(t, "-3", movs[0].Cantidad.String())
	assert.Equal(t, "10", movs[0].Anterior.String())
	assert.Equal(t, "7", movs[0].Nuevo.String())
	assert.Equal(t, "rotura en el galpon", movs[0].Motivo)
	assert.Equal(t, model.CampoCantidad, movs[0].Campo)
}

func TestAjustarReservado_SobreReservadoAdvierte(t *testing.T) {
	e := nuevoEntorno(t, ledger.PoliticaPorDefecto())
	p := e.crear(t, "27", "POSTE OLIMPICO", "2", "17999")

	resp, err := e.productos.AjustarReservado(context.Background(), nil, parseID(t, p.ID), dto.AjustarStockRequest{
		Delta: d("5"), Motivo: "correccion",
	})
	require.NoError(t, err)
	assert.Contains(t, tiposDe(resp.Advertencias), ledger.AdvSobreReservado)
	assert.Equal(t, "-3", resp.Producto.Disponible.String())
}

func TestReemplazarCatalogo_AltasYBajas(t *testing.T) {
	e := nuevoEntorno(t, ledger.PoliticaPorDefecto())
	a := e.crear(t, "1", "ALAMBRE LISO", "4", "30000")
	b := e.crear(t, "2", "TEJIDO ROMBOIDAL", "30", "2500")

	resp, err := e.productos.ReemplazarCatalogo(context.Background(), nil, dto.ReemplazarCatalogoRequest{
		Productos: []dto.ProductoItemRequest{
			{ID: &a.ID, Codigo: "1", Nombre: "ALAMBRE LISO", Cantidad: d("6"), PrecioVenta: d("31000")},
			{Codigo: "3", Nombre: "POSTE OLIMPICO", Cantidad: d("10"), PrecioVenta: d("17999")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Productos)
	assert.Equal(t, 1, resp.Altas)
	assert.Equal(t, 1, resp.Bajas)

	assert.Equal(t, "6", e.producto(t, a.ID).Cantidad.String())
	_, err = e.productos.ObtenerPorID(context.Background(), parseID(t, b.ID))
	assert.ErrorIs(t, err, ledger.ErrNoEncontrado)

	// the deleted row leaves a movement down to zero
	bajas := e.movimientos(t, b.ID, model.MovAjusteManual)
	require.Len(t, bajas, 1)
	assert.Equal(t, "0", bajas[0].Nuevo.String())
	assert.Contains(t, e.eventos.tipos(), infra.EventoCatalogo)
}

func TestReemplazarCatalogo_InvalidoNoCambiaNada(t *testing.T) {
	pol := ledger.PoliticaPorDefecto()
	pol.NombresUnicos = true
	e := nuevoEntorno(t, pol)
	a := e.crear(t, "1", "ALAMBRE LISO", "4", "30000")

	_, err := e.productos.ReemplazarCatalogo(context.Background(), nil, dto.ReemplazarCatalogoRequest{
		Productos: []dto.ProductoItemRequest{
			{Codigo: "5", Nombre: "CEMENTO"},
			{Codigo: "6", Nombre: "CEMENTO"},
		},
	})
	assert.ErrorIs(t, err, ledger.ErrNombreDuplicado)
	assert.Equal(t, "4", e.producto(t, a.ID).Cantidad.String())
}

func TestImportarPlanilla_CSVSinColumnasNuevas(t *testing.T) {
	e := nuevoEntorno(t, ledger.PoliticaPorDefecto())
	existente := e.crear(t, "27", "POSTE OLIMPICO", "1", "17999")

	csv := "\ufeffProducto,Cantidad,Unidad,Precio Costo,Precio Venta,Stock Minimo\n" +
		"POSTE OLIMPICO,12,un.,12000,17999,5\n" +
		"ALAMBRE 17/15,3,,80000,nan,\n"
	resp, err := e.productos.ImportarPlanilla(context.Background(), nil, "stock.csv", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Filas)

	// the row with the same name keeps its identity
	p := e.producto(t, existente.ID)
	assert.Equal(t, "12", p.Cantidad.String())
	assert.Equal(t, "", p.Codigo)
	assert.Equal(t, "5", p.StockMinimo.String())

	lista, err := e.productos.Listar(context.Background(), dto.ProductoFilter{Nombre: "alambre"})
	require.NoError(t, err)
	require.Len(t, lista.Data, 1)
	assert.Equal(t, "un.", lista.Data[0].Unidad)
	assert.True(t, lista.Data[0].PrecioVenta.IsZero())
	assert.True(t, lista.Data[0].Reservado.IsZero())
}

func TestImportarPlanilla_SinColumnaProducto(t *testing.T) {
	e := nuevoEntorno(t, ledger.PoliticaPorDefecto())
	_, err := e.productos.ImportarPlanilla(context.Background(), nil, "stock.csv", strings.NewReader("Nombre,Cantidad\nX,1\n"))
	assert.ErrorIs(t, err, service.ErrDatoInvalido)
}

func TestExportarXLSX_Reimportable(t *testing.T) {
	e := nuevoEntorno(t, ledger.PoliticaPorDefecto())
	e.crear(t, "27", "POSTE OLIMPICO", "10", "17999")
	e.crear(t, "3", "TEJIDO 1.50", "40", "2500")

	data, err := e.productos.ExportarXLSX(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	filas, err := f.GetRows("Stock")
	require.NoError(t, err)
	require.Len(t, filas, 3)
	assert.Equal(t, "Producto", filas[0][0])
	assert.Equal(t, "Disponible", filas[0][8])

	resp, err := e.productos.ImportarPlanilla(context.Background(), nil, "stock.xlsx", bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Filas)
}
