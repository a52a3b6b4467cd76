package infra

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/Martin-Comito/alambrados/internal/ledger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func reciboDePrueba() ledger.Recibo {
	return ledger.Recibo{
		Numero:  12,
		Cliente: "Juan Pérez",
		Fecha:   time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC),
		Entrega: ledger.EntregaAcopio,
		Lineas: []ledger.LineaRecibo{
			{Codigo: "27", Nombre: "POSTE OLIMPICO", Unidad: "un.", Cantidad: d("3"), PrecioUnitario: d("17999"), Subtotal: d("53997")},
		},
		Total: d("53997"),
	}
}

func TestGenerarReciboPDF(t *testing.T) {
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	require.NoError(t, err)

	pdf, err := GenerarReciboPDF(reciboDePrueba(), Empresa{Nombre: "Alambrados del Carmen", Telefono: "3564 000000"}, loc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestGenerarPresupuestoPDF(t *testing.T) {
	m, err := ledger.CalcularMateriales(ledger.ParametrosObra{Tipo: ledger.ObraLineal, Largo: d("30"), Altura: d("1.8")})
	require.NoError(t, err)
	pdf, err := GenerarPresupuestoPDF(PresupuestoDoc{
		Numero:      "1766",
		Cliente:     "Obra Ruta 9",
		Fecha:       time.Now(),
		Descripcion: "30 m x 1.8 m (lineal)",
		Presupuesto: ledger.Presupuesto{Materiales: m, Total: decimal.Zero},
	}, Empresa{Nombre: "Alambrados del Carmen"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestPesos(t *testing.T) {
	assert.Equal(t, "$ 17.999,00", Pesos(d("17999")))
	assert.Equal(t, "$ 1.234.567,50", Pesos(d("1234567.5")))
	assert.Equal(t, "$ 0,99", Pesos(d("0.99")))
	assert.Equal(t, "-$ 120,00", Pesos(d("-120")))
}

func TestGenerarXLSX(t *testing.T) {
	data, err := GenerarXLSX(
		Hoja{Nombre: "Inventario", Encabezados: []string{"Codigo", "Producto", "Cantidad"},
			Filas: [][]any{{"27", "POSTE OLIMPICO", d("10.5")}}},
		Hoja{Nombre: "Alertas", Encabezados: []string{"Tipo"}},
	)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Inventario", "Alertas"}, f.GetSheetList())
	v, err := f.GetCellValue("Inventario", "B2")
	require.NoError(t, err)
	assert.Equal(t, "POSTE OLIMPICO", v)
	v, err = f.GetCellValue("Inventario", "C2")
	require.NoError(t, err)
	assert.Equal(t, "10.5", v)
}

func TestLocalStore(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	nombre := NombreDocumento("recibo", "000012", "Juan Pérez", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "recibo/2024/03/recibo-000012-juan-perez.pdf", nombre)

	path, err := store.Guardar(ctx, nombre, []byte("%PDF-1.3"))
	require.NoError(t, err)
	data, err := store.Abrir(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(data))

	_, err = store.Abrir(ctx, "recibo/no-existe.pdf")
	assert.ErrorIs(t, err, ErrDocumentoNoEncontrado)
}
