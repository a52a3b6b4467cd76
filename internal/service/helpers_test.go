package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Martin-Comito/alambrados/internal/config"
	"github.com/Martin-Comito/alambrados/internal/dto"
	"github.com/Martin-Comito/alambrados/internal/infra"
	"github.com/Martin-Comito/alambrados/internal/ledger"
	"github.com/Martin-Comito/alambrados/internal/repository"
	"github.com/Martin-Comito/alambrados/internal/service"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Fakes ─────────────────────────────────────────────────────────────────────

type eventosEnMemoria struct {
	mu    sync.Mutex
	lista []infra.Evento
}

func (e *eventosEnMemoria) Publish(_ context.Context, ev infra.Evento) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lista = append(e.lista, ev)
	return nil
}

func (e *eventosEnMemoria) Close() error { return nil }

func (e *eventosEnMemoria) tipos() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.lista))
	for i, ev := range e.lista {
		out[i] = ev.Tipo
	}
	return out
}

// ── Entorno ───────────────────────────────────────────────────────────────────

// ahoraFijo is 10/03/2026 12:00 in the shop's zone (UTC-3).
var ahoraFijo = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

type entorno struct {
	db         *gorm.DB
	store      *service.LedgerStore
	reloj      service.Reloj
	eventos    *eventosEnMemoria
	movs       repository.MovimientoStockRepository
	lotes      repository.LoteRepository
	productos  service.ProductoService
	carritos   service.CarritoService
	ventas     service.VentaService
	produccion service.ProduccionService
	recetas    service.RecetaService
	gastos     service.GastoService
	cotizador  service.CotizadorService
	inventario service.InventarioService
	auth       service.AuthService
}

func nuevoEntorno(t *testing.T, pol ledger.Politica) *entorno {
	t.Helper()
	db, err := infra.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	reloj := service.Reloj{Loc: time.FixedZone("ART", -3*3600), Now: func() time.Time { return ahoraFijo }}
	eventos := &eventosEnMemoria{}
	productoRepo := repository.NewProductoRepository(db)
	movRepo := repository.NewMovimientoStockRepository(db)
	loteRepo := repository.NewLoteRepository(db)
	recetaRepo := repository.NewRecetaRepository(db)
	precios := repository.NewPrecioCache(nil)

	store := service.NewLedgerStore(db, infra.NewMemoryLocker(), productoRepo, movRepo, pol, precios)
	docs, err := infra.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	nodo, err := snowflake.NewNode(1)
	require.NoError(t, err)
	empresa := infra.Empresa{Nombre: "Alambrados del Carmen", Telefono: "11 5555-0000"}
	cfg := &config.Config{JWTSecret: "secreto-de-prueba", JWTExpirationHours: 8, JWTRefreshHours: 24}

	carritos := service.NewCarritoService(repository.NewMemoryCarritoRepository(time.Hour), store)
	return &entorno{
		db:         db,
		store:      store,
		reloj:      reloj,
		eventos:    eventos,
		movs:       movRepo,
		lotes:      loteRepo,
		productos:  service.NewProductoService(productoRepo, store, precios, eventos),
		carritos:   carritos,
		ventas:     service.NewVentaService(repository.NewVentaRepository(db), store, carritos, docs, eventos, nil, empresa, reloj),
		produccion: service.NewProduccionService(loteRepo, recetaRepo, store, eventos, reloj),
		recetas:    service.NewRecetaService(recetaRepo),
		gastos:     service.NewGastoService(repository.NewGastoRepository(db), store, reloj),
		cotizador:  service.NewCotizadorService(store, carritos, ledger.ClavesPorDefecto(), nodo, empresa, reloj),
		inventario: service.NewInventarioService(movRepo, store, reloj),
		auth:       service.NewAuthService(repository.NewUsuarioRepository(db), cfg),
	}
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// crear adds a product with the given stock and sale price; cost is 2/3 of it.
func (e *entorno) crear(t *testing.T, codigo, nombre, cantidad, venta string) dto.ProductoResponse {
	t.Helper()
	resp, err := e.productos.Crear(context.Background(), nil, dto.CrearProductoRequest{
		Codigo:      codigo,
		Nombre:      nombre,
		Unidad:      "un.",
		PrecioCosto: d(venta).Mul(d("2")).Div(d("3")).Round(2),
		PrecioVenta: d(venta),
		Cantidad:    d(cantidad),
	})
	require.NoError(t, err)
	return resp.Producto
}

func (e *entorno) producto(t *testing.T, id string) dto.ProductoResponse {
	t.Helper()
	p, err := e.productos.ObtenerPorID(context.Background(), uuid.MustParse(id))
	require.NoError(t, err)
	return *p
}

func (e *entorno) movimientos(t *testing.T, productoID, tipo string) []dto.MovimientoResponse {
	t.Helper()
	resp, err := e.inventario.ListarMovimientos(context.Background(), dto.MovimientoFilter{ProductoID: productoID, Tipo: tipo})
	require.NoError(t, err)
	return resp.Data
}

func tiposDe(advs []ledger.Advertencia) []ledger.TipoAdvertencia {
	out := make([]ledger.TipoAdvertencia, len(advs))
	for i, a := range advs {
		out[i] = a.Tipo
	}
	return out
}

func parseID(t *testing.T, id string) uuid.UUID {
	t.Helper()
	u, err := uuid.Parse(id)
	require.NoError(t, err)
	return u
}
