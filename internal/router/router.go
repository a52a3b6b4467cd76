package router

import (
	"time"

	"github.com/Martin-Comito/alambrados/internal/config"
	"github.com/Martin-Comito/alambrados/internal/handler"
	"github.com/Martin-Comito/alambrados/internal/infra"
	"github.com/Martin-Comito/alambrados/internal/middleware"
	"github.com/Martin-Comito/alambrados/internal/repository"
	"github.com/Martin-Comito/alambrados/internal/service"
	"github.com/Martin-Comito/alambrados/internal/worker"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	rolAdmin    = "administrador"
	rolVendedor = "vendedor"
)

// Deps are the infrastructure pieces built by the composition root. Redis
// may be nil; every consumer falls back to an in-process implementation.
type Deps struct {
	DB         *gorm.DB
	Redis      *redis.Client
	Locker     infra.Locker
	Publisher  infra.Publisher
	Documentos infra.DocumentStore
	Mailer     *infra.Mailer
	Dispatcher *worker.Dispatcher
	Numeros    *snowflake.Node
	// Stop ends background housekeeping (rate limiter purges).
	Stop <-chan struct{}
}

// New wires all dependencies and returns a configured Gin engine. It also
// registers the job handlers on deps.Dispatcher; the caller starts it.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	loginLimiter := middleware.NewLoginRateLimiter()
	apiLimiter := middleware.NewRateLimiter(1000, time.Minute, "Demasiadas solicitudes, intente en un minuto")
	if deps.Stop != nil {
		go loginLimiter.PurgarPeriodicamente(5*time.Minute, deps.Stop)
		go apiLimiter.PurgarPeriodicamente(5*time.Minute, deps.Stop)
	}

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.IsProduction(), cfg.CORSOriginList()...))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedExtensions([]string{".pdf", ".xlsx"})))
	r.Use(middleware.ErrorHandler())
	r.Use(apiLimiter.Handler())

	reloj := service.NewReloj(cfg.Location())
	empresa := infra.Empresa{Nombre: cfg.EmpresaNombre, Telefono: cfg.EmpresaTelefono}

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(deps.DB)
	productoRepo := repository.NewProductoRepository(deps.DB)
	ventaRepo := repository.NewVentaRepository(deps.DB)
	movimientoStockRepo := repository.NewMovimientoStockRepository(deps.DB)
	loteRepo := repository.NewLoteRepository(deps.DB)
	recetaRepo := repository.NewRecetaRepository(deps.DB)
	gastoRepo := repository.NewGastoRepository(deps.DB)
	precios := repository.NewPrecioCache(deps.Redis)

	carritoTTL := time.Duration(cfg.CarritoTTLHours) * time.Hour
	var carritoRepo repository.CarritoRepository
	if deps.Redis != nil {
		carritoRepo = repository.NewRedisCarritoRepository(deps.Redis, carritoTTL)
	} else {
		carritoRepo = repository.NewMemoryCarritoRepository(carritoTTL)
	}

	// ── Services ─────────────────────────────────────────────────────────────
	store := service.NewLedgerStore(deps.DB, deps.Locker, productoRepo, movimientoStockRepo, cfg.Politica(), precios)

	authSvc := service.NewAuthService(usuarioRepo, cfg)
	productoSvc := service.NewProductoService(productoRepo, store, precios, deps.Publisher)
	carritoSvc := service.NewCarritoService(carritoRepo, store)
	ventaSvc := service.NewVentaService(ventaRepo, store, carritoSvc, deps.Documentos, deps.Publisher, deps.Dispatcher, empresa, reloj)
	produccionSvc := service.NewProduccionService(loteRepo, recetaRepo, store, deps.Publisher, reloj)
	recetaSvc := service.NewRecetaService(recetaRepo)
	gastoSvc := service.NewGastoService(gastoRepo, store, reloj)
	cotizadorSvc := service.NewCotizadorService(store, carritoSvc, cfg.ClavesCotizador(), deps.Numeros, empresa, reloj)
	inventarioSvc := service.NewInventarioService(movimientoStockRepo, store, reloj)

	// Job handlers: receipts are rendered by the sales service itself.
	if deps.Dispatcher != nil {
		deps.Dispatcher.Registrar(worker.TipoPDFVenta, worker.NewPDFWorker(ventaSvc, deps.Dispatcher, cfg.EmpresaNombre).Process)
		deps.Dispatcher.Registrar(worker.TipoEmail, worker.NewEmailWorker(deps.Mailer, deps.Documentos).Process)
	}

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	consultaH := handler.NewConsultaPreciosHandler(productoSvc)
	carritoH := handler.NewCarritoHandler(carritoSvc, ventaSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	produccionH := handler.NewProduccionHandler(produccionSvc)
	gastosH := handler.NewGastosHandler(gastoSvc)
	cotizadorH := handler.NewCotizadorHandler(cotizadorSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc, recetaSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(deps.DB, deps.Redis))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", loginLimiter.Handler(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check, no auth required
	r.GET("/v1/precio/:codigo", consultaH.GetPrecioPorCodigo)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	todos := middleware.RequireRole(rolAdmin, rolVendedor)
	v1 := r.Group("/v1", jwtMW)
	{
		prods := v1.Group("/productos", todos)
		{
			prods.GET("", productosH.Listar)
			prods.GET("/exportar", productosH.ExportarXLSX)
			prods.GET("/codigo/:codigo", productosH.ObtenerPorCodigo)
			prods.GET("/:id", productosH.ObtenerPorID)
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.PATCH("/:id/stock", productosH.AjustarStock)
			prods.PATCH("/:id/reservado", productosH.AjustarReservado)
		}
		// Whole-catalog writes: administrador only
		catalogo := v1.Group("/productos", middleware.RequireRole(rolAdmin))
		{
			catalogo.PUT("", productosH.ReemplazarCatalogo)
			catalogo.POST("/importar", productosH.ImportarPlanilla)
		}

		carrito := v1.Group("/carrito", todos)
		{
			carrito.GET("", carritoH.Obtener)
			carrito.POST("/lineas", carritoH.AgregarLinea)
			carrito.DELETE("/lineas/:indice", carritoH.QuitarLinea)
			carrito.DELETE("", carritoH.Vaciar)
			carrito.POST("/confirmar", carritoH.Confirmar)
		}

		ventas := v1.Group("/ventas", todos)
		{
			ventas.POST("", ventasH.Confirmar)
			ventas.GET("", ventasH.Listar)
			ventas.GET("/resumen", ventasH.Resumen)
			ventas.GET("/exportar", ventasH.ExportarXLSX)
			ventas.GET("/:id", ventasH.ObtenerPorID)
			ventas.GET("/:id/recibo", ventasH.Recibo)
			ventas.GET("/:id/pdf", ventasH.DescargarPDF)
		}
		v1.POST("/acopio/entregas", todos, ventasH.EntregarAcopio)

		prod := v1.Group("/produccion", todos)
		{
			prod.POST("/lotes", produccionH.RegistrarLote)
			prod.GET("/lotes", produccionH.ListarLotes)
			prod.GET("/lotes/listos", produccionH.LotesListos)
			prod.POST("/lotes/:id/finalizar", produccionH.FinalizarLote)
		}

		v1.GET("/recetas", todos, inventarioH.ListarRecetas)
		v1.PUT("/recetas", middleware.RequireRole(rolAdmin), inventarioH.ReemplazarRecetas)

		gastos := v1.Group("/gastos", todos)
		{
			gastos.POST("", gastosH.Registrar)
			gastos.GET("", gastosH.Listar)
		}

		cot := v1.Group("/cotizador", todos)
		{
			cot.POST("/obra", cotizadorH.CalcularObra)
			cot.POST("/obra/pdf", cotizadorH.PresupuestoPDF)
		}

		inv := v1.Group("/inventario", todos)
		{
			inv.GET("/alertas", inventarioH.ObtenerAlertas)
			inv.GET("/movimientos", inventarioH.ListarMovimientos)
		}

		usuarios := v1.Group("/usuarios", middleware.RequireRole(rolAdmin))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
		}
	}

	return r
}
