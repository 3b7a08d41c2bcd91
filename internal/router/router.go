package router

import (
	"time"

	"loteparatodos/internal/config"
	"loteparatodos/internal/handler"
	"loteparatodos/internal/infra"
	"loteparatodos/internal/middleware"
	"loteparatodos/internal/repository"
	"loteparatodos/internal/service"
	"loteparatodos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, notificadorCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	contratoRepo := repository.NewContratoRepository(db)
	loteRepo := repository.NewLoteRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	pagoRepo := repository.NewPagoRepository(db)
	servicioRepo := repository.NewServicioRepository(db)
	prestamoRepo := repository.NewPrestamoRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	materialRepo := repository.NewMaterialRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	authSvc := service.NewAuthService(usuarioRepo, cfg)
	contratoSvc := service.NewContratoService(contratoRepo, loteRepo, clienteRepo, servicioRepo, prestamoRepo, pagoRepo, rdb)
	exportSvc := service.NewExportService(contratoSvc)
	loteSvc := service.NewLoteService(loteRepo, rdb)
	clienteSvc := service.NewClienteService(clienteRepo)
	pagoSvc := service.NewPagoService(pagoRepo, contratoRepo, dispatcher)
	servicioSvc := service.NewServicioService(servicioRepo, contratoRepo)
	prestamoSvc := service.NewPrestamoService(prestamoRepo, contratoRepo)
	ticketSvc := service.NewTicketService(ticketRepo, materialRepo)
	materialSvc := service.NewMaterialService(materialRepo, db)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	contratosH := handler.NewContratosHandler(contratoSvc, exportSvc)
	lotesH := handler.NewLotesHandler(loteSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	pagosH := handler.NewPagosHandler(pagoSvc)
	serviciosH := handler.NewServiciosHandler(servicioSvc)
	prestamosH := handler.NewPrestamosHandler(prestamoSvc)
	ticketsH := handler.NewTicketsHandler(ticketSvc)
	materialesH := handler.NewMaterialesHandler(materialSvc)
	adminH := handler.NewAdminHandler(rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, notificadorCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Lot availability — no auth required, it backs the public landing page
	r.GET("/v1/disponibilidad/:emprendimiento_id", lotesH.Disponibilidad)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: vendedor, supervisor, administrador — declared per-endpoint
		todos := middleware.RequireRole("vendedor", "supervisor", "administrador")
		gestion := middleware.RequireRole("supervisor", "administrador")
		admin := middleware.RequireRole("administrador")

		// Contratos — vendedores create and read; refinancing and state
		// changes need supervisor
		v1.POST("/contratos", todos, contratosH.Crear)
		v1.GET("/contratos", todos, contratosH.Listar)
		v1.GET("/contratos/:id", todos, contratosH.Obtener)
		v1.POST("/contratos/:id/refinanciar", gestion, contratosH.Refinanciar)
		v1.PATCH("/contratos/:id/estado", gestion, contratosH.CambiarEstado)
		v1.GET("/contratos/:id/plan-cuotas", todos, contratosH.PlanCuotas)
		v1.GET("/contratos/:id/estado-cuenta", todos, contratosH.EstadoCuenta)
		v1.GET("/contratos/:id/estado-cuenta/csv", todos, contratosH.ExportarEstadoCuentaCSV)
		v1.GET("/contratos/:id/estado-cuenta/xlsx", todos, contratosH.ExportarEstadoCuentaXLSX)
		v1.GET("/contratos/:id/historial", gestion, contratosH.Historial)
		v1.GET("/reportes/contratos/csv", gestion, contratosH.ExportarContratosCSV)

		// Nested contract resources
		v1.GET("/contratos/:id/pagos", todos, pagosH.ListarPorContrato)
		v1.POST("/contratos/:id/servicios", gestion, serviciosH.Contratar)
		v1.GET("/contratos/:id/servicios", todos, serviciosH.ListarPorContrato)
		v1.GET("/contratos/:id/prestamos", todos, prestamosH.ListarPorContrato)

		v1.POST("/pagos", todos, pagosH.Registrar)
		v1.POST("/prestamos", gestion, prestamosH.Crear)

		// Clientes
		v1.POST("/clientes", todos, clientesH.Crear)
		v1.GET("/clientes", todos, clientesH.Listar)
		v1.GET("/clientes/:id", todos, clientesH.Obtener)
		v1.PUT("/clientes/:id", gestion, clientesH.Actualizar)

		// Emprendimientos y lotes
		v1.GET("/emprendimientos", todos, lotesH.ListarEmprendimientos)
		v1.GET("/emprendimientos/:id/lotes", todos, lotesH.ListarLotes)
		v1.POST("/emprendimientos", admin, lotesH.CrearEmprendimiento)
		v1.GET("/lotes/:id", todos, lotesH.ObtenerLote)
		lotes := v1.Group("/lotes", gestion)
		{
			lotes.POST("", lotesH.CrearLote)
			lotes.PUT("/:id", lotesH.ActualizarLote)
		}

		// Tickets de stock
		v1.POST("/tickets", gestion, ticketsH.Crear)
		v1.GET("/tickets", todos, ticketsH.Listar)
		v1.GET("/tickets/:id", todos, ticketsH.Obtener)
		v1.POST("/tickets/:id/lineas/:linea_id/entrega", gestion, ticketsH.ConfirmarEntrega)

		// Materiales
		v1.GET("/materiales", todos, materialesH.Listar)
		v1.GET("/materiales/:id", todos, materialesH.Obtener)
		materiales := v1.Group("/materiales", gestion)
		{
			materiales.POST("", materialesH.Crear)
			materiales.PUT("/:id", materialesH.Actualizar)
			materiales.DELETE("/:id", materialesH.Desactivar)
			materiales.POST("/:id/ajuste-stock", materialesH.AjustarStock)
		}

		// Catálogo de servicios
		v1.GET("/servicios", todos, serviciosH.ListarCatalogo)
		servicios := v1.Group("/servicios", admin)
		{
			servicios.POST("", serviciosH.CrearCatalogo)
			servicios.PUT("/:id", serviciosH.ActualizarCatalogo)
			servicios.DELETE("/:id", serviciosH.DesactivarCatalogo)
		}

		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}

		// Operational endpoints
		adminGroup := v1.Group("/admin", admin)
		{
			adminGroup.GET("/dlq", adminH.DLQStatus)
			adminGroup.POST("/dlq/:queue/requeue", adminH.DLQRequeue)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
