// Package router assembles the HTTP surface: middleware chain, the /api
// route groups and the operational endpoints (/health, /metrics, swagger).
package router

import (
	"time"

	"github.com/dmbruno/Ananda/internal/config"
	"github.com/dmbruno/Ananda/internal/handler"
	"github.com/dmbruno/Ananda/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Health     *handler.HealthHandler
	Auth       *handler.AuthHandler
	Usuarios   *handler.UsuarioHandler
	Clientes   *handler.ClienteHandler
	Categorias *handler.CategoriaHandler
	Productos  *handler.ProductoHandler
	Ventas     *handler.VentaHandler
	Cajas      *handler.CajaHandler
}

// New builds the gin engine with the full middleware chain and route table.
func New(cfg *config.Config, h Handlers) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSAllowList()))
	r.Use(middleware.Metrics())
	r.Use(middleware.RateLimit(300, time.Minute))

	r.GET("/health", h.Health.Check)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static("/uploads", cfg.UploadDir)

	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("/api")

	// Public endpoints.
	auth := api.Group("/auth")
	{
		auth.POST("/login", middleware.LoginRateLimit(), h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/verify-reset-token", h.Auth.VerifyResetToken)
		auth.POST("/reset-password", h.Auth.ResetPassword)
	}
	api.GET("/precio/:codigo", h.Productos.Precio)

	// Everything below requires a valid access token.
	protected := api.Group("")
	protected.Use(middleware.JWTAuth(cfg.JWTSecret))
	admin := protected.Group("")
	admin.Use(middleware.RequireAdmin())

	protected.GET("/auth/me", h.Auth.Me)
	protected.POST("/auth/logout", h.Auth.Logout)

	usuarios := admin.Group("/usuarios")
	{
		usuarios.POST("", h.Usuarios.Crear)
		usuarios.GET("", h.Usuarios.Listar)
		usuarios.GET("/:id", h.Usuarios.Obtener)
		usuarios.PUT("/:id", h.Usuarios.Actualizar)
		usuarios.DELETE("/:id", h.Usuarios.Eliminar)
		usuarios.POST("/:id/reactivar", h.Usuarios.Reactivar)
	}

	clientes := protected.Group("/clientes")
	{
		clientes.POST("", h.Clientes.Crear)
		clientes.GET("", h.Clientes.Listar)
		clientes.GET("/cumples", h.Clientes.Cumples)
		clientes.GET("/:id", h.Clientes.Obtener)
		clientes.PUT("/:id", h.Clientes.Actualizar)
		clientes.DELETE("/:id", h.Clientes.Eliminar)
		clientes.POST("/:id/reactivar", h.Clientes.Reactivar)
		clientes.POST("/:id/saludo", h.Clientes.Saludo)
	}

	categorias := protected.Group("/categorias")
	{
		categorias.POST("", h.Categorias.Crear)
		categorias.GET("", h.Categorias.Listar)
		categorias.GET("/:id", h.Categorias.Obtener)
		categorias.PUT("/:id", h.Categorias.Actualizar)
		categorias.DELETE("/:id", h.Categorias.Eliminar)
		categorias.POST("/:id/reactivar", h.Categorias.Reactivar)
	}

	subcategorias := protected.Group("/subcategorias")
	{
		subcategorias.POST("", h.Categorias.CrearSubcategoria)
		subcategorias.GET("", h.Categorias.ListarSubcategorias)
		subcategorias.PUT("/:id", h.Categorias.ActualizarSubcategoria)
		subcategorias.DELETE("/:id", h.Categorias.EliminarSubcategoria)
	}

	productos := protected.Group("/productos")
	{
		productos.POST("", h.Productos.Crear)
		productos.GET("", h.Productos.Listar)
		productos.GET("/stock-bajo", h.Productos.StockBajo)
		productos.GET("/:id", h.Productos.Obtener)
		productos.PUT("/:id", h.Productos.Actualizar)
		productos.DELETE("/:id", h.Productos.Eliminar)
		productos.POST("/:id/reactivar", h.Productos.Reactivar)
		productos.POST("/:id/imagen", h.Productos.SubirImagen)
		productos.PATCH("/:id/stock", h.Productos.AjustarStock)
		productos.GET("/:id/historial-precios", h.Productos.HistorialPrecios)
		productos.GET("/:id/movimientos-stock", h.Productos.MovimientosStock)
	}
	admin.POST("/productos/ajuste-masivo-precios", h.Productos.AjusteMasivo)

	ventas := protected.Group("/ventas")
	{
		ventas.POST("", h.Ventas.Crear)
		ventas.GET("", h.Ventas.Listar)
		ventas.GET("/estadisticas/ultimos-10-dias", h.Ventas.Estadisticas)
		ventas.GET("/inconsistencias", h.Ventas.Inconsistencias)
		ventas.GET("/:id", h.Ventas.Obtener)
		ventas.PUT("/:id", h.Ventas.Actualizar)
		ventas.DELETE("/:id", h.Ventas.Eliminar)
	}

	caja := protected.Group("/caja")
	{
		caja.GET("/actual", h.Cajas.Actual)
		caja.POST("/abrir", h.Cajas.Abrir)
		caja.POST("/cerrar", h.Cajas.Cerrar)
		caja.GET("/historial", h.Cajas.Historial)
		caja.GET("/:id", h.Cajas.Obtener)
		caja.GET("/:id/reporte-pdf", h.Cajas.ReportePDF)
	}
	admin.POST("/caja/:id/controlar", h.Cajas.Controlar)

	return r
}
