package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmbruno/Ananda/internal/config"
	"github.com/dmbruno/Ananda/internal/handler"
	"github.com/dmbruno/Ananda/internal/infra"
	"github.com/dmbruno/Ananda/internal/repository"
	"github.com/dmbruno/Ananda/internal/router"
	"github.com/dmbruno/Ananda/internal/service"
	"github.com/dmbruno/Ananda/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("error cargando la configuracion")
	}

	if cfg.Env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("error conectando a la base de datos")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("error conectando a redis")
	}

	mailer := infra.NewMailer(cfg)

	// Repositories.
	usuarioRepo := repository.NewUsuarioRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	historialRepo := repository.NewHistorialPrecioRepository(db)
	movimientoRepo := repository.NewMovimientoStockRepository(db)

	// Background email pool.
	dispatcher := worker.NewDispatcher(rdb)
	pool := worker.NewPool(rdb, mailer, cfg.WorkerPoolSize)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	pool.Start(workerCtx)

	// Services.
	authSvc := service.NewAuthService(usuarioRepo, dispatcher, cfg)
	usuarioSvc := service.NewUsuarioService(usuarioRepo)
	clienteSvc := service.NewClienteService(clienteRepo)
	categoriaSvc := service.NewCategoriaService(categoriaRepo)
	productoSvc := service.NewProductoService(productoRepo, categoriaRepo, historialRepo, movimientoRepo, rdb, cfg.UploadDir)
	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, cajaRepo, movimientoRepo)
	cajaSvc := service.NewCajaService(cajaRepo, usuarioRepo, cfg.PDFStoragePath)

	engine := router.New(cfg, router.Handlers{
		Health:     handler.NewHealthHandler(db, rdb, mailer),
		Auth:       handler.NewAuthHandler(authSvc),
		Usuarios:   handler.NewUsuarioHandler(usuarioSvc),
		Clientes:   handler.NewClienteHandler(clienteSvc),
		Categorias: handler.NewCategoriaHandler(categoriaSvc),
		Productos:  handler.NewProductoHandler(productoSvc),
		Ventas:     handler.NewVentaHandler(ventaSvc),
		Cajas:      handler.NewCajaHandler(cajaSvc),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Str("env", cfg.Env).Msg("servidor iniciado")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("el servidor termino con error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("apagando el servidor")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado forzado")
	}

	stopWorkers()
	pool.Wait()

	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("error cerrando redis")
	}
	log.Info().Msg("servidor detenido")
}
