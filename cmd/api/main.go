package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/Henri-Funes/Vault-DTE/internal/application/explorer"
	"github.com/Henri-Funes/Vault-DTE/internal/application/packager"
	"github.com/Henri-Funes/Vault-DTE/internal/application/records"
	"github.com/Henri-Funes/Vault-DTE/internal/application/reporting"
	"github.com/Henri-Funes/Vault-DTE/internal/application/system"
	"github.com/Henri-Funes/Vault-DTE/internal/infrastructure/backup"
	"github.com/Henri-Funes/Vault-DTE/internal/infrastructure/storage"
	httpRouter "github.com/Henri-Funes/Vault-DTE/internal/interfaces/http"
	"github.com/Henri-Funes/Vault-DTE/pkg/config"
	"github.com/Henri-Funes/Vault-DTE/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.Store.Backend).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Un solo intento de conexión: si falla, las consultas responden 503.
	store := storage.Open(ctx, cfg, log.Component("store"))
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = store.Close(closeCtx)
	}()

	root := backup.NewRoot(cfg.Backup.Path)
	if !root.Accessible() {
		log.Warn().Str("path", root.Dir()).Msg("raíz del respaldo no accesible; los PDF no estarán disponibles")
	}

	adapter := records.NewAdapter(store.Records)
	statsUC := reporting.NewStatsUseCase(adapter, log.Component("stats"))
	explorerUC := explorer.NewExplorer(adapter, root, log.Component("explorer"))
	packagerUC := packager.NewPackager(adapter, root, log.Component("packager"))
	systemUC := system.NewUseCase(adapter, statsUC, root, system.Info{
		Environment: cfg.App.Env,
		AppName:     cfg.App.Name,
	})

	app := httpRouter.NewApp(cfg.App.Name, log.Component("http"))

	if cfg.HTTP.CORS {
		app.Use(cors.New())
	}

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Vault-DTE API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("documento swagger no encontrado; /docs deshabilitado")
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"service": cfg.App.Name, "docs": "/docs", "api": "/api"})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Stats:    statsUC,
		Explorer: explorerUC,
		Packager: packagerUC,
		System:   systemUC,
		Log:      log.Component("package"),
	})

	// Precalcula la instantánea para que el primer /stats no espere la agregación.
	if store.Connected {
		go func() {
			start := time.Now()
			if _, err := statsUC.Snapshot(ctx); err != nil {
				log.Warn().Err(err).Msg("precarga de estadísticas")
				return
			}
			log.Info().Dur("took", time.Since(start)).Msg("estadísticas precargadas")
		}()
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
