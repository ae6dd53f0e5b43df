package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/prodsys-ledger/internal/application/audit"
	"github.com/jhoicas/prodsys-ledger/internal/application/inventory"
	"github.com/jhoicas/prodsys-ledger/internal/application/production"
	"github.com/jhoicas/prodsys-ledger/internal/application/usecase"
	"github.com/jhoicas/prodsys-ledger/internal/domain/repository"
	"github.com/jhoicas/prodsys-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/prodsys-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/prodsys-ledger/internal/interfaces/http"
	"github.com/jhoicas/prodsys-ledger/pkg/config"
	"github.com/jhoicas/prodsys-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Ledger.StoreDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		txRunner inventory.TxRunner
		repos    repository.Repos
	)
	switch cfg.Ledger.StoreDriver {
	case config.StoreDriverMemory:
		store := memory.NewStore(cfg.Ledger.LockTimeout)
		txRunner, repos = store, store.Repos()
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("migración de esquema")
			}
		}
		txRunner = postgres.NewTxRunner(pool, postgres.TxOptions{
			LockTimeout:      cfg.Ledger.LockTimeout,
			StatementTimeout: cfg.Ledger.StatementTimeout,
		})
		repos = postgres.NewRepos(pool)
	}

	ledgerUC := inventory.NewLedgerUseCase(txRunner, repos, inventory.Options{
		AllowCrossUnitTransfer: cfg.Ledger.AllowCrossUnitTransfer,
	}, log)
	reportUC := production.NewReportUseCase(txRunner, repos, ledgerUC, audit.NewRecorder(), log)
	catalogUC := usecase.NewCatalogUseCase(repos.Items, repos.BOM)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en http://localhost:<port>/docs, solo si el archivo existe.
	if cfg.HTTP.SwaggerFile != "" {
		if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.HTTP.SwaggerFile,
				Path:     "docs",
				Title:    "Prodsys Ledger API",
			}))
		} else {
			log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger no disponible")
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CatalogUC: catalogUC,
		LedgerUC:  ledgerUC,
		ReportUC:  reportUC,
		JWTSecret: cfg.JWT.Secret,
	})

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
