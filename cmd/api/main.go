// @title        Distribución API
// @version      1.0
// @description  Pedidos, órdenes de compra, facturas, pagos, remisiones y kardex de una distribuidora.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
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

	_ "github.com/jhoicas/Distribucion-api/docs"
	"github.com/jhoicas/Distribucion-api/internal/application/inventory"
	"github.com/jhoicas/Distribucion-api/internal/application/usecase"
	"github.com/jhoicas/Distribucion-api/internal/application/workflow"
	ledger "github.com/jhoicas/Distribucion-api/internal/domain/inventory"
	"github.com/jhoicas/Distribucion-api/internal/domain/pricing"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
	"github.com/jhoicas/Distribucion-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Distribucion-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Distribucion-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Distribucion-api/internal/interfaces/http"
	"github.com/jhoicas/Distribucion-api/pkg/config"
	"github.com/jhoicas/Distribucion-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.App.Store).
		Msg("iniciando aplicación")

	outbound, err := ledger.ParseOutboundPolicy(cfg.Ledger.OutboundPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("política de salidas")
	}

	ctx := context.Background()
	var (
		store repository.Store
		db    httpRouter.Pinger
	)
	if cfg.App.UsesMemoryStore() {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		store = memory.NewStore()
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.Migrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("aplicar esquema")
			}
		}
		store = postgres.NewStore(pool)
		db = pool
	}

	ledgerUC := inventory.NewLedgerUseCase(store, outbound, log.Named("ledger"))
	productUC := usecase.NewProductUseCase(store, ledgerUC)
	replenishmentUC := inventory.NewReplenishmentUseCase(store.Repos().Products)
	engine := pricing.NewEngine(pricing.ParsePolicy(cfg.Pricing.DiscountPolicy))
	orchestrator := workflow.NewOrchestrator(store, engine, ledgerUC, log.Named("workflow"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en /docs solo si el JSON generado está junto al binario
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Distribución API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:     productUC,
		Ledger:        ledgerUC,
		Replenishment: replenishmentUC,
		Workflow:      orchestrator,
		PDF:           infrapdf.NewMarotoPDFGenerator(cfg.App.Name),
		DB:            db,
		ServiceName:   cfg.App.Name,
		Actor:         httpRouter.ActorConfig{JWTSecret: cfg.JWT.Secret, JWTIssuer: cfg.JWT.Issuer},
		Logger:        log,
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
