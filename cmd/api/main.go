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

	"github.com/gestock-saas/gestock-api/internal/application/inventory"
	"github.com/gestock-saas/gestock-api/internal/application/ledger"
	"github.com/gestock-saas/gestock-api/internal/application/restock"
	"github.com/gestock-saas/gestock-api/internal/application/transfer"
	"github.com/gestock-saas/gestock-api/internal/application/usecase"
	"github.com/gestock-saas/gestock-api/internal/infrastructure/postgres"
	"github.com/gestock-saas/gestock-api/internal/infrastructure/rediscache"
	httpRouter "github.com/gestock-saas/gestock-api/internal/interfaces/http"
	"github.com/gestock-saas/gestock-api/pkg/config"
	"github.com/gestock-saas/gestock-api/pkg/logger"
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
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Caché de resúmenes opcional. Sin REDIS_ADDR todo va directo a la base.
	var summaryCache ledger.SummaryCache
	if cfg.Redis.Addr != "" {
		redisCache, err := rediscache.New(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisCache.Close()
		summaryCache = redisCache
		log.Info().Str("addr", cfg.Redis.Addr).Msg("caché de resúmenes habilitado")
	}

	boutiqueRepo := postgres.NewBoutiqueRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	stockRepo := postgres.NewStockLineRepository(pool)
	auditRepo := postgres.NewStockAuditRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	restockRepo := postgres.NewRestockRepository(pool)
	sessionRepo := postgres.NewInventorySessionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	boutiqueUC := usecase.NewBoutiqueUseCase(boutiqueRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	stockUC := ledger.NewUseCase(txRunner, stockRepo, auditRepo, boutiqueRepo, productRepo, summaryCache)
	transferUC := transfer.NewUseCase(txRunner, transferRepo, boutiqueRepo, productRepo, summaryCache)
	restockUC := restock.NewUseCase(txRunner, restockRepo, boutiqueRepo, productRepo, summaryCache)
	inventoryUC := inventory.NewUseCase(txRunner, sessionRepo, stockRepo, boutiqueRepo, productRepo, summaryCache)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "GeStock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		StockUC:     stockUC,
		TransferUC:  transferUC,
		RestockUC:   restockUC,
		InventoryUC: inventoryUC,
		BoutiqueUC:  boutiqueUC,
		ProductUC:   productUC,
		JWTSecret:   cfg.JWT.Secret,
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
