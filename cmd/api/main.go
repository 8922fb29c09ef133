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

	"github.com/tu-usuario/retail-backoffice/internal/application/auth"
	"github.com/tu-usuario/retail-backoffice/internal/application/changefeed"
	appledger "github.com/tu-usuario/retail-backoffice/internal/application/ledger"
	"github.com/tu-usuario/retail-backoffice/internal/application/report"
	"github.com/tu-usuario/retail-backoffice/internal/application/sales"
	"github.com/tu-usuario/retail-backoffice/internal/application/usecase"
	"github.com/tu-usuario/retail-backoffice/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/retail-backoffice/internal/interfaces/http"
	"github.com/tu-usuario/retail-backoffice/pkg/config"
	"github.com/tu-usuario/retail-backoffice/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
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

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	mutationRepo := postgres.NewStockMutationRepository(pool)
	countRepo := postgres.NewStockCountRepository(pool)
	cashRepo := postgres.NewCashTransactionRepository(pool)
	balanceRepo := postgres.NewPartyBalanceRepository(pool)
	partyTxRepo := postgres.NewPartyTransactionRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Feed de cambios en proceso: invalida caches y resúmenes cacheados.
	bus := changefeed.NewBus(log)
	lowStockCache := changefeed.NewLowStockCache(bus, productRepo)
	defer lowStockCache.Close()
	dailyCashCache := changefeed.NewDailyCashCache(bus, cashRepo, time.Now)
	defer dailyCashCache.Close()

	stockLedger := appledger.NewStockLedger(txRunner, productRepo, mutationRepo, bus)
	cashMirror := appledger.NewCashMirror(txRunner, cashRepo, bus, log)
	countUC := appledger.NewStockCountUseCase(productRepo, countRepo, stockLedger, cashMirror)
	balanceRepair := appledger.NewBalanceRepair(balanceRepo, partyTxRepo, log)
	salesUC := sales.NewUseCase(productRepo, saleRepo, purchaseRepo, balanceRepo, partyTxRepo, stockLedger, cashMirror, bus)
	productUC := usecase.NewProductUseCase(productRepo, bus)
	projector := report.NewProjector(mutationRepo, cashRepo, saleRepo, purchaseRepo)
	projector.WarmOnChanges(bus)
	defer projector.Close()

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Reintento periódico de réplicas de caja pendientes.
	retryCtx, stopRetry := context.WithCancel(ctx)
	defer stopRetry()
	if cfg.Mirror.RetryIntervalSeconds > 0 {
		go func() {
			ticker := time.NewTicker(time.Duration(cfg.Mirror.RetryIntervalSeconds) * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-retryCtx.Done():
					return
				case <-ticker.C:
					closed, err := cashMirror.RetryPendingMirrors(retryCtx, cfg.Mirror.RetryBatch)
					if err != nil {
						log.Error().Err(err).Msg("reintento de réplicas de caja")
						continue
					}
					if closed > 0 {
						log.Info().Int("closed", closed).Msg("réplicas de caja pendientes cerradas")
					}
				}
			}
		}()
	}

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
		Title:    "Retail Back-office API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		ProductUC: productUC,
		StockUC:   stockLedger,
		CountUC:   countUC,
		Mirror:    cashMirror,
		Repair:    balanceRepair,
		SalesUC:   salesUC,
		Projector: projector,
		LowStock:  lowStockCache,
		DailyCash: dailyCashCache,
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
	stopRetry()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
