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

	"github.com/jhoicas/inventario-ledger/internal/application/catalog"
	"github.com/jhoicas/inventario-ledger/internal/application/events"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/inventario-ledger/internal/application/procurement"
	"github.com/jhoicas/inventario-ledger/internal/application/scanning"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/sequence"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/webhook"
	httpRouter "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
	"github.com/jhoicas/inventario-ledger/pkg/telemetry"
)

// storage adaptadores de persistencia según STORAGE_DRIVER.
type storage struct {
	runner   ledger.TxRunner
	balances repository.BalanceReader
	txns     repository.TransactionReader
	orders   repository.ProcurementOrderReader
	history  repository.StatusHistoryReader
	scans    repository.ScanHistoryRepository
	catalog  repository.CatalogRepository
	close    func()
}

func openStorage(ctx context.Context, cfg config.DBConfig) (*storage, error) {
	if cfg.Driver == config.StorageMemory {
		s := memory.NewStore()
		return &storage{
			runner: s, balances: s.Balances(), txns: s.Transactions(), orders: s.Orders(),
			history: s.StatusHistory(), scans: s.Scans(), catalog: s.Catalog(), close: func() {},
		}, nil
	}
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	orders := postgres.NewProcurementOrderRepository(pool)
	return &storage{
		runner:   postgres.NewTxRunner(pool),
		balances: postgres.NewBalanceRepository(pool),
		txns:     postgres.NewTransactionRepository(pool),
		orders:   orders,
		history:  postgres.NewStatusHistoryRepository(pool),
		scans:    postgres.NewScanRepository(pool),
		catalog:  postgres.NewCatalogRepository(pool),
		close:    pool.Close,
	}, nil
}

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
		Str("storage", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	shutdownTelemetry, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:    cfg.Telemetry.Endpoint,
		ServiceName: cfg.Telemetry.ServiceName,
		Insecure:    cfg.Telemetry.Insecure,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar telemetría")
	}

	store, err := openStorage(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer store.close()
	if cfg.DB.Driver == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: el catálogo inicia vacío y nada persiste al reiniciar")
	}

	publisher := events.Multi{events.NewLogPublisher(log.Component("events"))}
	if cfg.Events.WebhookURL != "" {
		publisher = append(publisher, webhook.NewPublisher(cfg.Events.WebhookURL, cfg.Events.Timeout))
	}

	numbers, err := sequence.NewGenerator(cfg.Ledger.NodeID)
	if err != nil {
		log.Fatal().Err(err).Msg("generador de números")
	}

	ledgerLog := log.Component("ledger")
	procLog := log.Component("procurement")

	inventoryLedger := ledger.NewLedger(store.balances)
	txLog := ledger.NewTransactionLog(
		inventoryLedger, store.runner, store.catalog, store.txns,
		numbers, publisher, ledgerLog, cfg.Ledger.MaxRetries,
	)
	resolver := catalog.NewResolver(store.catalog, store.orders)
	history := procurement.NewStatusHistory(store.history)
	orderUC := procurement.NewOrderUseCase(
		store.runner, store.orders, store.catalog, history,
		numbers, publisher, procLog, cfg.Ledger.MaxRetries,
	)
	fulfillment := procurement.NewFulfillmentEngine(
		store.runner, txLog, history,
		procurement.OverReceiptPolicy(cfg.Procurement.OverReceipt), publisher, procLog,
	)
	gateway := scanning.NewGateway(resolver, txLog, store.scans, log.Component("scanning"))
	registerMovementUC := inventory.NewRegisterMovementUseCase(txLog, resolver)
	replenishmentUC := inventory.NewReplenishmentUseCase(store.catalog, inventoryLedger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log.Component("http")),
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		RegisterMovement: registerMovementUC,
		Replenishment:    replenishmentUC,
		Ledger:           inventoryLedger,
		TransactionLog:   txLog,
		Orders:           orderUC,
		Fulfillment:      fulfillment,
		Scan:             gateway,
		JWTSecret:        cfg.JWT.Secret,
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
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado de telemetría")
	}

	log.Info().Msg("aplicación detenida")
}
