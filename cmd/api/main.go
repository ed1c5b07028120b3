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

	"github.com/mudras/stock-ledger/internal/application/auth"
	"github.com/mudras/stock-ledger/internal/application/inventory"
	"github.com/mudras/stock-ledger/internal/application/usecase"
	"github.com/mudras/stock-ledger/internal/domain/repository"
	"github.com/mudras/stock-ledger/internal/infrastructure/memory"
	"github.com/mudras/stock-ledger/internal/infrastructure/metrics"
	infrapdf "github.com/mudras/stock-ledger/internal/infrastructure/pdf"
	"github.com/mudras/stock-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/mudras/stock-ledger/internal/interfaces/http"
	"github.com/mudras/stock-ledger/pkg/config"
	"github.com/mudras/stock-ledger/pkg/logger"
)

// storage agrupa lo que el libro necesita de un driver de almacenamiento.
type storage struct {
	txRunner  inventory.TxRunner
	stocks    repository.StockReader
	movements repository.MovementReader
	locations repository.LocationRepository
	operators repository.OperatorRepository
	close     func()
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
	store, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	var promMetrics *metrics.Metrics
	if cfg.Metrics.Enabled {
		promMetrics = metrics.New()
	}

	locker := inventory.NewKeyLocker(cfg.Ledger.LockTimeout)
	opts := inventory.Options{
		LockTimeout:   cfg.Ledger.LockTimeout,
		RetryAttempts: uint64(cfg.Ledger.RetryAttempts),
		RetryBase:     cfg.Ledger.RetryBase,
		RetryMax:      cfg.Ledger.RetryMax,
		Logger:        log.Component("ledger"),
	}
	if promMetrics != nil {
		opts.Metrics = promMetrics
	}

	locationUC := usecase.NewLocationUseCase(store.locations, store.stocks, store.movements)
	adjustUC := inventory.NewAdjustStockUseCase(store.txRunner, locationUC, locker, opts)
	transferUC := inventory.NewTransferStockUseCase(store.txRunner, locationUC, locker, opts)
	bulkUC := inventory.NewAssignBulkUseCase(store.txRunner, locationUC, locker, opts)
	queryUC := inventory.NewStockQueryUseCase(store.txRunner, locker, store.stocks, store.movements, locationUC)
	authUC := auth.NewAuthUseCase(store.operators, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if cfg.JWT.AdminEmail != "" && cfg.JWT.AdminPassword != "" {
		created, err := authUC.EnsureAdmin(ctx, cfg.JWT.AdminEmail, cfg.JWT.AdminPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("crear administrador inicial")
		}
		if created {
			log.Info().Str("email", cfg.JWT.AdminEmail).Msg("administrador inicial creado")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs (solo si existe el archivo)
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Mudras Stock Ledger API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AdjustUC:   adjustUC,
		TransferUC: transferUC,
		BulkUC:     bulkUC,
		QueryUC:    queryUC,
		LocationUC: locationUC,
		AuthUC:     authUC,
		Report:     infrapdf.NewMarotoPDFGenerator(),
		Metrics:    promMetrics,
		JWTSecret:  cfg.JWT.Secret,
		AppName:    cfg.App.Name,
		Logger:     log.Component("http"),
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

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	if cfg.DB.Driver == config.StorageDriverMemory {
		s := memory.NewStore()
		return &storage{
			txRunner:  s,
			stocks:    s.Stocks(),
			movements: s.Movements(),
			locations: s.Locations(),
			operators: s.Operators(),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return &storage{
		txRunner:  postgres.NewTxRunner(pool, cfg.Ledger.LockTimeout),
		stocks:    postgres.NewStockReader(pool),
		movements: postgres.NewMovementReader(pool),
		locations: postgres.NewLocationRepository(pool),
		operators: postgres.NewOperatorRepository(pool),
		close:     pool.Close,
	}, nil
}
