// seed carga puntos Mudras y stock inicial desde un CSV (punto;tipo;articulo;cantidad).
//
// Uso: go run ./cmd/seed -file stock_inicial.csv [-latin1] [-sep ,]
// Toma la conexión de la misma configuración que el API (DATABASE_URL, STORAGE_DRIVER).
package main

import (
	"context"
	"flag"
	"os"
	"unicode/utf8"

	"github.com/mudras/stock-ledger/internal/application/inventory"
	"github.com/mudras/stock-ledger/internal/application/usecase"
	"github.com/mudras/stock-ledger/internal/infrastructure/postgres"
	"github.com/mudras/stock-ledger/pkg/config"
	"github.com/mudras/stock-ledger/pkg/logger"
)

func main() {
	file := flag.String("file", "stock_inicial.csv", "ruta del CSV")
	latin1 := flag.Bool("latin1", false, "el CSV viene en ISO-8859-1")
	sep := flag.String("sep", ";", "separador de campos")
	operator := flag.String("operator", "seed", "operador registrado en los movimientos")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "stock-ledger-seed"})

	comma, size := utf8.DecodeRuneInString(*sep)
	if size == 0 || size != len(*sep) {
		log.Fatal().Str("sep", *sep).Msg("el separador debe ser un único carácter")
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("abrir CSV")
	}
	defer f.Close()
	rows, err := readOpening(f, comma, *latin1)
	if err != nil {
		log.Fatal().Err(err).Msg("parsear CSV")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conectar a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}

	stocks := postgres.NewStockReader(pool)
	movements := postgres.NewMovementReader(pool)
	locationUC := usecase.NewLocationUseCase(postgres.NewLocationRepository(pool), stocks, movements)
	opts := inventory.Options{
		LockTimeout:   cfg.Ledger.LockTimeout,
		RetryAttempts: uint64(cfg.Ledger.RetryAttempts),
		RetryBase:     cfg.Ledger.RetryBase,
		RetryMax:      cfg.Ledger.RetryMax,
		Logger:        log.Component("ledger"),
	}
	adjustUC := inventory.NewAdjustStockUseCase(postgres.NewTxRunner(pool, cfg.Ledger.LockTimeout), locationUC, nil, opts)

	res, err := applyOpening(ctx, rows, locationUC, adjustUC, *operator)
	if err != nil {
		log.Fatal().Err(err).Int("ajustes_aplicados", res.Adjustments).Msg("cargar stock inicial")
	}
	log.Info().
		Int("filas", len(rows)).
		Int("puntos_creados", res.LocationsCreated).
		Int("ajustes", res.Adjustments).
		Msg("stock inicial cargado")
}
