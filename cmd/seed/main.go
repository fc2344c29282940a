// seed carga proveedores y productos de demostración en PostgreSQL.
//
// Uso: go run ./cmd/seed
// Aplica las migraciones pendientes antes de insertar. Se puede ejecutar varias veces.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/stockledger-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/postgres/migrations"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/seed"
	"github.com/jhoicas/stockledger-api/pkg/config"
	"github.com/jhoicas/stockledger-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	if err := migrations.Up(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	n, err := seed.Load(ctx, postgres.NewSupplierRepository(pool), postgres.NewProductRepository(pool))
	if err != nil {
		log.Error().Err(err).Msg("seed")
		return
	}
	log.Info().Int("productos", n).Msg("seed completado")
}
