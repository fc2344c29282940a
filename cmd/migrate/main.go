// migrate aplica o revierte el esquema de PostgreSQL.
//
// Uso: go run ./cmd/migrate [up|down]
// Por defecto "up". La conexión sale de DATABASE_URL o DB_*.
package main

import (
	"fmt"
	"os"

	"github.com/jhoicas/stockledger-api/internal/infrastructure/postgres/migrations"
	"github.com/jhoicas/stockledger-api/pkg/config"
	"github.com/jhoicas/stockledger-api/pkg/logger"
)

func main() {
	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "migrate"})

	switch direction {
	case "up":
		err = migrations.Up(cfg.DB.ConnectionString())
	case "down":
		err = migrations.Down(cfg.DB.ConnectionString())
	default:
		fmt.Fprintf(os.Stderr, "Dirección desconocida %q (use up o down)\n", direction)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Migrar: %v\n", err)
		os.Exit(1)
	}
}
