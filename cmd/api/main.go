package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/stockledger-api/internal/application/inventory"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/audit"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/idempotency"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/stockledger-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/postgres/migrations"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/seed"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/telemetry"
	httpRouter "github.com/jhoicas/stockledger-api/internal/interfaces/http"
	"github.com/jhoicas/stockledger-api/internal/interfaces/messaging"
	"github.com/jhoicas/stockledger-api/pkg/config"
	"github.com/jhoicas/stockledger-api/pkg/logger"
)

// persistence agrupa el TxRunner y los repositorios de lectura del driver elegido.
type persistence struct {
	tx      inventory.TxRunner
	lots    repository.StockLotRepository
	sales   repository.SalesAggregateRepository
	closeFn func()
}

type idempotencyStore interface {
	inventory.IdempotencyStore
	io.Closer
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
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:       cfg.Telemetry.Enabled,
		Endpoint:      cfg.Telemetry.Endpoint,
		Insecure:      cfg.Telemetry.Insecure,
		SamplingRatio: cfg.Telemetry.SamplingRatio,
		ServiceName:   cfg.App.Name,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar telemetría")
	}

	store, err := openPersistence(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar persistencia")
	}
	defer store.closeFn()

	sink, err := newAuditSink(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar sink de auditoría")
	}
	emitter := audit.NewAsyncEmitter(sink, cfg.Audit.BufferSize)

	idem, err := newIdempotencyStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacén de idempotencia")
	}
	defer idem.Close()

	ledgerUC := inventory.NewStockLedgerUseCase(store.tx, store.lots, emitter, cfg.Ledger.MaxAttempts)
	reportUC := inventory.NewStockReportUseCase(store.lots, infrapdf.NewMarotoPDFGenerator())
	salesUC := inventory.NewSalesAggregatorUseCase(store.tx, store.sales, idem, emitter, cfg.Ledger.MaxAttempts)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:           ledgerUC,
		Reports:          reportUC,
		Sales:            salesUC,
		DefaultThreshold: cfg.Report.DefaultThreshold,
		JWTSecret:        cfg.JWT.Secret,
		JWTIssuer:        cfg.JWT.Issuer,
	})

	consumerCtx, stopConsumer := context.WithCancel(ctx)
	consumerDone := make(chan struct{})
	var consumer *messaging.SaleConsumer
	if cfg.Sales.ConsumerEnabled {
		consumer = messaging.NewSaleConsumer(
			messaging.NewKafkaReader(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.SalesTopic),
			salesUC,
		)
		go func() {
			defer close(consumerDone)
			if err := consumer.Start(consumerCtx); err != nil {
				log.Error().Err(err).Msg("consumidor de ventas finalizado")
			}
		}()
	} else {
		close(consumerDone)
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

	stopConsumer()
	<-consumerDone
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar consumidor de ventas")
		}
	}

	// La cola de auditoría se vacía después de que no quedan peticiones en curso.
	if err := emitter.Close(); err != nil {
		log.Error().Err(err).Msg("cerrar emisor de auditoría")
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado de telemetría")
	}

	log.Info().Msg("aplicación detenida")
}

func openPersistence(ctx context.Context, cfg *config.Config) (*persistence, error) {
	if cfg.Store.Driver == "memory" {
		store := memory.NewStore()
		if _, err := seed.Load(ctx, store.Suppliers(), store.Products()); err != nil {
			return nil, err
		}
		return &persistence{
			tx:      store,
			lots:    store.StockLots(),
			sales:   store.SalesAggregates(),
			closeFn: func() {},
		}, nil
	}

	if cfg.DB.AutoMigrate {
		if err := migrations.Up(cfg.DB.ConnectionString()); err != nil {
			return nil, err
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &persistence{
		tx:      postgres.NewTxRunner(pool),
		lots:    postgres.NewStockLotRepository(pool),
		sales:   postgres.NewSalesAggregateRepository(pool),
		closeFn: pool.Close,
	}, nil
}

func newAuditSink(cfg *config.Config) (audit.Sink, error) {
	switch cfg.Audit.Sink {
	case "kafka":
		return audit.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic), nil
	case "rabbitmq":
		return audit.NewRabbitMQSink(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.RoutingKey)
	default:
		return audit.LogSink{}, nil
	}
}

func newIdempotencyStore(ctx context.Context, cfg *config.Config) (idempotencyStore, error) {
	if cfg.Idempotency.Driver == "redis" {
		return idempotency.NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Idempotency.TTL)
	}
	return idempotency.NewMemoryStore(cfg.Idempotency.Size, cfg.Idempotency.TTL), nil
}
