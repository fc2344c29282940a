package postgres_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/stockledger-api/internal/application/inventory"
	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/stock"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/idempotency"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/postgres/migrations"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/seed"
	"github.com/jhoicas/stockledger-api/pkg/config"
)

var (
	arroz    = seed.ID("Molinos del Valle/Arroz blanco 500g")
	garbanzo = seed.ID("Granos Andinos/Garbanzo 500g")
	lenteja  = seed.ID("Granos Andinos/Lenteja 500g")
	andinos  = seed.ID("Granos Andinos")
)

// newTestPool levanta PostgreSQL en un contenedor, aplica migraciones y carga el catálogo demo.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("integración con PostgreSQL omitida en modo -short")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("stockledger_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "iniciar contenedor PostgreSQL")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, migrations.Up(dsn))

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 20})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = seed.Load(ctx, postgres.NewSupplierRepository(pool), postgres.NewProductRepository(pool))
	require.NoError(t, err)
	return pool
}

func unallocated(t *testing.T, pool *pgxpool.Pool, id string) int64 {
	t.Helper()
	p, err := postgres.NewProductRepository(pool).GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.UnallocatedQuantity
}

func TestPostgres_Ledger(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	ledger := inventory.NewStockLedgerUseCase(postgres.NewTxRunner(pool), postgres.NewStockLotRepository(pool), nil, inventory.DefaultMaxAttempts)

	t.Run("asignaciones concurrentes no sobreasignan", func(t *testing.T) {
		var ok atomic.Int64
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := ledger.Allocate(ctx, inventory.AllocateInput{ProductID: garbanzo, Quantity: 1, UnitValue: decimal.NewFromInt(3)})
				if err == nil {
					ok.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int64(5), ok.Load())
		assert.Zero(t, unallocated(t, pool, garbanzo))
	})

	t.Run("reasignación transfiere entre productos", func(t *testing.T) {
		lot, err := ledger.Allocate(ctx, inventory.AllocateInput{ProductID: arroz, Quantity: 200, UnitValue: decimal.RequireFromString("2.50")})
		require.NoError(t, err)
		assert.Equal(t, int64(1000), unallocated(t, pool, arroz))

		moved, err := ledger.Adjust(ctx, inventory.AdjustInput{LotID: lot.ID, ProductID: lenteja, Quantity: 50, UnitValue: decimal.RequireFromString("4.10")})
		require.NoError(t, err)
		assert.Equal(t, "Lenteja 500g", moved.ProductName)
		assert.Equal(t, int64(1200), unallocated(t, pool, arroz))
		assert.Equal(t, int64(350), unallocated(t, pool, lenteja))

		got, err := ledger.Get(ctx, lot.ID)
		require.NoError(t, err)
		assert.True(t, got.UnitValue.Equal(decimal.RequireFromString("4.10")))
		assert.Equal(t, "Granos Andinos", got.SupplierName)

		_, err = ledger.Adjust(ctx, inventory.AdjustInput{LotID: lot.ID, ProductID: garbanzo, Quantity: 1, UnitValue: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, domain.ErrInsufficientSupply)
	})

	t.Run("búsqueda y orden en SQL", func(t *testing.T) {
		minQ := int64(10)
		lots, total, err := ledger.Search(ctx, stock.Criteria{Query: "ANDINOS", MinQuantity: &minQ}, inventory.ListParams{SortBy: stock.SortValue, SortDirection: "desc"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, lots, 1)
		assert.Equal(t, lenteja, lots[0].ProductID)

		_, total, err = ledger.ListBySupplier(ctx, andinos, inventory.ListParams{})
		require.NoError(t, err)
		assert.Equal(t, int64(6), total)

		maxQ, err := ledger.MaxQuantity(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(50), maxQ)
	})

	t.Run("remove retira la cantidad", func(t *testing.T) {
		lot, err := ledger.Allocate(ctx, inventory.AllocateInput{ProductID: arroz, Quantity: 10, UnitValue: decimal.NewFromInt(1)})
		require.NoError(t, err)
		require.NoError(t, ledger.Remove(ctx, lot.ID))
		assert.Equal(t, int64(1190), unallocated(t, pool, arroz))
		_, err = ledger.Get(ctx, lot.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("resumen por categoría", func(t *testing.T) {
		reports := inventory.NewStockReportUseCase(postgres.NewStockLotRepository(pool), nil)
		sum, err := reports.Summary(ctx, stock.DefaultThreshold)
		require.NoError(t, err)
		assert.Equal(t, int64(6), sum.TotalLots)
		assert.Equal(t, int64(5), sum.Low)
		assert.Equal(t, int64(1), sum.Adequate)

		lots, total, err := reports.Low(ctx, stock.DefaultThreshold, inventory.ReportFilter{}, inventory.ListParams{})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		assert.Len(t, lots, 5)
	})
}

func TestPostgres_Sales(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	sales := inventory.NewSalesAggregatorUseCase(
		postgres.NewTxRunner(pool),
		postgres.NewSalesAggregateRepository(pool),
		idempotency.NewMemoryStore(100, time.Hour),
		nil,
		inventory.DefaultMaxAttempts,
	)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := sales.RecordSale(ctx, entity.SaleEvent{ProductID: lenteja, Quantity: 2})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	_, err := sales.RecordSale(ctx, entity.SaleEvent{ProductID: arroz, Quantity: 7})
	require.NoError(t, err)

	items, total, err := sales.SummaryByProductAndSupplier(ctx, "", "", inventory.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, lenteja, items[0].ProductID)
	assert.Equal(t, int64(20), items[0].TotalQuantitySold)

	now := time.Now()
	_, total, err = sales.SummaryByDateRange(ctx, "arroz", "", now.AddDate(0, 0, -1), now.AddDate(0, 0, 1), inventory.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, err = sales.RecordSale(ctx, entity.SaleEvent{ProductID: "no-es-uuid", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
