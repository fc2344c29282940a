package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
	"github.com/jhoicas/stockledger-api/internal/domain/stock"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/memory"
)

func seeded(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Suppliers().Create(ctx, &entity.Supplier{ID: "s1", Name: "Molinos"}))
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p1", Name: "Harina", SupplierID: "s1", UnallocatedQuantity: 10}))
	return s
}

func TestStore_RunConfirma(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	err := s.Run(ctx, func(products repository.ProductRepository, lots repository.StockLotRepository, _ repository.SalesAggregateRepository) error {
		if err := products.UpdateUnallocated(ctx, "p1", 7); err != nil {
			return err
		}
		return lots.Create(ctx, &entity.StockLot{ID: "l1", ProductID: "p1", Quantity: 3, UnitValue: decimal.NewFromInt(2), Available: true})
	})
	require.NoError(t, err)

	p, err := s.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.UnallocatedQuantity)
	lot, err := s.StockLots().GetByID(ctx, "l1")
	require.NoError(t, err)
	require.NotNil(t, lot)
	assert.Equal(t, "Harina", lot.ProductName)
	assert.Equal(t, "Molinos", lot.SupplierName)
}

func TestStore_RunDescartaAnteError(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Run(ctx, func(products repository.ProductRepository, lots repository.StockLotRepository, _ repository.SalesAggregateRepository) error {
		require.NoError(t, products.UpdateUnallocated(ctx, "p1", 0))
		require.NoError(t, lots.Create(ctx, &entity.StockLot{ID: "l1", ProductID: "p1", Quantity: 10}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, _ := s.Products().GetByID(ctx, "p1")
	assert.Equal(t, int64(10), p.UnallocatedQuantity)
	lot, _ := s.StockLots().GetByID(ctx, "l1")
	assert.Nil(t, lot)
}

func TestStore_RunDescartaSiSeCancela(t *testing.T) {
	s := seeded(t)
	ctx, cancel := context.WithCancel(context.Background())

	err := s.Run(ctx, func(products repository.ProductRepository, _ repository.StockLotRepository, _ repository.SalesAggregateRepository) error {
		require.NoError(t, products.UpdateUnallocated(ctx, "p1", 1))
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	p, _ := s.Products().GetByID(context.Background(), "p1")
	assert.Equal(t, int64(10), p.UnallocatedQuantity)
}

func TestRepos_Restricciones(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.Products().Create(ctx, &entity.Product{ID: "p1", SupplierID: "s1"}), domain.ErrDuplicate)
	assert.ErrorIs(t, s.Products().Create(ctx, &entity.Product{ID: "p2", SupplierID: "nadie"}), domain.ErrNotFound)
	assert.ErrorIs(t, s.Products().UpdateUnallocated(ctx, "p1", -1), domain.ErrInsufficientSupply)
	assert.ErrorIs(t, s.StockLots().Create(ctx, &entity.StockLot{ID: "l", ProductID: "px"}), domain.ErrNotFound)
	assert.ErrorIs(t, s.StockLots().Delete(ctx, "no"), domain.ErrNotFound)
}

func TestStockLotRepo_FindPagina(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	for i, q := range []int64{5, 1, 3} {
		require.NoError(t, s.StockLots().Create(ctx, &entity.StockLot{
			ID: string(rune('a' + i)), ProductID: "p1", Quantity: q, UnitValue: decimal.NewFromInt(1),
		}))
	}
	order, err := stock.ParseSort(stock.SortQuantity, "desc")
	require.NoError(t, err)

	lots, total, err := s.StockLots().Find(ctx, repository.StockLotQuery{Where: stock.True(), Sort: order, Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, lots, 2)
	assert.Equal(t, int64(3), lots[0].Quantity)
	assert.Equal(t, int64(1), lots[1].Quantity)

	lots, _, err = s.StockLots().Find(ctx, repository.StockLotQuery{Where: stock.True(), Sort: order, Limit: 2, Offset: 5})
	require.NoError(t, err)
	assert.Empty(t, lots)
}
