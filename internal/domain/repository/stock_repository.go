package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/stock"
)

// StockLotQuery consulta filtrada, ordenada y paginada de lotes.
type StockLotQuery struct {
	Where  stock.Predicate
	Sort   stock.Sort
	Limit  int
	Offset int
}

// StockLotRepository define el puerto para lotes de stock.
// Usado dentro de transacciones para las mutaciones y fuera de ellas para lecturas.
type StockLotRepository interface {
	Create(ctx context.Context, lot *entity.StockLot) error
	GetByID(ctx context.Context, id string) (*entity.StockLot, error)
	GetForUpdate(ctx context.Context, id string) (*entity.StockLot, error)
	Update(ctx context.Context, lot *entity.StockLot) error
	Delete(ctx context.Context, id string) error
	// Find devuelve la página pedida y el total de lotes que cumplen el predicado.
	Find(ctx context.Context, q StockLotQuery) ([]*entity.StockLot, int64, error)
	MaxQuantity(ctx context.Context) (int64, error)
	MaxValue(ctx context.Context) (decimal.Decimal, error)
	Summary(ctx context.Context, threshold int64) (*stock.Summary, error)
}
