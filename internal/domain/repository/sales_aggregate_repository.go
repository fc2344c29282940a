package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

// SalesAggregateQuery filtros del resumen de ventas. From/To filtran por LastSaleDate (inclusivo).
type SalesAggregateQuery struct {
	Search     string
	SupplierID string
	From       *time.Time
	To         *time.Time
	Desc       bool
	Limit      int
	Offset     int
}

// SalesAggregateRepository puerto de los acumulados de venta (único por producto).
type SalesAggregateRepository interface {
	GetByProductForUpdate(ctx context.Context, productID string) (*entity.SalesAggregate, error)
	Create(ctx context.Context, agg *entity.SalesAggregate) error
	Update(ctx context.Context, agg *entity.SalesAggregate) error
	Find(ctx context.Context, q SalesAggregateQuery) ([]*entity.SalesAggregate, int64, error)
}
