package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
)

var _ repository.SalesAggregateRepository = (*SalesAggregateRepo)(nil)

// SalesAggregateRepo acumulados de venta en memoria, uno por producto.
type SalesAggregateRepo struct {
	at access
}

// GetByProductForUpdate obtiene el acumulado del producto o nil.
func (r *SalesAggregateRepo) GetByProductForUpdate(_ context.Context, productID string) (*entity.SalesAggregate, error) {
	var out *entity.SalesAggregate
	r.at(func(st *state) {
		if a, ok := st.sales[productID]; ok {
			out = st.enrichSale(a)
		}
	})
	return out, nil
}

// Create inserta el acumulado; falla si el producto ya tiene uno.
func (r *SalesAggregateRepo) Create(_ context.Context, a *entity.SalesAggregate) error {
	var err error
	r.at(func(st *state) {
		if _, ok := st.sales[a.ProductID]; ok {
			err = domain.ErrDuplicate
			return
		}
		st.sales[a.ProductID] = *a
	})
	return err
}

// Update reemplaza total y fecha de última venta.
func (r *SalesAggregateRepo) Update(_ context.Context, a *entity.SalesAggregate) error {
	var err error
	r.at(func(st *state) {
		if _, ok := st.sales[a.ProductID]; !ok {
			err = domain.ErrNotFound
			return
		}
		st.sales[a.ProductID] = *a
	})
	return err
}

// Find filtra por nombre de producto, proveedor y rango de LastSaleDate; ordena por total vendido.
func (r *SalesAggregateRepo) Find(_ context.Context, q repository.SalesAggregateQuery) ([]*entity.SalesAggregate, int64, error) {
	search := strings.ToLower(q.Search)
	var matched []*entity.SalesAggregate
	r.at(func(st *state) {
		for _, a := range st.sales {
			e := st.enrichSale(a)
			if search != "" && !strings.Contains(strings.ToLower(e.ProductName), search) {
				continue
			}
			if q.SupplierID != "" && e.SupplierID != q.SupplierID {
				continue
			}
			if q.From != nil && e.LastSaleDate.Before(*q.From) {
				continue
			}
			if q.To != nil && e.LastSaleDate.After(*q.To) {
				continue
			}
			matched = append(matched, e)
		}
	})
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.TotalQuantitySold == b.TotalQuantitySold {
			return a.ProductID < b.ProductID
		}
		if q.Desc {
			return a.TotalQuantitySold > b.TotalQuantitySold
		}
		return a.TotalQuantitySold < b.TotalQuantitySold
	})
	return paginate(matched, q.Limit, q.Offset), int64(len(matched)), nil
}

func (st *state) enrichSale(a entity.SalesAggregate) *entity.SalesAggregate {
	if p := st.product(a.ProductID); p != nil {
		a.ProductName, a.SupplierID, a.SupplierName = p.Name, p.SupplierID, p.SupplierName
	}
	return &a
}
