package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
	"github.com/jhoicas/stockledger-api/internal/domain/stock"
)

var _ repository.StockLotRepository = (*StockLotRepo)(nil)

// StockLotRepo lotes en memoria.
type StockLotRepo struct {
	at access
}

// Create inserta el lote; el producto debe existir.
func (r *StockLotRepo) Create(_ context.Context, l *entity.StockLot) error {
	var err error
	r.at(func(st *state) {
		if _, ok := st.products[l.ProductID]; !ok {
			err = domain.ErrNotFound
			return
		}
		if _, ok := st.lots[l.ID]; ok {
			err = domain.ErrDuplicate
			return
		}
		st.lots[l.ID] = stored(l)
	})
	return err
}

// GetByID obtiene un lote con los datos de producto y proveedor.
func (r *StockLotRepo) GetByID(_ context.Context, id string) (*entity.StockLot, error) {
	var out *entity.StockLot
	r.at(func(st *state) {
		if l, ok := st.lots[id]; ok {
			out = st.enrich(l)
		}
	})
	return out, nil
}

// GetForUpdate equivale a GetByID dentro de la transacción exclusiva.
func (r *StockLotRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockLot, error) {
	return r.GetByID(ctx, id)
}

// Update reemplaza cantidad, valor, producto y disponibilidad del lote.
func (r *StockLotRepo) Update(_ context.Context, l *entity.StockLot) error {
	var err error
	r.at(func(st *state) {
		if _, ok := st.lots[l.ID]; !ok {
			err = domain.ErrNotFound
			return
		}
		if _, ok := st.products[l.ProductID]; !ok {
			err = domain.ErrNotFound
			return
		}
		st.lots[l.ID] = stored(l)
	})
	return err
}

// Delete elimina el lote.
func (r *StockLotRepo) Delete(_ context.Context, id string) error {
	var err error
	r.at(func(st *state) {
		if _, ok := st.lots[id]; !ok {
			err = domain.ErrNotFound
			return
		}
		delete(st.lots, id)
	})
	return err
}

// Find filtra con Predicate.Match, ordena con Sort.Less y pagina.
func (r *StockLotRepo) Find(_ context.Context, q repository.StockLotQuery) ([]*entity.StockLot, int64, error) {
	var matched []*entity.StockLot
	r.at(func(st *state) {
		for _, l := range st.lots {
			e := st.enrich(l)
			if q.Where.Match(e) {
				matched = append(matched, e)
			}
		}
	})
	sort.SliceStable(matched, func(i, j int) bool { return q.Sort.Less(matched[i], matched[j]) })

	total := int64(len(matched))
	return paginate(matched, q.Limit, q.Offset), total, nil
}

// MaxQuantity mayor cantidad registrada.
func (r *StockLotRepo) MaxQuantity(_ context.Context) (int64, error) {
	var max int64
	r.at(func(st *state) {
		for _, l := range st.lots {
			if l.Quantity > max {
				max = l.Quantity
			}
		}
	})
	return max, nil
}

// MaxValue mayor valor unitario registrado.
func (r *StockLotRepo) MaxValue(_ context.Context) (decimal.Decimal, error) {
	max := decimal.Zero
	r.at(func(st *state) {
		for _, l := range st.lots {
			if l.UnitValue.GreaterThan(max) {
				max = l.UnitValue
			}
		}
	})
	return max, nil
}

// Summary clasifica todos los lotes para el umbral.
func (r *StockLotRepo) Summary(_ context.Context, threshold int64) (*stock.Summary, error) {
	sum := &stock.Summary{Threshold: threshold}
	r.at(func(st *state) {
		for _, l := range st.lots {
			sum.Classify(l.Quantity, l.UnitValue)
		}
	})
	return sum, nil
}

// stored quita los campos de join antes de guardar.
func stored(l *entity.StockLot) entity.StockLot {
	c := *l
	c.ProductName, c.SupplierID, c.SupplierName = "", "", ""
	return c
}

func (st *state) enrich(l entity.StockLot) *entity.StockLot {
	if p := st.product(l.ProductID); p != nil {
		l.ProductName, l.SupplierID, l.SupplierName = p.Name, p.SupplierID, p.SupplierName
	}
	return &l
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
