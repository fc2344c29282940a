package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository  = (*ProductRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
)

// ProductRepo productos en memoria.
type ProductRepo struct {
	at access
}

// Create inserta un producto; el proveedor debe existir.
func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	var err error
	r.at(func(st *state) {
		if _, ok := st.products[p.ID]; ok {
			err = domain.ErrDuplicate
			return
		}
		if _, ok := st.suppliers[p.SupplierID]; !ok {
			err = fmt.Errorf("create product: proveedor %s: %w", p.SupplierID, domain.ErrNotFound)
			return
		}
		if p.UnallocatedQuantity < 0 {
			err = domain.ErrInvalidInput
			return
		}
		st.products[p.ID] = *p
	})
	return err
}

// GetByID obtiene un producto con el nombre de su proveedor.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.at(func(st *state) {
		out = st.product(id)
	})
	return out, nil
}

// GetForUpdate en memoria equivale a GetByID: la transacción ya es exclusiva.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// UpdateUnallocated fija el pool no asignado; rechaza valores negativos.
func (r *ProductRepo) UpdateUnallocated(_ context.Context, id string, quantity int64) error {
	var err error
	r.at(func(st *state) {
		p, ok := st.products[id]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		if quantity < 0 {
			err = domain.ErrInsufficientSupply
			return
		}
		p.UnallocatedQuantity = quantity
		st.products[id] = p
	})
	return err
}

// SupplierRepo proveedores en memoria.
type SupplierRepo struct {
	at access
}

// Create inserta un proveedor.
func (r *SupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	var err error
	r.at(func(st *state) {
		if _, ok := st.suppliers[s.ID]; ok {
			err = domain.ErrDuplicate
			return
		}
		st.suppliers[s.ID] = *s
	})
	return err
}

// GetByID obtiene un proveedor.
func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	r.at(func(st *state) {
		if s, ok := st.suppliers[id]; ok {
			out = &s
		}
	})
	return out, nil
}

func (st *state) product(id string) *entity.Product {
	p, ok := st.products[id]
	if !ok {
		return nil
	}
	p.SupplierName = st.suppliers[p.SupplierID].Name
	return &p
}
