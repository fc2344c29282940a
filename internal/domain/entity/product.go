package entity

import "time"

// Product representa un producto con su pool de cantidad no asignada.
// El ledger de stock solo modifica UnallocatedQuantity; el resto lo gestiona el catálogo externo.
type Product struct {
	ID                  string
	Name                string
	SupplierID          string
	SupplierName        string // solo lectura (join con suppliers)
	UnallocatedQuantity int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// CanAllocate indica si el pool no asignado cubre la cantidad pedida.
func (p *Product) CanAllocate(quantity int64) bool {
	return p.UnallocatedQuantity >= quantity
}
