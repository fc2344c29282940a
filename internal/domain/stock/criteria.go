package stock

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockledger-api/internal/domain"
)

// Criteria criterios opcionales de búsqueda de lotes. Un criterio vacío no restringe.
type Criteria struct {
	Query       string
	SupplierID  string
	ProductID   string
	MinQuantity *int64
	MaxQuantity *int64
	MinValue    *decimal.Decimal
	MaxValue    *decimal.Decimal
}

// Predicate valida los rangos y compone la conjunción de los criterios presentes.
func (c Criteria) Predicate() (Predicate, error) {
	if c.MinQuantity != nil && *c.MinQuantity < 0 || c.MaxQuantity != nil && *c.MaxQuantity < 0 {
		return Predicate{}, domain.ErrInvalidInput
	}
	if c.MinQuantity != nil && c.MaxQuantity != nil && *c.MinQuantity > *c.MaxQuantity {
		return Predicate{}, domain.ErrInvalidInput
	}
	if c.MinValue != nil && c.MinValue.IsNegative() || c.MaxValue != nil && c.MaxValue.IsNegative() {
		return Predicate{}, domain.ErrInvalidInput
	}
	if c.MinValue != nil && c.MaxValue != nil && c.MinValue.GreaterThan(*c.MaxValue) {
		return Predicate{}, domain.ErrInvalidInput
	}
	return And(
		TextContains(c.Query),
		SupplierIs(c.SupplierID),
		ProductIs(c.ProductID),
		QuantityBetween(c.MinQuantity, c.MaxQuantity),
		ValueBetween(c.MinValue, c.MaxValue),
	), nil
}
