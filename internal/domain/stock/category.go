package stock

import "github.com/jhoicas/stockledger-api/internal/domain"

// DefaultThreshold umbral por defecto de los reportes y del resumen.
const DefaultThreshold int64 = 5

// Category categoría de nivel de stock.
type Category string

const (
	CategoryOutOfStock Category = "out-of-stock"
	CategoryCritical   Category = "critical"
	CategoryLow        Category = "low"
	CategoryAdequate   Category = "adequate"
)

// ParseCategory valida el nombre de la categoría.
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryOutOfStock, CategoryCritical, CategoryLow, CategoryAdequate:
		return c, nil
	}
	return "", domain.ErrInvalidQuery
}

// Predicate restricción de la categoría para el umbral dado:
// out-of-stock q == 0, critical q <= t, low 1 <= q < t, adequate q >= t.
// critical y low pueden solaparse; elegir umbrales disjuntos es responsabilidad del llamador.
func (c Category) Predicate(threshold int64) (Predicate, error) {
	if threshold < 0 {
		return Predicate{}, domain.ErrInvalidInput
	}
	switch c {
	case CategoryOutOfStock:
		return QuantityEquals(0), nil
	case CategoryCritical:
		return QuantityAtMost(threshold), nil
	case CategoryLow:
		if threshold <= 1 {
			return Never(), nil
		}
		lo, hi := int64(1), threshold-1
		return QuantityBetween(&lo, &hi), nil
	case CategoryAdequate:
		return QuantityAtLeast(threshold), nil
	}
	return Predicate{}, domain.ErrInvalidQuery
}
