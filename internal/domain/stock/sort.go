package stock

import (
	"strings"

	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

// Campos de orden aceptados en la API.
const (
	SortQuantity  = "quantity"
	SortValue     = "value"
	SortProduct   = "product"
	SortSupplier  = "supplier"
	SortCreatedAt = "createdAt"
	SortUpdatedAt = "updatedAt"
)

var sortFields = map[string]Field{
	SortQuantity:  FieldQuantity,
	SortValue:     FieldUnitValue,
	SortProduct:   FieldProductName,
	SortSupplier:  FieldSupplierName,
	SortCreatedAt: FieldCreatedAt,
	SortUpdatedAt: FieldUpdatedAt,
}

// Sort especificación de orden; el desempate es siempre por id ascendente.
type Sort struct {
	Field Field
	Desc  bool
}

// ParseSort resuelve el campo y la dirección. Campo vacío = quantity; dirección distinta de "desc" = ascendente.
func ParseSort(field, direction string) (Sort, error) {
	if field == "" {
		field = SortQuantity
	}
	f, ok := sortFields[field]
	if !ok {
		return Sort{}, domain.ErrInvalidQuery
	}
	return Sort{Field: f, Desc: strings.EqualFold(direction, "desc")}, nil
}

// Less orden en memoria equivalente al ORDER BY del almacén.
func (s Sort) Less(a, b *entity.StockLot) bool {
	c := compareField(s.Field, a, b)
	if c == 0 {
		return a.ID < b.ID
	}
	if s.Desc {
		return c > 0
	}
	return c < 0
}

func compareField(f Field, a, b *entity.StockLot) int {
	switch f {
	case FieldQuantity:
		return cmpInt(a.Quantity, b.Quantity)
	case FieldUnitValue:
		return a.UnitValue.Cmp(b.UnitValue)
	case FieldProductName:
		return strings.Compare(a.ProductName, b.ProductName)
	case FieldSupplierName:
		return strings.Compare(a.SupplierName, b.SupplierName)
	case FieldCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case FieldUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	}
	return 0
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
