package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLot representa un lote de stock asignado (vendible) de un único producto.
// Available se deriva de Quantity y lo escribe el ledger en cada mutación.
type StockLot struct {
	ID        string
	ProductID string
	Quantity  int64
	UnitValue decimal.Decimal
	Available bool
	CreatedAt time.Time
	UpdatedAt time.Time

	// Campos de solo lectura resueltos por join (producto y proveedor).
	ProductName  string
	SupplierID   string
	SupplierName string
}

// TotalValue cantidad * valor unitario.
func (l *StockLot) TotalValue() decimal.Decimal {
	return l.UnitValue.Mul(decimal.NewFromInt(l.Quantity))
}

// SameState compara los campos mutables del lote (cantidad, valor y producto).
func (l *StockLot) SameState(quantity int64, unitValue decimal.Decimal, productID string) bool {
	return l.Quantity == quantity && l.UnitValue.Equal(unitValue) && l.ProductID == productID
}
