package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

// LotSnapshot instantánea serializable de un lote para los registros de auditoría.
type LotSnapshot struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName,omitempty"`
	SupplierName string          `json:"supplierName,omitempty"`
	Quantity     int64           `json:"quantity"`
	UnitValue    decimal.Decimal `json:"value"`
	Available    bool            `json:"available"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func snapshot(l *entity.StockLot) *LotSnapshot {
	return &LotSnapshot{
		ID:           l.ID,
		ProductID:    l.ProductID,
		ProductName:  l.ProductName,
		SupplierName: l.SupplierName,
		Quantity:     l.Quantity,
		UnitValue:    l.UnitValue,
		Available:    l.Available,
		UpdatedAt:    l.UpdatedAt,
	}
}
