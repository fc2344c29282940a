package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/stock"
)

// AllocateStockRequest body para POST /api/stock.
type AllocateStockRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int64           `json:"quantity" validate:"min=0"`
	UnitValue decimal.Decimal `json:"unit_value"`
}

// AdjustStockRequest body para PUT /api/stock/:id. Un product_id distinto reasigna el lote.
type AdjustStockRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int64           `json:"quantity" validate:"min=0"`
	UnitValue decimal.Decimal `json:"unit_value"`
}

// StockSearchQuery filtros de GET /api/stock/search. Los rangos llegan como texto y se validan al convertir.
type StockSearchQuery struct {
	Query       string `query:"q"`
	SupplierID  string `query:"supplier_id" validate:"omitempty,uuid"`
	ProductID   string `query:"product_id" validate:"omitempty,uuid"`
	MinQuantity string `query:"min_quantity" validate:"omitempty,number"`
	MaxQuantity string `query:"max_quantity" validate:"omitempty,number"`
	MinValue    string `query:"min_value" validate:"omitempty,numeric"`
	MaxValue    string `query:"max_value" validate:"omitempty,numeric"`
}

// ReportQuery filtros comunes de los reportes de stock. Sin threshold se usa el umbral configurado.
type ReportQuery struct {
	Query      string `query:"q"`
	SupplierID string `query:"supplier_id" validate:"omitempty,uuid"`
	Threshold  string `query:"threshold" validate:"omitempty,number"`
}

// StockLotResponse representación de un lote.
type StockLotResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	SupplierID   string          `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	Quantity     int64           `json:"quantity"`
	UnitValue    decimal.Decimal `json:"unit_value"`
	TotalValue   decimal.Decimal `json:"total_value"`
	Available    bool            `json:"available"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// StockLotPage página de lotes.
type StockLotPage struct {
	Items []StockLotResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// MaxValueResponse respuesta de los máximos.
type MaxValueResponse struct {
	Max any `json:"max"`
}

// StockSummaryResponse conteos por categoría y valorización.
type StockSummaryResponse struct {
	Threshold        int64           `json:"threshold"`
	TotalLots        int64           `json:"total_lots"`
	OutOfStock       int64           `json:"out_of_stock"`
	Low              int64           `json:"low"`
	Adequate         int64           `json:"adequate"`
	TotalQuantity    int64           `json:"total_quantity"`
	TotalValue       decimal.Decimal `json:"total_value"`
	AverageUnitValue decimal.Decimal `json:"average_unit_value"`
}

// FromStockLot convierte la entidad en respuesta.
func FromStockLot(l *entity.StockLot) StockLotResponse {
	return StockLotResponse{
		ID:           l.ID,
		ProductID:    l.ProductID,
		ProductName:  l.ProductName,
		SupplierID:   l.SupplierID,
		SupplierName: l.SupplierName,
		Quantity:     l.Quantity,
		UnitValue:    l.UnitValue,
		TotalValue:   l.TotalValue(),
		Available:    l.Available,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

// NewStockLotPage arma la página de respuesta.
func NewStockLotPage(lots []*entity.StockLot, p PageRequest, total int64) StockLotPage {
	items := make([]StockLotResponse, 0, len(lots))
	for _, l := range lots {
		items = append(items, FromStockLot(l))
	}
	return StockLotPage{Items: items, Page: NewPageResponse(p, total)}
}

// FromSummary convierte el resumen de dominio.
func FromSummary(s *stock.Summary) StockSummaryResponse {
	return StockSummaryResponse{
		Threshold:        s.Threshold,
		TotalLots:        s.TotalLots,
		OutOfStock:       s.OutOfStock,
		Low:              s.Low,
		Adequate:         s.Adequate,
		TotalQuantity:    s.Valuation.Quantity,
		TotalValue:       s.Valuation.TotalValue,
		AverageUnitValue: s.Valuation.AverageUnitValue,
	}
}
