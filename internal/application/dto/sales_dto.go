package dto

import "github.com/jhoicas/stockledger-api/internal/domain/entity"

// DateLayout formato de las fechas de venta.
const DateLayout = "2006-01-02"

// RecordSaleRequest body para POST /api/sales.
type RecordSaleRequest struct {
	EventID   string `json:"event_id" validate:"omitempty,max=128"`
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int64  `json:"quantity" validate:"gt=0"`
}

// SalesSummaryQuery filtros de los resúmenes de venta.
type SalesSummaryQuery struct {
	Search     string `query:"search"`
	SupplierID string `query:"supplier_id" validate:"omitempty,uuid"`
}

// SalesRangeQuery rango de fechas (inclusive) sobre la fecha de la última venta.
type SalesRangeQuery struct {
	Search     string `query:"search"`
	SupplierID string `query:"supplier_id" validate:"omitempty,uuid"`
	From string `query:"from" validate:"required,datetime=2006-01-02"`
	To   string `query:"to" validate:"required,datetime=2006-01-02"`
}

// SalesAggregateResponse acumulado de ventas de un producto.
type SalesAggregateResponse struct {
	ID                string `json:"id"`
	ProductID         string `json:"product_id"`
	ProductName       string `json:"product_name"`
	SupplierID        string `json:"supplier_id"`
	SupplierName      string `json:"supplier_name"`
	TotalQuantitySold int64  `json:"total_quantity_sold"`
	LastSaleDate      string `json:"last_sale_date"`
}

// SalesAggregatePage página de acumulados.
type SalesAggregatePage struct {
	Items []SalesAggregateResponse `json:"items"`
	Page  PageResponse             `json:"page"`
}

// FromSalesAggregate convierte la entidad en respuesta.
func FromSalesAggregate(a *entity.SalesAggregate) SalesAggregateResponse {
	return SalesAggregateResponse{
		ID:                a.ID,
		ProductID:         a.ProductID,
		ProductName:       a.ProductName,
		SupplierID:        a.SupplierID,
		SupplierName:      a.SupplierName,
		TotalQuantitySold: a.TotalQuantitySold,
		LastSaleDate:      a.LastSaleDate.Format(DateLayout),
	}
}

// FromSalesAggregates convierte una lista.
func FromSalesAggregates(list []*entity.SalesAggregate) []SalesAggregateResponse {
	out := make([]SalesAggregateResponse, 0, len(list))
	for _, a := range list {
		out = append(out, FromSalesAggregate(a))
	}
	return out
}
