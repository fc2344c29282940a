package entity

import "time"

// SalesAggregate total acumulado de ventas de un producto (uno por producto).
type SalesAggregate struct {
	ID                string
	ProductID         string
	TotalQuantitySold int64
	LastSaleDate      time.Time // solo fecha (00:00 UTC)

	ProductName  string
	SupplierID   string
	SupplierName string
}

// SaleEvent venta individual recibida del colaborador de ventas.
// EventID es opcional; si viene, el evento se procesa como máximo una vez.
type SaleEvent struct {
	EventID   string    `json:"event_id,omitempty"`
	ProductID string    `json:"product_id"`
	Quantity  int64     `json:"quantity"`
	SoldAt    time.Time `json:"sold_at,omitempty"`
}
