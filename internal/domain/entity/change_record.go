package entity

import "time"

// OperationType tipo de cambio auditado.
type OperationType string

const (
	OperationCreate OperationType = "CREATE"
	OperationUpdate OperationType = "UPDATE"
	OperationDelete OperationType = "DELETE"
)

// Entidades auditadas.
const (
	EntityStock          = "Stock"
	EntitySalesAggregate = "SalesAggregate"
)

// ChangeRecord registro de auditoría con las instantáneas antes/después de una mutación.
type ChangeRecord struct {
	ID        string        `json:"id"`
	Entity    string        `json:"entity"`
	EntityID  string        `json:"entityId"`
	Operation OperationType `json:"operationType"`
	Before    any           `json:"oldValue,omitempty"`
	After     any           `json:"newValue,omitempty"`
	Details   string        `json:"details,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}
