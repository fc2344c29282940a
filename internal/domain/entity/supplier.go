package entity

// Supplier proveedor de productos (solo lectura desde el ledger).
type Supplier struct {
	ID   string
	Name string
}
