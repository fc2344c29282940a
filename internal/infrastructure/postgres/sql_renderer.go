package postgres

import (
	"strconv"

	"github.com/jhoicas/stockledger-api/internal/domain/stock"
)

// Alias de tablas usados en las consultas de lotes: s = stock_lots, p = products, sup = suppliers.
const lotSelect = `
	SELECT s.id, s.product_id, s.quantity, s.unit_value, s.available, s.created_at, s.updated_at,
	       p.name, p.supplier_id, sup.name
	FROM stock_lots s
	JOIN products p ON p.id = s.product_id
	JOIN suppliers sup ON sup.id = p.supplier_id`

var lotColumns = map[stock.Field]string{
	stock.FieldID:           "s.id",
	stock.FieldQuantity:     "s.quantity",
	stock.FieldUnitValue:    "s.unit_value",
	stock.FieldProductID:    "s.product_id",
	stock.FieldProductName:  "p.name",
	stock.FieldSupplierID:   "p.supplier_id",
	stock.FieldSupplierName: "sup.name",
	stock.FieldCreatedAt:    "s.created_at",
	stock.FieldUpdatedAt:    "s.updated_at",
}

// sqlRenderer acumula argumentos posicionales ($1, $2, ...) mientras se traduce un predicado.
type sqlRenderer struct {
	args []any
}

func (r *sqlRenderer) Column(f stock.Field) string { return lotColumns[f] }

func (r *sqlRenderer) Arg(v any) string {
	r.args = append(r.args, v)
	return "$" + strconv.Itoa(len(r.args))
}

func (r *sqlRenderer) where(p stock.Predicate) string {
	if cond := p.Render(r); cond != "" {
		return " WHERE " + cond
	}
	return ""
}

func (r *sqlRenderer) orderBy(s stock.Sort) string {
	dir := " ASC"
	if s.Desc {
		dir = " DESC"
	}
	return " ORDER BY " + r.Column(s.Field) + dir + ", s.id ASC"
}
