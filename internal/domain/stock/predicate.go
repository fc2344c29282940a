// Package stock contiene los servicios de dominio para consultar lotes de stock:
// predicados componibles, criterios de filtro, orden y categorías por umbral.
//
// Un Predicate se evalúa en memoria (Match) y se traduce a un fragmento SQL
// parametrizado (Render), de modo que todos los almacenes comparten la misma definición.
package stock

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

// Field campo lógico de un lote sobre el que opera un predicado u orden.
type Field int

const (
	FieldQuantity Field = iota
	FieldUnitValue
	FieldProductID
	FieldProductName
	FieldSupplierID
	FieldSupplierName
	FieldCreatedAt
	FieldUpdatedAt
	FieldID
)

// Renderer traduce campos y argumentos al dialecto del almacén.
// Arg registra el valor y devuelve su placeholder.
type Renderer interface {
	Column(f Field) string
	Arg(v any) string
}

// Predicate condición sobre StockLot. El valor cero es el predicado siempre verdadero.
type Predicate struct {
	match  func(l *entity.StockLot) bool
	render func(r Renderer) string
}

// True predicado sin restricción.
func True() Predicate { return Predicate{} }

// Never predicado que no acepta ningún lote.
func Never() Predicate {
	return Predicate{
		match:  func(*entity.StockLot) bool { return false },
		render: func(Renderer) string { return "1 = 0" },
	}
}

// IsTrue indica si el predicado no impone restricción.
func (p Predicate) IsTrue() bool { return p.match == nil }

// Match evalúa el predicado sobre un lote.
func (p Predicate) Match(l *entity.StockLot) bool {
	if p.match == nil {
		return true
	}
	return p.match(l)
}

// Render devuelve el fragmento WHERE ("" si no hay restricción).
func (p Predicate) Render(r Renderer) string {
	if p.render == nil {
		return ""
	}
	return p.render(r)
}

// And conjunción de predicados; los siempre verdaderos se descartan.
func And(ps ...Predicate) Predicate {
	active := make([]Predicate, 0, len(ps))
	for _, p := range ps {
		if !p.IsTrue() {
			active = append(active, p)
		}
	}
	switch len(active) {
	case 0:
		return True()
	case 1:
		return active[0]
	}
	return Predicate{
		match: func(l *entity.StockLot) bool {
			for _, p := range active {
				if !p.match(l) {
					return false
				}
			}
			return true
		},
		render: func(r Renderer) string {
			parts := make([]string, 0, len(active))
			for _, p := range active {
				parts = append(parts, p.render(r))
			}
			return "(" + strings.Join(parts, " AND ") + ")"
		},
	}
}

// TextContains coincidencia sin distinguir mayúsculas sobre el nombre del producto o del proveedor.
func TextContains(q string) Predicate {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return True()
	}
	return Predicate{
		match: func(l *entity.StockLot) bool {
			return strings.Contains(strings.ToLower(l.ProductName), q) ||
				strings.Contains(strings.ToLower(l.SupplierName), q)
		},
		render: func(r Renderer) string {
			ph := r.Arg("%" + escapeLike(q) + "%")
			return "(LOWER(" + r.Column(FieldProductName) + ") LIKE " + ph +
				" OR LOWER(" + r.Column(FieldSupplierName) + ") LIKE " + ph + ")"
		},
	}
}

// SupplierIs lotes cuyo producto pertenece al proveedor.
func SupplierIs(supplierID string) Predicate {
	if supplierID == "" {
		return True()
	}
	return equals(FieldSupplierID, supplierID, func(l *entity.StockLot) bool { return l.SupplierID == supplierID })
}

// ProductIs lotes de un producto.
func ProductIs(productID string) Predicate {
	if productID == "" {
		return True()
	}
	return equals(FieldProductID, productID, func(l *entity.StockLot) bool { return l.ProductID == productID })
}

// QuantityEquals cantidad exacta.
func QuantityEquals(n int64) Predicate {
	return equals(FieldQuantity, n, func(l *entity.StockLot) bool { return l.Quantity == n })
}

// QuantityAtMost cantidad <= n.
func QuantityAtMost(n int64) Predicate {
	return compare(FieldQuantity, "<=", n, func(l *entity.StockLot) bool { return l.Quantity <= n })
}

// QuantityAtLeast cantidad >= n.
func QuantityAtLeast(n int64) Predicate {
	return compare(FieldQuantity, ">=", n, func(l *entity.StockLot) bool { return l.Quantity >= n })
}

// QuantityBetween rango inclusivo; cualquiera de los extremos puede omitirse.
func QuantityBetween(min, max *int64) Predicate {
	var ps []Predicate
	if min != nil {
		ps = append(ps, QuantityAtLeast(*min))
	}
	if max != nil {
		ps = append(ps, QuantityAtMost(*max))
	}
	return And(ps...)
}

// ValueBetween rango inclusivo sobre el valor unitario; cualquiera de los extremos puede omitirse.
func ValueBetween(min, max *decimal.Decimal) Predicate {
	var ps []Predicate
	if min != nil {
		lo := *min
		ps = append(ps, compare(FieldUnitValue, ">=", lo, func(l *entity.StockLot) bool { return l.UnitValue.GreaterThanOrEqual(lo) }))
	}
	if max != nil {
		hi := *max
		ps = append(ps, compare(FieldUnitValue, "<=", hi, func(l *entity.StockLot) bool { return l.UnitValue.LessThanOrEqual(hi) }))
	}
	return And(ps...)
}

func equals(f Field, v any, match func(l *entity.StockLot) bool) Predicate {
	return compare(f, "=", v, match)
}

func compare(f Field, op string, v any, match func(l *entity.StockLot) bool) Predicate {
	return Predicate{
		match: match,
		render: func(r Renderer) string {
			return r.Column(f) + " " + op + " " + r.Arg(v)
		},
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
