package stock

import "github.com/shopspring/decimal"

// WeightedUnitValue valor unitario promedio ponderado al sumar una partida a un acumulado:
// ((cantAcum * valorAcum) + (cant * valor)) / (cantAcum + cant).
func WeightedUnitValue(accQty, accValue, qty, value decimal.Decimal) decimal.Decimal {
	sum := accQty.Add(qty)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := accQty.Mul(accValue).Add(qty.Mul(value))
	return num.Div(sum)
}

// Valuation valorización acumulada de un conjunto de lotes.
type Valuation struct {
	Quantity         int64
	TotalValue       decimal.Decimal
	AverageUnitValue decimal.Decimal
}

// Add incorpora un lote a la valorización.
func (v Valuation) Add(quantity int64, unitValue decimal.Decimal) Valuation {
	q := decimal.NewFromInt(quantity)
	return Valuation{
		Quantity:         v.Quantity + quantity,
		TotalValue:       v.TotalValue.Add(q.Mul(unitValue)),
		AverageUnitValue: WeightedUnitValue(decimal.NewFromInt(v.Quantity), v.AverageUnitValue, q, unitValue),
	}
}

// Summary conteo de lotes por categoría para un umbral, con su valorización.
// Los contadores son disjuntos y suman TotalLots: un lote con cantidad 0 cuenta solo como
// OutOfStock aunque el umbral sea 0. Por eso Adequate puede ser menor que el total de
// Category.Predicate(CategoryAdequate), que no excluye los agotados.
type Summary struct {
	Threshold  int64
	TotalLots  int64
	OutOfStock int64
	Low        int64
	Adequate   int64
	Valuation  Valuation
}

// Classify acumula un lote en un único contador: out-of-stock q == 0, low 1 <= q < t, adequate q >= max(t, 1).
func (s *Summary) Classify(quantity int64, unitValue decimal.Decimal) {
	s.TotalLots++
	switch {
	case quantity == 0:
		s.OutOfStock++
	case quantity < s.Threshold:
		s.Low++
	default:
		s.Adequate++
	}
	s.Valuation = s.Valuation.Add(quantity, unitValue)
}
