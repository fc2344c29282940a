package stock_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stockledger-api/internal/domain/stock"
)

func TestWeightedUnitValue(t *testing.T) {
	// (10*100 + 30*120) / 40 = 115
	got := stock.WeightedUnitValue(decimal.NewFromInt(10), decimal.NewFromInt(100), decimal.NewFromInt(30), decimal.NewFromInt(120))
	assert.True(t, got.Equal(decimal.NewFromInt(115)), got.String())

	assert.True(t, stock.WeightedUnitValue(decimal.Zero, decimal.Zero, decimal.Zero, decimal.NewFromInt(9)).IsZero())
}

func TestSummaryClassify(t *testing.T) {
	s := stock.Summary{Threshold: 5}
	for _, q := range []int64{0, 1, 4, 5, 9} {
		s.Classify(q, decimal.NewFromInt(2))
	}
	assert.Equal(t, int64(5), s.TotalLots)
	assert.Equal(t, int64(1), s.OutOfStock)
	assert.Equal(t, int64(2), s.Low)
	assert.Equal(t, int64(2), s.Adequate)
	assert.Equal(t, int64(19), s.Valuation.Quantity)
	assert.True(t, s.Valuation.TotalValue.Equal(decimal.NewFromInt(38)))
	assert.True(t, s.Valuation.AverageUnitValue.Equal(decimal.NewFromInt(2)))
}

func TestSummaryClassify_UmbralCeroCuentaAgotadosUnaVez(t *testing.T) {
	s := stock.Summary{Threshold: 0}
	for _, q := range []int64{0, 0, 3} {
		s.Classify(q, decimal.NewFromInt(1))
	}
	assert.Equal(t, int64(2), s.OutOfStock)
	assert.Zero(t, s.Low)
	assert.Equal(t, int64(1), s.Adequate)
	assert.Equal(t, s.TotalLots, s.OutOfStock+s.Low+s.Adequate)
}
