package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockledger-api/internal/application/inventory"
	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/stock"
)

type capturingPDF struct {
	report inventory.StockReport
}

func (c *capturingPDF) GenerateStockReportPDF(_ context.Context, r inventory.StockReport) ([]byte, error) {
	c.report = r
	return []byte("%PDF-fake"), nil
}

// newReports crea lotes de cantidades 0, 1, 4, 5 y 9 (el de 9 en el producto B).
func newReports(t *testing.T, pdf inventory.ReportPDFGenerator) *inventory.StockReportUseCase {
	t.Helper()
	store := newStore(t)
	ledger := inventory.NewStockLedgerUseCase(store, store.StockLots(), nil, inventory.DefaultMaxAttempts)
	for _, q := range []int64{0, 1, 4, 5} {
		allocate(t, ledger, productA, q, "2")
	}
	allocate(t, ledger, productB, 9, "3")
	return inventory.NewStockReportUseCase(store.StockLots(), pdf)
}

func quantities(lots []*entity.StockLot, _ int64, err error) ([]int64, error) {
	out := make([]int64, 0, len(lots))
	for _, l := range lots {
		out = append(out, l.Quantity)
	}
	return out, err
}

func TestReports_Categorias(t *testing.T) {
	uc := newReports(t, nil)
	ctx := context.Background()
	none := inventory.ReportFilter{}
	page := inventory.ListParams{}

	cases := []struct {
		name string
		run  func() ([]int64, error)
		want []int64
	}{
		{"out-of-stock", func() ([]int64, error) { return quantities(uc.OutOfStock(ctx, none, page)) }, []int64{0}},
		{"critical", func() ([]int64, error) { return quantities(uc.Critical(ctx, 5, none, page)) }, []int64{0, 1, 4, 5}},
		{"low", func() ([]int64, error) { return quantities(uc.Low(ctx, 5, none, page)) }, []int64{1, 4}},
		{"adequate", func() ([]int64, error) { return quantities(uc.Adequate(ctx, 5, none, page)) }, []int64{5, 9}},
		{"low umbral 1", func() ([]int64, error) { return quantities(uc.Low(ctx, 1, none, page)) }, []int64{}},
		{"adequate por proveedor", func() ([]int64, error) {
			return quantities(uc.Adequate(ctx, 5, inventory.ReportFilter{SupplierID: supplier2ID}, page))
		}, []int64{9}},
		{"critical por texto", func() ([]int64, error) {
			return quantities(uc.Critical(ctx, 9, inventory.ReportFilter{Query: "lente"}, page))
		}, []int64{9}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.run()
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReports_CategoriaYUmbralInvalidos(t *testing.T) {
	uc := newReports(t, nil)
	ctx := context.Background()

	_, _, err := uc.ByCategory(ctx, stock.Category("empty"), 5, inventory.ReportFilter{}, inventory.ListParams{})
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)

	_, _, err = uc.Critical(ctx, -1, inventory.ReportFilter{}, inventory.ListParams{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Summary(ctx, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReports_Summary(t *testing.T) {
	uc := newReports(t, nil)

	sum, err := uc.Summary(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), sum.Threshold)
	assert.Equal(t, int64(5), sum.TotalLots)
	assert.Equal(t, int64(1), sum.OutOfStock)
	assert.Equal(t, int64(2), sum.Low)
	assert.Equal(t, int64(2), sum.Adequate)
	assert.Equal(t, int64(19), sum.Valuation.Quantity)
	// 10 * 2 + 9 * 3
	assert.True(t, sum.Valuation.TotalValue.Equal(decimal.NewFromInt(47)), sum.Valuation.TotalValue.String())
}

func TestReports_ExportPDF(t *testing.T) {
	gen := &capturingPDF{}
	uc := newReports(t, gen)

	out, err := uc.ExportPDF(context.Background(), stock.CategoryCritical, 5, inventory.ReportFilter{SupplierID: supplierID})
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), out)

	assert.Equal(t, stock.CategoryCritical, gen.report.Category)
	assert.Equal(t, int64(5), gen.report.Threshold)
	assert.Equal(t, int64(4), gen.report.Total)
	require.Len(t, gen.report.Lots, 4)
	assert.Equal(t, int64(0), gen.report.Lots[0].Quantity)
	assert.False(t, gen.report.GeneratedAt.IsZero())
}

func TestReports_ExportPDFSinGenerador(t *testing.T) {
	uc := newReports(t, nil)
	_, err := uc.ExportPDF(context.Background(), stock.CategoryLow, 5, inventory.ReportFilter{})
	assert.Error(t, err)
}

func TestReports_SummaryUmbralCeroContadoresDisjuntos(t *testing.T) {
	uc := newReports(t, nil)
	ctx := context.Background()

	sum, err := uc.Summary(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), sum.OutOfStock)
	assert.Zero(t, sum.Low)
	assert.Equal(t, int64(4), sum.Adequate)
	assert.Equal(t, sum.TotalLots, sum.OutOfStock+sum.Low+sum.Adequate)

	// El reporte por categoría no excluye los agotados.
	_, total, err := uc.Adequate(ctx, 0, inventory.ReportFilter{}, inventory.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
}
