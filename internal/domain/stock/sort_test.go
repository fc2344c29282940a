package stock_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/stock"
)

func TestParseSort(t *testing.T) {
	s, err := stock.ParseSort("", "")
	require.NoError(t, err)
	assert.Equal(t, stock.Sort{Field: stock.FieldQuantity}, s)

	s, err = stock.ParseSort(stock.SortValue, "DESC")
	require.NoError(t, err)
	assert.Equal(t, stock.Sort{Field: stock.FieldUnitValue, Desc: true}, s)

	_, err = stock.ParseSort("color", "asc")
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)
}

func TestSortLess_DesempatePorID(t *testing.T) {
	lots := []*entity.StockLot{
		{ID: "c", Quantity: 2},
		{ID: "a", Quantity: 5},
		{ID: "b", Quantity: 2},
	}
	s := stock.Sort{Field: stock.FieldQuantity, Desc: true}
	sort.SliceStable(lots, func(i, j int) bool { return s.Less(lots[i], lots[j]) })

	ids := []string{lots[0].ID, lots[1].ID, lots[2].ID}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}
