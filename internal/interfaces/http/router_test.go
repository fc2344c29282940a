package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockledger-api/internal/application/dto"
	"github.com/jhoicas/stockledger-api/internal/application/inventory"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/idempotency"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/memory"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/stockledger-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/stockledger-api/pkg/jwt"
)

const (
	supplierID = "10000000-0000-0000-0000-000000000001"
	productA   = "20000000-0000-0000-0000-00000000000a"
	productB   = "20000000-0000-0000-0000-00000000000b"
)

type apiFixture struct {
	app   *fiber.App
	store *memory.Store
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Suppliers().Create(ctx, &entity.Supplier{ID: supplierID, Name: "Molinos del Valle"}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: productA, Name: "Arroz", SupplierID: supplierID, UnallocatedQuantity: 100}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: productB, Name: "Lenteja", SupplierID: supplierID, UnallocatedQuantity: 10}))

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Ledger:           inventory.NewStockLedgerUseCase(store, store.StockLots(), nil, 3),
		Reports:          inventory.NewStockReportUseCase(store.StockLots(), pdf.NewMarotoPDFGenerator()),
		Sales:            inventory.NewSalesAggregatorUseCase(store, store.SalesAggregates(), idempotency.NewMemoryStore(100, time.Hour), nil, 3),
		DefaultThreshold: 5,
		JWTSecret:        testJWTSecret,
		JWTIssuer:        testIssuer,
	})
	return &apiFixture{app: app, store: store}
}

func (f *apiFixture) do(t *testing.T, method, path, role string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, role))
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func (f *apiFixture) allocate(t *testing.T, productID string, qty int64, value string) dto.StockLotResponse {
	t.Helper()
	resp, body := f.do(t, http.MethodPost, "/api/stock", pkgjwt.RoleWarehouse, fiber.Map{
		"product_id": productID, "quantity": qty, "unit_value": value,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var lot dto.StockLotResponse
	require.NoError(t, json.Unmarshal(body, &lot))
	return lot
}

func TestStockAPI_AsignarConsultarYEliminar(t *testing.T) {
	f := newAPI(t)
	lot := f.allocate(t, productA, 30, "2500.50")
	assert.Equal(t, "Arroz", lot.ProductName)
	assert.Equal(t, "Molinos del Valle", lot.SupplierName)
	assert.True(t, lot.Available)

	p, err := f.store.Products().GetByID(context.Background(), productA)
	require.NoError(t, err)
	assert.Equal(t, int64(70), p.UnallocatedQuantity)

	resp, body := f.do(t, http.MethodGet, "/api/stock/"+lot.ID, pkgjwt.RoleSeller, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.StockLotResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, int64(30), got.Quantity)

	resp, _ = f.do(t, http.MethodDelete, "/api/stock/"+lot.ID, pkgjwt.RoleAdmin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = f.do(t, http.MethodGet, "/api/stock/"+lot.ID, pkgjwt.RoleAdmin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "NOT_FOUND")
}

func TestStockAPI_CantidadInsuficiente(t *testing.T) {
	f := newAPI(t)
	resp, body := f.do(t, http.MethodPost, "/api/stock", pkgjwt.RoleAdmin, fiber.Map{
		"product_id": productB, "quantity": 11, "unit_value": "1",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "INSUFFICIENT_SUPPLY")
}

func TestStockAPI_VendedorNoPuedeAsignar(t *testing.T) {
	f := newAPI(t)
	resp, _ := f.do(t, http.MethodPost, "/api/stock", pkgjwt.RoleSeller, fiber.Map{
		"product_id": productA, "quantity": 1, "unit_value": "1",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestStockAPI_Validaciones(t *testing.T) {
	f := newAPI(t)

	resp, body := f.do(t, http.MethodPost, "/api/stock", pkgjwt.RoleAdmin, fiber.Map{
		"product_id": "no-es-uuid", "quantity": 1, "unit_value": "1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "product_id")

	resp, _ = f.do(t, http.MethodGet, "/api/stock/no-es-uuid", pkgjwt.RoleAdmin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = f.do(t, http.MethodGet, "/api/stock?sortBy=color", pkgjwt.RoleAdmin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "INVALID_QUERY")

	resp, _ = f.do(t, http.MethodGet, "/api/stock?size=500", pkgjwt.RoleAdmin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = f.do(t, http.MethodGet, "/api/stock/search?min_quantity=9&max_quantity=2", pkgjwt.RoleAdmin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStockAPI_BusquedaYMaximos(t *testing.T) {
	f := newAPI(t)
	f.allocate(t, productA, 3, "10")
	f.allocate(t, productA, 20, "4")
	f.allocate(t, productB, 7, "99.90")

	resp, body := f.do(t, http.MethodGet, "/api/stock/search?q=lent", pkgjwt.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page dto.StockLotPage
	require.NoError(t, json.Unmarshal(body, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, productB, page.Items[0].ProductID)

	resp, body = f.do(t, http.MethodGet, "/api/stock/search?min_quantity=5&sortBy=quantity&sortDirection=desc", pkgjwt.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &page))
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(20), page.Items[0].Quantity)
	assert.Equal(t, int64(2), page.Page.Total)

	resp, body = f.do(t, http.MethodGet, "/api/stock/product/"+productA+"?size=1", pkgjwt.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &page))
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(2), page.Page.TotalPages)

	resp, body = f.do(t, http.MethodGet, "/api/stock/max-quantity", pkgjwt.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"max":20}`, string(body))
}

func TestReportAPI_CategoriasYResumen(t *testing.T) {
	f := newAPI(t)
	for _, q := range []int64{0, 1, 4, 5, 9} {
		f.allocate(t, productA, q, "1")
	}

	count := func(path string) int64 {
		resp, body := f.do(t, http.MethodGet, path, pkgjwt.RoleAdmin, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		var page dto.StockLotPage
		require.NoError(t, json.Unmarshal(body, &page))
		return page.Page.Total
	}
	assert.Equal(t, int64(1), count("/api/reports/stock/out-of-stock"))
	assert.Equal(t, int64(4), count("/api/reports/stock/critical"))
	assert.Equal(t, int64(2), count("/api/reports/stock/low"))
	assert.Equal(t, int64(2), count("/api/reports/stock/adequate?threshold=5"))
	assert.Equal(t, int64(1), count("/api/reports/stock/adequate?threshold=6"))

	resp, body := f.do(t, http.MethodGet, "/api/reports/stock/summary", pkgjwt.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary dto.StockSummaryResponse
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.Equal(t, int64(5), summary.TotalLots)
	assert.Equal(t, int64(1), summary.OutOfStock)
	assert.Equal(t, int64(2), summary.Low)
	assert.Equal(t, int64(2), summary.Adequate)
	assert.Equal(t, int64(19), summary.TotalQuantity)

	resp, body = f.do(t, http.MethodGet, "/api/reports/stock/desconocida", pkgjwt.RoleAdmin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "INVALID_QUERY")
}

func TestReportAPI_ExportarPDF(t *testing.T) {
	f := newAPI(t)
	f.allocate(t, productA, 2, "15")

	resp, body := f.do(t, http.MethodGet, "/api/reports/stock/low/pdf", pkgjwt.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestSalesAPI_RegistrarYResumir(t *testing.T) {
	f := newAPI(t)

	sale := fiber.Map{"event_id": "evt-1", "product_id": productA, "quantity": 4}
	resp, body := f.do(t, http.MethodPost, "/api/sales", pkgjwt.RoleSeller, sale)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = f.do(t, http.MethodPost, "/api/sales", pkgjwt.RoleSeller, sale)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "DUPLICATE")

	resp, _ = f.do(t, http.MethodPost, "/api/sales", pkgjwt.RoleSeller, fiber.Map{"product_id": productA, "quantity": 6})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = f.do(t, http.MethodPost, "/api/sales", pkgjwt.RoleSeller, fiber.Map{"product_id": productB, "quantity": 1})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPost, "/api/sales", pkgjwt.RoleWarehouse, fiber.Map{"product_id": productB, "quantity": 1})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = f.do(t, http.MethodGet, "/api/sales/summary", pkgjwt.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page dto.SalesAggregatePage
	require.NoError(t, json.Unmarshal(body, &page))
	require.Len(t, page.Items, 2)
	assert.Equal(t, productA, page.Items[0].ProductID)
	assert.Equal(t, int64(10), page.Items[0].TotalQuantitySold)

	resp, body = f.do(t, http.MethodGet, "/api/sales/best-sellers?limit=1", pkgjwt.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var best []dto.SalesAggregateResponse
	require.NoError(t, json.Unmarshal(body, &best))
	require.Len(t, best, 1)
	assert.Equal(t, "Arroz", best[0].ProductName)

	today := time.Now().UTC().Format(dto.DateLayout)
	resp, body = f.do(t, http.MethodGet, "/api/sales/summary/range?from="+today+"&to="+today, pkgjwt.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &page))
	assert.Len(t, page.Items, 2)

	resp, _ = f.do(t, http.MethodGet, "/api/sales/summary/range?from=2026-02-10&to=2026-02-01", pkgjwt.RoleAdmin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSalesAPI_ProductoInexistente(t *testing.T) {
	f := newAPI(t)
	resp, _ := f.do(t, http.MethodPost, "/api/sales", pkgjwt.RoleAdmin, fiber.Map{
		"product_id": "30000000-0000-0000-0000-000000000000", "quantity": 1,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
