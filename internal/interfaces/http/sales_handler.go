package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockledger-api/internal/application/dto"
	"github.com/jhoicas/stockledger-api/internal/application/inventory"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

const defaultBestSellers = 10

// SalesHandler registro y consulta de acumulados de venta.
type SalesHandler struct {
	sales *inventory.SalesAggregatorUseCase
}

// NewSalesHandler construye el handler.
func NewSalesHandler(sales *inventory.SalesAggregatorUseCase) *SalesHandler {
	return &SalesHandler{sales: sales}
}

// RecordSale godoc
// @Summary      Registrar venta
// @Description  Suma la cantidad al acumulado del producto. Con event_id un reenvío responde 409 DUPLICATE.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordSaleRequest  true  "event_id, product_id, quantity"
// @Success      201   {object}  dto.SalesAggregateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SalesHandler) RecordSale(c *fiber.Ctx) error {
	var in dto.RecordSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(validationError(err))
	}
	agg, err := h.sales.RecordSale(c.UserContext(), entity.SaleEvent{
		EventID:   in.EventID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromSalesAggregate(agg))
}

// Summary godoc
// @Summary      Resumen de ventas por producto y proveedor
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        search         query  string  false  "Texto en nombre de producto"
// @Param        supplier_id    query  string  false  "Proveedor (UUID)"
// @Param        page           query  int     false  "Página (base 0)"
// @Param        size           query  int     false  "Tamaño (máx 100)"
// @Param        sortDirection  query  string  false  "asc|desc (por defecto desc)"
// @Success      200  {object}  dto.SalesAggregatePage
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales/summary [get]
func (h *SalesHandler) Summary(c *fiber.Ctx) error {
	var q dto.SalesSummaryQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "filtros inválidos"})
	}
	if err := validate.Struct(q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(validationError(err))
	}
	p, perr := parsePage(c)
	if perr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(perr)
	}
	items, total, err := h.sales.SummaryByProductAndSupplier(c.UserContext(), q.Search, q.SupplierID, listParams(p))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SalesAggregatePage{Items: dto.FromSalesAggregates(items), Page: dto.NewPageResponse(p, total)})
}

// SummaryByDateRange godoc
// @Summary      Resumen de ventas por rango de fecha de última venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        from         query  string  true   "Desde (YYYY-MM-DD, inclusive)"
// @Param        to           query  string  true   "Hasta (YYYY-MM-DD, inclusive)"
// @Param        search       query  string  false  "Texto en nombre de producto"
// @Param        supplier_id  query  string  false  "Proveedor (UUID)"
// @Success      200  {object}  dto.SalesAggregatePage
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales/summary/range [get]
func (h *SalesHandler) SummaryByDateRange(c *fiber.Ctx) error {
	var q dto.SalesRangeQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "filtros inválidos"})
	}
	if err := validate.Struct(q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(validationError(err))
	}
	from, err := time.ParseInLocation(dto.DateLayout, q.From, time.UTC)
	if err != nil {
		return invalidParam(c, "from")
	}
	to, err := time.ParseInLocation(dto.DateLayout, q.To, time.UTC)
	if err != nil {
		return invalidParam(c, "to")
	}
	p, perr := parsePage(c)
	if perr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(perr)
	}
	items, total, err := h.sales.SummaryByDateRange(c.UserContext(), q.Search, q.SupplierID, from, to, listParams(p))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SalesAggregatePage{Items: dto.FromSalesAggregates(items), Page: dto.NewPageResponse(p, total)})
}

// BestSellers godoc
// @Summary      Productos más vendidos
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Cantidad (por defecto 10, máx 100)"
// @Success      200  {array}  dto.SalesAggregateResponse
// @Router       /api/sales/best-sellers [get]
func (h *SalesHandler) BestSellers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultBestSellers)
	if limit <= 0 {
		return invalidParam(c, "limit")
	}
	items, err := h.sales.BestSellers(c.UserContext(), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromSalesAggregates(items))
}
