package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockledger-api/internal/application/dto"
	"github.com/jhoicas/stockledger-api/internal/application/inventory"
	"github.com/jhoicas/stockledger-api/internal/domain/stock"
)

// ReportHandler reportes de nivel de stock (solo lectura).
type ReportHandler struct {
	reports          *inventory.StockReportUseCase
	defaultThreshold int64
}

// NewReportHandler construye el handler. defaultThreshold se usa cuando la query no trae threshold.
func NewReportHandler(reports *inventory.StockReportUseCase, defaultThreshold int64) *ReportHandler {
	return &ReportHandler{reports: reports, defaultThreshold: defaultThreshold}
}

// ByCategory godoc
// @Summary      Lotes por categoría de stock
// @Description  out-of-stock (cantidad 0), critical (<= umbral), low (1..umbral-1), adequate (>= umbral).
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        category     path   string  true   "out-of-stock|critical|low|adequate"
// @Param        threshold    query  int     false  "Umbral (por defecto el configurado)"
// @Param        q            query  string  false  "Texto en producto o proveedor"
// @Param        supplier_id  query  string  false  "Proveedor (UUID)"
// @Param        page         query  int     false  "Página (base 0)"
// @Param        size         query  int     false  "Tamaño (máx 100)"
// @Success      200  {object}  dto.StockLotPage
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/stock/{category} [get]
func (h *ReportHandler) ByCategory(c *fiber.Ctx) error {
	category, err := stock.ParseCategory(c.Params("category"))
	if err != nil {
		return writeError(c, err)
	}
	filter, threshold, perr := h.reportQuery(c)
	if perr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(perr)
	}
	p, perr := parsePage(c)
	if perr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(perr)
	}
	lots, total, err := h.reports.ByCategory(c.UserContext(), category, threshold, filter, listParams(p))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewStockLotPage(lots, p, total))
}

// Summary godoc
// @Summary      Resumen de inventario por categoría
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        threshold  query  int  false  "Umbral (por defecto el configurado)"
// @Success      200  {object}  dto.StockSummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/stock/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	_, threshold, perr := h.reportQuery(c)
	if perr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(perr)
	}
	s, err := h.reports.Summary(c.UserContext(), threshold)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromSummary(s))
}

// ExportPDF godoc
// @Summary      Exportar reporte de categoría en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        category     path   string  true   "out-of-stock|critical|low|adequate"
// @Param        threshold    query  int     false  "Umbral"
// @Param        q            query  string  false  "Texto en producto o proveedor"
// @Param        supplier_id  query  string  false  "Proveedor (UUID)"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/stock/{category}/pdf [get]
func (h *ReportHandler) ExportPDF(c *fiber.Ctx) error {
	category, err := stock.ParseCategory(c.Params("category"))
	if err != nil {
		return writeError(c, err)
	}
	filter, threshold, perr := h.reportQuery(c)
	if perr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(perr)
	}
	pdfBytes, err := h.reports.ExportPDF(c.UserContext(), category, threshold, filter)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="stock-`+string(category)+`.pdf"`)
	return c.Send(pdfBytes)
}

func (h *ReportHandler) reportQuery(c *fiber.Ctx) (inventory.ReportFilter, int64, *dto.ErrorResponse) {
	var q dto.ReportQuery
	if err := c.QueryParser(&q); err != nil {
		return inventory.ReportFilter{}, 0, &dto.ErrorResponse{Code: "INVALID_QUERY", Message: "filtros inválidos"}
	}
	if err := validate.Struct(q); err != nil {
		resp := validationError(err)
		return inventory.ReportFilter{}, 0, &resp
	}
	threshold := h.defaultThreshold
	if q.Threshold != "" {
		n, err := strconv.ParseInt(q.Threshold, 10, 64)
		if err != nil {
			return inventory.ReportFilter{}, 0, &dto.ErrorResponse{
				Code: "VALIDATION", Message: "datos inválidos",
				Details: []dto.ValidationDetail{{Field: "threshold", Message: "valor inválido"}},
			}
		}
		threshold = n
	}
	return inventory.ReportFilter{Query: q.Query, SupplierID: q.SupplierID}, threshold, nil
}
