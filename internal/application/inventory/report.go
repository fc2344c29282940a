package inventory

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
	"github.com/jhoicas/stockledger-api/internal/domain/stock"
)

// maxExportLots límite de lotes incluidos en un PDF.
const maxExportLots = 5000

// ReportFilter filtros comunes de los reportes por categoría.
type ReportFilter struct {
	Query      string
	SupplierID string
}

// StockReport datos de un reporte de categoría listo para exportar.
type StockReport struct {
	Category    stock.Category
	Threshold   int64
	Filter      ReportFilter
	Lots        []*entity.StockLot
	Total       int64
	GeneratedAt time.Time
}

// StockReportUseCase clasifica y consulta lotes por nivel de stock (solo lectura).
// Usa el flag available tal como lo escribió el ledger, sin recalcularlo.
type StockReportUseCase struct {
	lotRepo repository.StockLotRepository
	pdf     ReportPDFGenerator
}

// NewStockReportUseCase construye el caso de uso. pdf puede ser nil si no se exporta.
func NewStockReportUseCase(lotRepo repository.StockLotRepository, pdf ReportPDFGenerator) *StockReportUseCase {
	return &StockReportUseCase{lotRepo: lotRepo, pdf: pdf}
}

// OutOfStock lotes con cantidad 0.
func (uc *StockReportUseCase) OutOfStock(ctx context.Context, f ReportFilter, p ListParams) ([]*entity.StockLot, int64, error) {
	return uc.ByCategory(ctx, stock.CategoryOutOfStock, 0, f, p)
}

// Critical lotes con cantidad <= threshold.
func (uc *StockReportUseCase) Critical(ctx context.Context, threshold int64, f ReportFilter, p ListParams) ([]*entity.StockLot, int64, error) {
	return uc.ByCategory(ctx, stock.CategoryCritical, threshold, f, p)
}

// Low lotes con 1 <= cantidad < threshold.
func (uc *StockReportUseCase) Low(ctx context.Context, threshold int64, f ReportFilter, p ListParams) ([]*entity.StockLot, int64, error) {
	return uc.ByCategory(ctx, stock.CategoryLow, threshold, f, p)
}

// Adequate lotes con cantidad >= threshold.
func (uc *StockReportUseCase) Adequate(ctx context.Context, threshold int64, f ReportFilter, p ListParams) ([]*entity.StockLot, int64, error) {
	return uc.ByCategory(ctx, stock.CategoryAdequate, threshold, f, p)
}

// ByCategory consulta una categoría combinada con los filtros de texto y proveedor.
func (uc *StockReportUseCase) ByCategory(ctx context.Context, c stock.Category, threshold int64, f ReportFilter, p ListParams) ([]*entity.StockLot, int64, error) {
	ctx, span := tracer.Start(ctx, "report.ByCategory")
	defer span.End()
	span.SetAttributes(attribute.String("category", string(c)), attribute.Int64("threshold", threshold))

	where, err := categoryPredicate(c, threshold, f)
	if err != nil {
		return nil, 0, err
	}
	return findLots(ctx, uc.lotRepo, where, p)
}

// Summary conteos por categoría y valorización del inventario para el umbral.
// Los contadores son disjuntos (ver stock.Summary); difieren de ByCategory en los solapes.
func (uc *StockReportUseCase) Summary(ctx context.Context, threshold int64) (*stock.Summary, error) {
	if threshold < 0 {
		return nil, domain.ErrInvalidInput
	}
	return uc.lotRepo.Summary(ctx, threshold)
}

// ExportPDF genera el PDF de una categoría con todos los lotes que la cumplen, ordenados por cantidad.
func (uc *StockReportUseCase) ExportPDF(ctx context.Context, c stock.Category, threshold int64, f ReportFilter) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("exportar reporte: generador PDF no configurado")
	}
	where, err := categoryPredicate(c, threshold, f)
	if err != nil {
		return nil, err
	}

	report := StockReport{Category: c, Threshold: threshold, Filter: f, GeneratedAt: time.Now()}
	for offset := 0; offset < maxExportLots; offset += maxLimit {
		page, total, err := findLots(ctx, uc.lotRepo, where, ListParams{Limit: maxLimit, Offset: offset})
		if err != nil {
			return nil, err
		}
		report.Lots = append(report.Lots, page...)
		report.Total = total
		if int64(offset+len(page)) >= total || len(page) == 0 {
			break
		}
	}
	return uc.pdf.GenerateStockReportPDF(ctx, report)
}

func categoryPredicate(c stock.Category, threshold int64, f ReportFilter) (stock.Predicate, error) {
	category, err := c.Predicate(threshold)
	if err != nil {
		return stock.Predicate{}, err
	}
	return stock.And(category, stock.TextContains(f.Query), stock.SupplierIs(f.SupplierID)), nil
}
