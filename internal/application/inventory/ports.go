package inventory

import (
	"context"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el ledger y el agregador de ventas: si fn devuelve error no se aplica nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		lotRepo repository.StockLotRepository,
		salesRepo repository.SalesAggregateRepository,
	) error) error
}

// AuditEmitter recibe los registros de cambio después del commit.
// Emit no bloquea ni devuelve error: la entrega es de mejor esfuerzo.
type AuditEmitter interface {
	Emit(ctx context.Context, rec entity.ChangeRecord)
}

// IdempotencyStore marca eventos de venta ya procesados.
// MarkProcessed devuelve false si la clave ya estaba marcada.
type IdempotencyStore interface {
	MarkProcessed(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// ReportPDFGenerator genera la representación PDF de un reporte de stock.
type ReportPDFGenerator interface {
	GenerateStockReportPDF(ctx context.Context, report StockReport) ([]byte, error)
}

// ListParams paginación y orden pedidos por el llamador.
type ListParams struct {
	Limit         int
	Offset        int
	SortBy        string
	SortDirection string
}

const (
	defaultLimit = 20
	maxLimit     = 100
)

func (p ListParams) normalized() ListParams {
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// NopAuditEmitter descarta los registros (tests y entornos sin sink).
type NopAuditEmitter struct{}

// Emit no hace nada.
func (NopAuditEmitter) Emit(context.Context, entity.ChangeRecord) {}
