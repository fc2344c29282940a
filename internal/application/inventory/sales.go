package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
)

// SortTotalQuantitySold único campo de orden de los resúmenes de venta.
const SortTotalQuantitySold = "totalQuantitySold"

// SalesAggregatorUseCase mantiene un acumulado de ventas por producto.
// Las ventas del mismo producto se serializan con el bloqueo de fila del producto, igual que el ledger.
type SalesAggregatorUseCase struct {
	txRunner    TxRunner
	salesRepo   repository.SalesAggregateRepository
	idempotency IdempotencyStore
	audit       AuditEmitter
	maxAttempts int
	now         func() time.Time
}

// NewSalesAggregatorUseCase construye el caso de uso. idempotency es opcional.
func NewSalesAggregatorUseCase(
	txRunner TxRunner,
	salesRepo repository.SalesAggregateRepository,
	idempotency IdempotencyStore,
	audit AuditEmitter,
	maxAttempts int,
) *SalesAggregatorUseCase {
	if audit == nil {
		audit = NopAuditEmitter{}
	}
	return &SalesAggregatorUseCase{
		txRunner:    txRunner,
		salesRepo:   salesRepo,
		idempotency: idempotency,
		audit:       audit,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// RecordSale suma la venta al acumulado del producto, creándolo si no existe.
// Con EventID el evento se procesa como máximo una vez (domain.ErrDuplicate si se repite).
func (uc *SalesAggregatorUseCase) RecordSale(ctx context.Context, ev entity.SaleEvent) (*entity.SalesAggregate, error) {
	ctx, span := tracer.Start(ctx, "sales.RecordSale")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", ev.ProductID), attribute.Int64("quantity", ev.Quantity))

	if ev.ProductID == "" || ev.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	if ev.EventID != "" && uc.idempotency != nil {
		first, err := uc.idempotency.MarkProcessed(ctx, ev.EventID)
		if err != nil {
			return nil, err
		}
		if !first {
			return nil, domain.ErrDuplicate
		}
	}

	var before, agg *entity.SalesAggregate
	err := runWithRetry(ctx, uc.maxAttempts, "record_sale", func() error {
		before = nil
		return uc.txRunner.Run(ctx, func(
			productRepo repository.ProductRepository,
			_ repository.StockLotRepository,
			salesRepo repository.SalesAggregateRepository,
		) error {
			product, err := productRepo.GetForUpdate(ctx, ev.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			current, err := salesRepo.GetByProductForUpdate(ctx, product.ID)
			if err != nil {
				return err
			}
			today := truncateToDate(uc.now())
			if current == nil {
				agg = &entity.SalesAggregate{
					ID:                uuid.New().String(),
					ProductID:         product.ID,
					TotalQuantitySold: ev.Quantity,
					LastSaleDate:      today,
				}
				agg.ProductName, agg.SupplierID, agg.SupplierName = product.Name, product.SupplierID, product.SupplierName
				return salesRepo.Create(ctx, agg)
			}
			prev := *current
			before = &prev
			current.TotalQuantitySold += ev.Quantity
			current.LastSaleDate = today
			agg = current
			return salesRepo.Update(ctx, current)
		})
	})
	if err != nil {
		if ev.EventID != "" && uc.idempotency != nil {
			if rerr := uc.idempotency.Release(context.WithoutCancel(ctx), ev.EventID); rerr != nil {
				log.Error().Err(rerr).Str("event_id", ev.EventID).Msg("liberar clave de idempotencia")
			}
		}
		return nil, err
	}

	op := entity.OperationCreate
	var old any
	if before != nil {
		op, old = entity.OperationUpdate, before
	}
	uc.audit.Emit(ctx, entity.ChangeRecord{
		ID:        uuid.New().String(),
		Entity:    entity.EntitySalesAggregate,
		EntityID:  agg.ID,
		Operation: op,
		Before:    old,
		After:     agg,
		Details:   "venta registrada",
		Timestamp: uc.now(),
	})
	return agg, nil
}

// SummaryByProductAndSupplier acumulados filtrados por nombre de producto y proveedor,
// ordenados por total vendido (descendente salvo SortDirection "asc").
func (uc *SalesAggregatorUseCase) SummaryByProductAndSupplier(ctx context.Context, search, supplierID string, p ListParams) ([]*entity.SalesAggregate, int64, error) {
	q, err := salesQuery(search, supplierID, p)
	if err != nil {
		return nil, 0, err
	}
	return uc.salesRepo.Find(ctx, q)
}

// SummaryByDateRange igual que SummaryByProductAndSupplier restringido a LastSaleDate en [start, end].
// Filtra por la fecha de la última venta del producto, no por el historial de ventas.
func (uc *SalesAggregatorUseCase) SummaryByDateRange(ctx context.Context, search, supplierID string, start, end time.Time, p ListParams) ([]*entity.SalesAggregate, int64, error) {
	from, to := truncateToDate(start), truncateToDate(end)
	if from.After(to) {
		return nil, 0, domain.ErrInvalidInput
	}
	q, err := salesQuery(search, supplierID, p)
	if err != nil {
		return nil, 0, err
	}
	q.From, q.To = &from, &to
	return uc.salesRepo.Find(ctx, q)
}

// BestSellers productos más vendidos.
func (uc *SalesAggregatorUseCase) BestSellers(ctx context.Context, limit int) ([]*entity.SalesAggregate, error) {
	items, _, err := uc.SummaryByProductAndSupplier(ctx, "", "", ListParams{Limit: limit, SortDirection: "desc"})
	return items, err
}

func salesQuery(search, supplierID string, p ListParams) (repository.SalesAggregateQuery, error) {
	p = p.normalized()
	if p.SortBy != "" && p.SortBy != SortTotalQuantitySold {
		return repository.SalesAggregateQuery{}, domain.ErrInvalidQuery
	}
	return repository.SalesAggregateQuery{
		Search:     strings.TrimSpace(search),
		SupplierID: supplierID,
		Desc:       !strings.EqualFold(p.SortDirection, "asc"),
		Limit:      p.Limit,
		Offset:     p.Offset,
	}, nil
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
