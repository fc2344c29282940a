package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
	"github.com/jhoicas/stockledger-api/internal/domain/stock"
)

var tracer = otel.Tracer("github.com/jhoicas/stockledger-api/internal/application/inventory")

// StockLedgerUseCase mueve cantidad entre el pool no asignado del producto y los lotes de stock.
// Toda mutación corre en una transacción con bloqueo de fila del producto (SELECT FOR UPDATE);
// el registro de auditoría se emite después del commit.
type StockLedgerUseCase struct {
	txRunner    TxRunner
	lotRepo     repository.StockLotRepository
	audit       AuditEmitter
	maxAttempts int
	now         func() time.Time
}

// NewStockLedgerUseCase construye el caso de uso. lotRepo se usa solo para lecturas.
func NewStockLedgerUseCase(
	txRunner TxRunner,
	lotRepo repository.StockLotRepository,
	audit AuditEmitter,
	maxAttempts int,
) *StockLedgerUseCase {
	if audit == nil {
		audit = NopAuditEmitter{}
	}
	return &StockLedgerUseCase{
		txRunner:    txRunner,
		lotRepo:     lotRepo,
		audit:       audit,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// AllocateInput entrada para crear un lote a partir del pool del producto.
type AllocateInput struct {
	ProductID string
	Quantity  int64
	UnitValue decimal.Decimal
}

// AdjustInput nuevo estado completo del lote. Si ProductID cambia, la cantidad se transfiere entre productos.
type AdjustInput struct {
	LotID     string
	ProductID string
	Quantity  int64
	UnitValue decimal.Decimal
}

// Allocate descuenta Quantity del pool del producto y crea el lote en la misma transacción.
func (uc *StockLedgerUseCase) Allocate(ctx context.Context, in AllocateInput) (*entity.StockLot, error) {
	ctx, span := tracer.Start(ctx, "ledger.Allocate")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", in.ProductID), attribute.Int64("quantity", in.Quantity))

	if in.ProductID == "" || in.Quantity < 0 || in.UnitValue.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	var lot *entity.StockLot
	err := runWithRetry(ctx, uc.maxAttempts, "allocate", func() error {
		return uc.txRunner.Run(ctx, func(
			productRepo repository.ProductRepository,
			lotRepo repository.StockLotRepository,
			_ repository.SalesAggregateRepository,
		) error {
			product, err := productRepo.GetForUpdate(ctx, in.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			if !product.CanAllocate(in.Quantity) {
				return domain.ErrInsufficientSupply
			}
			if err := productRepo.UpdateUnallocated(ctx, product.ID, product.UnallocatedQuantity-in.Quantity); err != nil {
				return err
			}
			now := uc.now()
			lot = &entity.StockLot{
				ID:           uuid.New().String(),
				ProductID:    product.ID,
				Quantity:     in.Quantity,
				UnitValue:    in.UnitValue,
				Available:    in.Quantity > 0,
				CreatedAt:    now,
				UpdatedAt:    now,
				ProductName:  product.Name,
				SupplierID:   product.SupplierID,
				SupplierName: product.SupplierName,
			}
			return lotRepo.Create(ctx, lot)
		})
	})
	if err != nil {
		return nil, err
	}

	uc.emit(ctx, entity.OperationCreate, lot.ID, nil, snapshot(lot))
	return lot, nil
}

// Adjust aplica el nuevo estado del lote.
// Mismo producto: el pool cambia en -delta (delta > 0 exige pool suficiente).
// Otro producto: el producto anterior recupera la cantidad del lote y el nuevo cede la cantidad nueva.
// Si nada cambia devuelve el lote intacto, sin escribir ni auditar.
func (uc *StockLedgerUseCase) Adjust(ctx context.Context, in AdjustInput) (*entity.StockLot, error) {
	ctx, span := tracer.Start(ctx, "ledger.Adjust")
	defer span.End()
	span.SetAttributes(attribute.String("lot.id", in.LotID), attribute.String("product.id", in.ProductID))

	if in.LotID == "" || in.ProductID == "" || in.Quantity < 0 || in.UnitValue.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	var (
		before, after *entity.StockLot
		changed       bool
	)
	err := runWithRetry(ctx, uc.maxAttempts, "adjust", func() error {
		changed = false
		return uc.txRunner.Run(ctx, func(
			productRepo repository.ProductRepository,
			lotRepo repository.StockLotRepository,
			_ repository.SalesAggregateRepository,
		) error {
			lot, err := lotRepo.GetForUpdate(ctx, in.LotID)
			if err != nil {
				return err
			}
			if lot == nil {
				return domain.ErrNotFound
			}
			if lot.SameState(in.Quantity, in.UnitValue, in.ProductID) {
				after = lot
				return nil
			}

			products, err := lockProducts(ctx, productRepo, lot.ProductID, in.ProductID)
			if err != nil {
				return err
			}
			oldProduct, newProduct := products[lot.ProductID], products[in.ProductID]

			if oldProduct.ID == newProduct.ID {
				delta := in.Quantity - lot.Quantity
				if delta > 0 && !oldProduct.CanAllocate(delta) {
					return domain.ErrInsufficientSupply
				}
				if delta != 0 {
					if err := productRepo.UpdateUnallocated(ctx, oldProduct.ID, oldProduct.UnallocatedQuantity-delta); err != nil {
						return err
					}
				}
			} else {
				if !newProduct.CanAllocate(in.Quantity) {
					return domain.ErrInsufficientSupply
				}
				if err := productRepo.UpdateUnallocated(ctx, oldProduct.ID, oldProduct.UnallocatedQuantity+lot.Quantity); err != nil {
					return err
				}
				if err := productRepo.UpdateUnallocated(ctx, newProduct.ID, newProduct.UnallocatedQuantity-in.Quantity); err != nil {
					return err
				}
			}

			prev := *lot
			lot.ProductID = newProduct.ID
			lot.ProductName = newProduct.Name
			lot.SupplierID = newProduct.SupplierID
			lot.SupplierName = newProduct.SupplierName
			lot.Quantity = in.Quantity
			lot.UnitValue = in.UnitValue
			lot.Available = in.Quantity > 0
			lot.UpdatedAt = uc.now()
			if err := lotRepo.Update(ctx, lot); err != nil {
				return err
			}
			before, after, changed = &prev, lot, true
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if changed {
		uc.emit(ctx, entity.OperationUpdate, after.ID, snapshot(before), snapshot(after))
	}
	return after, nil
}

// Remove elimina el lote. La cantidad que tenía se retira de circulación: no vuelve al pool del producto.
func (uc *StockLedgerUseCase) Remove(ctx context.Context, lotID string) error {
	ctx, span := tracer.Start(ctx, "ledger.Remove")
	defer span.End()
	span.SetAttributes(attribute.String("lot.id", lotID))

	if lotID == "" {
		return domain.ErrInvalidInput
	}

	var removed *entity.StockLot
	err := runWithRetry(ctx, uc.maxAttempts, "remove", func() error {
		return uc.txRunner.Run(ctx, func(
			productRepo repository.ProductRepository,
			lotRepo repository.StockLotRepository,
			_ repository.SalesAggregateRepository,
		) error {
			lot, err := lotRepo.GetForUpdate(ctx, lotID)
			if err != nil {
				return err
			}
			if lot == nil {
				return domain.ErrNotFound
			}
			// Serializa con el resto de mutaciones del mismo producto.
			if _, err := productRepo.GetForUpdate(ctx, lot.ProductID); err != nil {
				return err
			}
			if err := lotRepo.Delete(ctx, lot.ID); err != nil {
				return err
			}
			removed = lot
			return nil
		})
	})
	if err != nil {
		return err
	}

	uc.emit(ctx, entity.OperationDelete, removed.ID, snapshot(removed), nil)
	return nil
}

// Get obtiene un lote por id.
func (uc *StockLedgerUseCase) Get(ctx context.Context, lotID string) (*entity.StockLot, error) {
	lot, err := uc.lotRepo.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	return lot, nil
}

// List lista todos los lotes.
func (uc *StockLedgerUseCase) List(ctx context.Context, p ListParams) ([]*entity.StockLot, int64, error) {
	return uc.Search(ctx, stock.Criteria{}, p)
}

// ListByProduct lista los lotes de un producto.
func (uc *StockLedgerUseCase) ListByProduct(ctx context.Context, productID string, p ListParams) ([]*entity.StockLot, int64, error) {
	if productID == "" {
		return nil, 0, domain.ErrInvalidInput
	}
	return uc.Search(ctx, stock.Criteria{ProductID: productID}, p)
}

// ListBySupplier lista los lotes de los productos de un proveedor.
func (uc *StockLedgerUseCase) ListBySupplier(ctx context.Context, supplierID string, p ListParams) ([]*entity.StockLot, int64, error) {
	if supplierID == "" {
		return nil, 0, domain.ErrInvalidInput
	}
	return uc.Search(ctx, stock.Criteria{SupplierID: supplierID}, p)
}

// Search aplica los criterios opcionales (texto, proveedor, rangos de cantidad y valor).
func (uc *StockLedgerUseCase) Search(ctx context.Context, c stock.Criteria, p ListParams) ([]*entity.StockLot, int64, error) {
	where, err := c.Predicate()
	if err != nil {
		return nil, 0, err
	}
	return findLots(ctx, uc.lotRepo, where, p)
}

// MaxQuantity mayor cantidad entre todos los lotes (0 si no hay lotes).
func (uc *StockLedgerUseCase) MaxQuantity(ctx context.Context) (int64, error) {
	return uc.lotRepo.MaxQuantity(ctx)
}

// MaxValue mayor valor unitario entre todos los lotes (0 si no hay lotes).
func (uc *StockLedgerUseCase) MaxValue(ctx context.Context) (decimal.Decimal, error) {
	return uc.lotRepo.MaxValue(ctx)
}

func (uc *StockLedgerUseCase) emit(ctx context.Context, op entity.OperationType, id string, before, after any) {
	uc.audit.Emit(ctx, entity.ChangeRecord{
		ID:        uuid.New().String(),
		Entity:    entity.EntityStock,
		EntityID:  id,
		Operation: op,
		Before:    before,
		After:     after,
		Timestamp: uc.now(),
	})
}

// lockProducts bloquea los productos en orden de id para evitar deadlocks entre reasignaciones cruzadas.
func lockProducts(ctx context.Context, repo repository.ProductRepository, ids ...string) (map[string]*entity.Product, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	sort.Strings(unique)

	out := make(map[string]*entity.Product, len(unique))
	for _, id := range unique {
		p, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrNotFound
		}
		out[id] = p
	}
	return out, nil
}

func findLots(ctx context.Context, repo repository.StockLotRepository, where stock.Predicate, p ListParams) ([]*entity.StockLot, int64, error) {
	p = p.normalized()
	order, err := stock.ParseSort(p.SortBy, p.SortDirection)
	if err != nil {
		return nil, 0, err
	}
	return repo.Find(ctx, repository.StockLotQuery{
		Where:  where,
		Sort:   order,
		Limit:  p.Limit,
		Offset: p.Offset,
	})
}
