package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
	"github.com/jhoicas/stockledger-api/internal/domain/stock"
)

var _ repository.StockLotRepository = (*StockLotRepo)(nil)

// StockLotRepo implementación de StockLotRepository sobre PostgreSQL (usable con pool o tx).
type StockLotRepo struct {
	q Querier
}

// NewStockLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewStockLotRepository(q Querier) *StockLotRepo {
	return &StockLotRepo{q: q}
}

// Create inserta un lote.
func (r *StockLotRepo) Create(ctx context.Context, l *entity.StockLot) error {
	query := `
		INSERT INTO stock_lots (id, product_id, quantity, unit_value, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, l.ID, l.ProductID, l.Quantity, l.UnitValue, l.Available, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote con producto y proveedor.
func (r *StockLotRepo) GetByID(ctx context.Context, id string) (*entity.StockLot, error) {
	return r.get(ctx, lotSelect+" WHERE s.id = $1", id, "get stock lot")
}

// GetForUpdate obtiene el lote y bloquea su fila (SELECT FOR UPDATE OF s).
func (r *StockLotRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockLot, error) {
	return r.get(ctx, lotSelect+" WHERE s.id = $1 FOR UPDATE OF s", id, "get stock lot for update")
}

func (r *StockLotRepo) get(ctx context.Context, query, id, op string) (*entity.StockLot, error) {
	if !validID(id) {
		return nil, nil
	}
	l, err := scanLot(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return l, nil
}

// Update persiste producto, cantidad, valor, disponibilidad y updated_at del lote.
func (r *StockLotRepo) Update(ctx context.Context, l *entity.StockLot) error {
	query := `
		UPDATE stock_lots
		SET product_id = $2, quantity = $3, unit_value = $4, available = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, l.ID, l.ProductID, l.Quantity, l.UnitValue, l.Available, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update stock lot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el lote.
func (r *StockLotRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_lots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stock lot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Find traduce el predicado a SQL y devuelve la página y el total.
func (r *StockLotRepo) Find(ctx context.Context, q repository.StockLotQuery) ([]*entity.StockLot, int64, error) {
	rd := &sqlRenderer{}
	where := rd.where(q.Where)

	var total int64
	countQuery := `
	SELECT COUNT(*)
	FROM stock_lots s
	JOIN products p ON p.id = s.product_id
	JOIN suppliers sup ON sup.id = p.supplier_id` + where
	if err := r.q.QueryRow(ctx, countQuery, rd.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock lots: %w", err)
	}

	query := lotSelect + where + rd.orderBy(q.Sort) +
		" LIMIT " + rd.Arg(q.Limit) + " OFFSET " + rd.Arg(q.Offset)
	rows, err := r.q.Query(ctx, query, rd.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("find stock lots: %w", err)
	}
	defer rows.Close()

	lots := make([]*entity.StockLot, 0, q.Limit)
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan stock lot: %w", err)
		}
		lots = append(lots, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("find stock lots: %w", err)
	}
	return lots, total, nil
}

// MaxQuantity mayor cantidad registrada (0 sin lotes).
func (r *StockLotRepo) MaxQuantity(ctx context.Context) (int64, error) {
	var max int64
	if err := r.q.QueryRow(ctx, `SELECT COALESCE(MAX(quantity), 0) FROM stock_lots`).Scan(&max); err != nil {
		return 0, fmt.Errorf("max quantity: %w", err)
	}
	return max, nil
}

// MaxValue mayor valor unitario registrado (0 sin lotes).
func (r *StockLotRepo) MaxValue(ctx context.Context) (decimal.Decimal, error) {
	var max decimal.Decimal
	if err := r.q.QueryRow(ctx, `SELECT COALESCE(MAX(unit_value), 0) FROM stock_lots`).Scan(&max); err != nil {
		return decimal.Zero, fmt.Errorf("max value: %w", err)
	}
	return max, nil
}

// Summary agrega conteos disjuntos por categoría (mismas reglas que stock.Summary.Classify)
// y la valorización en una sola consulta.
func (r *StockLotRepo) Summary(ctx context.Context, threshold int64) (*stock.Summary, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE quantity = 0),
		       COUNT(*) FILTER (WHERE quantity >= 1 AND quantity < $1),
		       COUNT(*) FILTER (WHERE quantity > 0 AND quantity >= $1),
		       COALESCE(SUM(quantity), 0)::bigint,
		       COALESCE(SUM(quantity * unit_value), 0)
		FROM stock_lots`
	sum := &stock.Summary{Threshold: threshold}
	var totalValue decimal.Decimal
	err := r.q.QueryRow(ctx, query, threshold).Scan(
		&sum.TotalLots, &sum.OutOfStock, &sum.Low, &sum.Adequate, &sum.Valuation.Quantity, &totalValue,
	)
	if err != nil {
		return nil, fmt.Errorf("stock summary: %w", err)
	}
	sum.Valuation.TotalValue = totalValue
	if sum.Valuation.Quantity > 0 {
		sum.Valuation.AverageUnitValue = totalValue.Div(decimal.NewFromInt(sum.Valuation.Quantity))
	}
	return sum, nil
}

func scanLot(row pgx.Row) (*entity.StockLot, error) {
	var l entity.StockLot
	err := row.Scan(
		&l.ID, &l.ProductID, &l.Quantity, &l.UnitValue, &l.Available, &l.CreatedAt, &l.UpdatedAt,
		&l.ProductName, &l.SupplierID, &l.SupplierName,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
