package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
)

var _ repository.SalesAggregateRepository = (*SalesAggregateRepo)(nil)

// SalesAggregateRepo acumulados de venta sobre PostgreSQL (índice único en product_id).
type SalesAggregateRepo struct {
	q Querier
}

// NewSalesAggregateRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesAggregateRepository(q Querier) *SalesAggregateRepo {
	return &SalesAggregateRepo{q: q}
}

const salesSelect = `
	SELECT a.id, a.product_id, a.total_quantity_sold, a.last_sale_date, p.name, p.supplier_id, sup.name
	FROM sales_aggregates a
	JOIN products p ON p.id = a.product_id
	JOIN suppliers sup ON sup.id = p.supplier_id`

// GetByProductForUpdate obtiene y bloquea el acumulado del producto (nil si aún no existe).
func (r *SalesAggregateRepo) GetByProductForUpdate(ctx context.Context, productID string) (*entity.SalesAggregate, error) {
	if !validID(productID) {
		return nil, nil
	}
	a, err := scanAggregate(r.q.QueryRow(ctx, salesSelect+" WHERE a.product_id = $1 FOR UPDATE OF a", productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales aggregate: %w", err)
	}
	return a, nil
}

// Create inserta el acumulado del producto.
func (r *SalesAggregateRepo) Create(ctx context.Context, a *entity.SalesAggregate) error {
	query := `
		INSERT INTO sales_aggregates (id, product_id, total_quantity_sold, last_sale_date)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(ctx, query, a.ID, a.ProductID, a.TotalQuantitySold, a.LastSaleDate)
	if err != nil {
		if isUniqueViolation(err) {
			// Otro escritor creó el acumulado primero; el caso de uso reintenta y lo actualiza.
			return fmt.Errorf("%w: acumulado de ventas duplicado", domain.ErrConflict)
		}
		return fmt.Errorf("insert sales aggregate: %w", err)
	}
	return nil
}

// Update persiste total y fecha de última venta.
func (r *SalesAggregateRepo) Update(ctx context.Context, a *entity.SalesAggregate) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE sales_aggregates SET total_quantity_sold = $2, last_sale_date = $3 WHERE id = $1`,
		a.ID, a.TotalQuantitySold, a.LastSaleDate)
	if err != nil {
		return fmt.Errorf("update sales aggregate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Find filtra por nombre de producto, proveedor y rango de last_sale_date; ordena por total vendido.
func (r *SalesAggregateRepo) Find(ctx context.Context, q repository.SalesAggregateQuery) ([]*entity.SalesAggregate, int64, error) {
	var (
		conds []string
		args  []any
	)
	pos := 1
	if q.Search != "" {
		conds = append(conds, fmt.Sprintf("LOWER(p.name) LIKE $%d", pos))
		args = append(args, "%"+likeEscape(strings.ToLower(q.Search))+"%")
		pos++
	}
	if q.SupplierID != "" {
		if !validID(q.SupplierID) {
			return []*entity.SalesAggregate{}, 0, nil
		}
		conds = append(conds, fmt.Sprintf("p.supplier_id = $%d", pos))
		args = append(args, q.SupplierID)
		pos++
	}
	if q.From != nil {
		conds = append(conds, fmt.Sprintf("a.last_sale_date >= $%d", pos))
		args = append(args, *q.From)
		pos++
	}
	if q.To != nil {
		conds = append(conds, fmt.Sprintf("a.last_sale_date <= $%d", pos))
		args = append(args, *q.To)
		pos++
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	countQuery := `
	SELECT COUNT(*) FROM sales_aggregates a
	JOIN products p ON p.id = a.product_id` + where
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales aggregates: %w", err)
	}

	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	query := salesSelect + where +
		fmt.Sprintf(" ORDER BY a.total_quantity_sold %s, a.product_id ASC LIMIT $%d OFFSET $%d", dir, pos, pos+1)
	args = append(args, q.Limit, q.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("find sales aggregates: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.SalesAggregate, 0, q.Limit)
	for rows.Next() {
		a, err := scanAggregate(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan sales aggregate: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("find sales aggregates: %w", err)
	}
	return out, total, nil
}

func scanAggregate(row pgx.Row) (*entity.SalesAggregate, error) {
	var a entity.SalesAggregate
	err := row.Scan(&a.ID, &a.ProductID, &a.TotalQuantitySold, &a.LastSaleDate, &a.ProductName, &a.SupplierID, &a.SupplierName)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likeEscape(s string) string { return likeReplacer.Replace(s) }
