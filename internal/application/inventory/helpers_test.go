package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/memory"
)

const (
	supplierID  = "s-1"
	supplier2ID = "s-2"
	productA    = "p-a"
	productB    = "p-b"
)

// recordingAudit guarda los registros emitidos.
type recordingAudit struct {
	mu   sync.Mutex
	recs []entity.ChangeRecord
}

func (a *recordingAudit) Emit(_ context.Context, rec entity.ChangeRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.recs = append(a.recs, rec)
}

func (a *recordingAudit) records() []entity.ChangeRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]entity.ChangeRecord(nil), a.recs...)
}

// newStore crea proveedores y los productos A (pool 100) y B (pool 10, otro proveedor).
func newStore(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Suppliers().Create(ctx, &entity.Supplier{ID: supplierID, Name: "Molinos del Valle"}))
	require.NoError(t, store.Suppliers().Create(ctx, &entity.Supplier{ID: supplier2ID, Name: "Granos Andinos"}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: productA, Name: "Arroz", SupplierID: supplierID, UnallocatedQuantity: 100}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: productB, Name: "Lenteja", SupplierID: supplier2ID, UnallocatedQuantity: 10}))
	return store
}

func pool(t *testing.T, store *memory.Store, productID string) int64 {
	t.Helper()
	p, err := store.Products().GetByID(context.Background(), productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.UnallocatedQuantity
}
