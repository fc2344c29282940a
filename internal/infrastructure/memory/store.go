// Package memory implementa los puertos de persistencia en memoria.
//
// Las transacciones se serializan con un único mutex y trabajan sobre una copia
// del estado que solo se publica al confirmar, así que un error o una cancelación
// descartan todos los cambios. Pensado para desarrollo local y tests.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/jhoicas/stockledger-api/internal/application/inventory"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

type state struct {
	suppliers map[string]entity.Supplier
	products  map[string]entity.Product
	lots      map[string]entity.StockLot
	sales     map[string]entity.SalesAggregate // por product_id
}

func newState() *state {
	return &state{
		suppliers: map[string]entity.Supplier{},
		products:  map[string]entity.Product{},
		lots:      map[string]entity.StockLot{},
		sales:     map[string]entity.SalesAggregate{},
	}
}

func (s *state) clone() *state {
	return &state{
		suppliers: maps.Clone(s.suppliers),
		products:  maps.Clone(s.products),
		lots:      maps.Clone(s.lots),
		sales:     maps.Clone(s.sales),
	}
}

// Store almacén en memoria; implementa inventory.TxRunner.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// access ejecuta fn con el estado visible para un repositorio.
type access func(fn func(st *state))

func (s *Store) shared() access {
	return func(fn func(st *state)) {
		s.mu.Lock()
		defer s.mu.Unlock()
		fn(s.st)
	}
}

func private(st *state) access {
	return func(fn func(st *state)) { fn(st) }
}

// Suppliers repositorio de proveedores fuera de transacción.
func (s *Store) Suppliers() *SupplierRepo { return &SupplierRepo{at: s.shared()} }

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{at: s.shared()} }

// StockLots repositorio de lotes fuera de transacción.
func (s *Store) StockLots() *StockLotRepo { return &StockLotRepo{at: s.shared()} }

// SalesAggregates repositorio de acumulados fuera de transacción.
func (s *Store) SalesAggregates() *SalesAggregateRepo { return &SalesAggregateRepo{at: s.shared()} }

// Run ejecuta fn en exclusión mutua sobre una copia del estado y la publica si fn termina sin error
// y el contexto sigue vigente.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	lotRepo repository.StockLotRepository,
	salesRepo repository.SalesAggregateRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.st.clone()
	at := private(work)
	if err := fn(&ProductRepo{at: at}, &StockLotRepo{at: at}, &SalesAggregateRepo{at: at}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}
