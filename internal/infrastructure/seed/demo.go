// Package seed carga un catálogo de proveedores y productos de demostración.
// Los IDs se derivan del nombre, así que cargarlo dos veces no duplica filas.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
)

var namespace = uuid.MustParse("6f0c1d1e-3b7a-4c55-9a43-2f5f2d9b7c10")

type demoProduct struct {
	name        string
	unallocated int64
}

var catalog = []struct {
	supplier string
	products []demoProduct
}{
	{"Molinos del Valle", []demoProduct{{"Arroz blanco 500g", 1200}, {"Harina de trigo 1kg", 800}}},
	{"Lácteos La Pradera", []demoProduct{{"Leche entera 1L", 600}, {"Queso campesino 250g", 150}}},
	{"Granos Andinos", []demoProduct{{"Lenteja 500g", 400}, {"Frijol cargamanto 500g", 300}, {"Garbanzo 500g", 5}}},
}

// ID determinista para un nombre del catálogo.
func ID(name string) string {
	return uuid.NewSHA1(namespace, []byte(name)).String()
}

// Load inserta el catálogo; los registros ya existentes se omiten.
func Load(ctx context.Context, suppliers repository.SupplierRepository, products repository.ProductRepository) (int, error) {
	now := time.Now().UTC()
	created := 0
	for _, group := range catalog {
		s := &entity.Supplier{ID: ID(group.supplier), Name: group.supplier}
		if err := suppliers.Create(ctx, s); err != nil && !errors.Is(err, domain.ErrDuplicate) {
			return created, fmt.Errorf("seed supplier %q: %w", s.Name, err)
		}
		for _, dp := range group.products {
			p := &entity.Product{
				ID:                  ID(group.supplier + "/" + dp.name),
				Name:                dp.name,
				SupplierID:          s.ID,
				UnallocatedQuantity: dp.unallocated,
				CreatedAt:           now,
				UpdatedAt:           now,
			}
			err := products.Create(ctx, p)
			switch {
			case err == nil:
				created++
			case errors.Is(err, domain.ErrDuplicate):
				log.Debug().Str("product", p.Name).Msg("seed: producto ya existe")
			default:
				return created, fmt.Errorf("seed product %q: %w", p.Name, err)
			}
		}
	}
	return created, nil
}
