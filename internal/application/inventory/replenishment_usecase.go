package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición: materiales activos cuyo stock total
// (todas las ubicaciones y lotes) está por debajo de MinStock.
type ReplenishmentUseCase struct {
	catalog repository.CatalogRepository
	totals  BalanceTotals
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(catalog repository.CatalogRepository, totals BalanceTotals) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{catalog: catalog, totals: totals}
}

// GenerateReplenishmentList devuelve las sugerencias ordenadas por urgencia:
// primero sin stock, luego mayor déficit relativo al mínimo, luego mayor déficit absoluto.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	materials, err := uc.catalog.ListMaterials(ctx, true)
	if err != nil {
		return nil, err
	}
	totals, err := uc.totals.TotalsByMaterial(ctx)
	if err != nil {
		return nil, err
	}

	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0)
	for _, m := range materials {
		if m.MinStock <= 0 {
			continue
		}
		current := totals[m.ID]
		if current >= m.MinStock {
			continue
		}
		target := m.MaxStock
		if target < m.MinStock {
			target = m.MinStock
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			MaterialID:        m.ID,
			Code:              m.Code,
			Name:              m.Name,
			Unit:              m.Unit,
			CurrentStock:      current,
			MinStock:          m.MinStock,
			MaxStock:          m.MaxStock,
			SuggestedOrderQty: target - current,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if (a.CurrentStock <= 0) != (b.CurrentStock <= 0) {
			return a.CurrentStock <= 0
		}
		// déficit relativo: (min-cur)/min, comparado sin división
		ra := (a.MinStock - a.CurrentStock) * b.MinStock
		rb := (b.MinStock - b.CurrentStock) * a.MinStock
		if ra != rb {
			return ra > rb
		}
		return a.MinStock-a.CurrentStock > b.MinStock-b.CurrentStock
	})

	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
