package repository

import (
	"context"

	"github.com/jhoicas/prodsys-ledger/internal/domain/entity"
)

// BillOfMaterialRepository puerto de persistencia de recetas (BOM).
type BillOfMaterialRepository interface {
	Create(ctx context.Context, line *entity.BillOfMaterial) error
	ListByFinishedItem(ctx context.Context, finishedItemID string) ([]*entity.BillOfMaterial, error)
}
