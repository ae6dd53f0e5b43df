// Package bom resuelve recetas (bill of materials): cuánta materia prima requiere una producción.
package bom

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/prodsys-ledger/internal/domain"
	"github.com/jhoicas/prodsys-ledger/internal/domain/repository"
)

// Requirement cantidad de un ítem de materia prima.
type Requirement struct {
	RawItemID string
	Quantity  decimal.Decimal
}

// Resolver lee las líneas de receta; no tiene efectos secundarios.
type Resolver struct {
	lines repository.BillOfMaterialRepository
}

// NewResolver construye el resolver sobre el repositorio de recetas fuera de transacción.
func NewResolver(lines repository.BillOfMaterialRepository) *Resolver {
	return &Resolver{lines: lines}
}

// RequiredRawMaterials multiplica quantity_required de cada línea por quantityProduced.
func (r *Resolver) RequiredRawMaterials(ctx context.Context, finishedItemID string, quantityProduced decimal.Decimal) (map[string]decimal.Decimal, error) {
	return Resolve(ctx, r.lines, finishedItemID, quantityProduced)
}

// Resolve igual que RequiredRawMaterials pero sobre el repositorio indicado
// (el de la transacción de aprobación, por ejemplo). Un ítem sin receta devuelve un mapa vacío.
// Cada cantidad queda con a lo sumo domain.QuantityScale decimales.
func Resolve(ctx context.Context, lines repository.BillOfMaterialRepository, finishedItemID string, quantityProduced decimal.Decimal) (map[string]decimal.Decimal, error) {
	if finishedItemID == "" {
		return nil, domain.Invalid("finished_item_id", "es obligatorio")
	}
	if !quantityProduced.IsPositive() {
		return nil, domain.Invalid("quantity_produced", "debe ser mayor que cero")
	}
	rows, err := lines.ListByFinishedItem(ctx, finishedItemID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]decimal.Decimal, len(rows))
	for _, l := range rows {
		out[l.RawItemID] = out[l.RawItemID].Add(l.QuantityRequired.Mul(quantityProduced))
	}
	// El descuento se registra en la escala de almacenamiento; se redondea hacia arriba
	// para no consumir menos de lo que pide la receta.
	for id, q := range out {
		out[id] = q.RoundCeil(domain.QuantityScale)
	}
	return out, nil
}

// Sorted devuelve los requerimientos en orden ascendente de id de ítem.
func Sorted(req map[string]decimal.Decimal) []Requirement {
	out := make([]Requirement, 0, len(req))
	for id, q := range req {
		out = append(out, Requirement{RawItemID: id, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RawItemID < out[j].RawItemID })
	return out
}
