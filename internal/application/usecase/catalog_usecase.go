package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/prodsys-ledger/internal/application/bom"
	"github.com/jhoicas/prodsys-ledger/internal/application/dto"
	"github.com/jhoicas/prodsys-ledger/internal/domain"
	"github.com/jhoicas/prodsys-ledger/internal/domain/entity"
	"github.com/jhoicas/prodsys-ledger/internal/domain/repository"
)

// CatalogUseCase alta y consulta de ítems y recetas. Quantity no se toca aquí:
// inicia en 0 y solo cambia vía el motor de inventario.
type CatalogUseCase struct {
	items    repository.StockItemRepository
	lines    repository.BillOfMaterialRepository
	resolver *bom.Resolver
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(items repository.StockItemRepository, lines repository.BillOfMaterialRepository) *CatalogUseCase {
	return &CatalogUseCase{items: items, lines: lines, resolver: bom.NewResolver(lines)}
}

// CreateItem crea un ítem con cantidad 0.
func (uc *CatalogUseCase) CreateItem(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	item, err := newStockItem(in, time.Now())
	if err != nil {
		return nil, err
	}
	existing, err := uc.items.GetByCode(ctx, item.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.items.Create(ctx, item); err != nil {
		return nil, err
	}
	resp := dto.ItemFromEntity(item)
	return &resp, nil
}

// newStockItem valida la solicitud y arma el ítem con cantidad 0.
func newStockItem(in dto.CreateItemRequest, now time.Time) (*entity.StockItem, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return nil, domain.Invalid("code", "es obligatorio")
	}
	if !entity.ValidCategory(in.Category) {
		return nil, domain.Invalid("category", "categoría desconocida")
	}
	attrs := map[string]decimal.Decimal{
		"width":         in.Width,
		"length":        in.Length,
		"thickness":     in.Thickness,
		"weight":        in.Weight,
		"reorder_level": in.ReorderLevel,
	}
	for field, v := range attrs {
		if v.IsNegative() {
			return nil, domain.Invalid(field, "no puede ser negativo")
		}
		if err := domain.CheckScale(field, v); err != nil {
			return nil, err
		}
	}
	return &entity.StockItem{
		ID:            uuid.New().String(),
		Code:          code,
		Name:          in.Name,
		Description:   in.Description,
		Category:      in.Category,
		UnitOfMeasure: in.UnitOfMeasure,
		Width:         in.Width,
		Length:        in.Length,
		Thickness:     in.Thickness,
		Weight:        in.Weight,
		Quantity:      decimal.Zero,
		ReorderLevel:  in.ReorderLevel,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// GetItem obtiene un ítem por ID.
func (uc *CatalogUseCase) GetItem(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NotFound("ítem", id)
	}
	resp := dto.ItemFromEntity(item)
	return &resp, nil
}

// ListItems lista ítems con filtros y paginación.
func (uc *CatalogUseCase) ListItems(ctx context.Context, in dto.ItemFilterRequest) (*dto.ItemListResponse, error) {
	in.DefaultPage()
	list, err := uc.items.List(ctx, repository.StockItemFilter{
		Category: in.Category,
		Search:   strings.TrimSpace(in.Search),
		LowStock: in.LowStock,
		Limit:    in.Limit,
		Offset:   in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, dto.ItemFromEntity(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// CreateBOMLine agrega una línea de receta; el par (terminado, materia prima) es único.
func (uc *CatalogUseCase) CreateBOMLine(ctx context.Context, in dto.CreateBOMLineRequest) (*dto.BOMLineResponse, error) {
	if in.FinishedItemID == in.RawItemID {
		return nil, domain.Invalid("raw_item_id", "debe ser distinto del producto terminado")
	}
	if !in.QuantityRequired.IsPositive() {
		return nil, domain.Invalid("quantity_required", "debe ser mayor que cero")
	}
	if err := domain.CheckScale("quantity_required", in.QuantityRequired); err != nil {
		return nil, err
	}
	for _, id := range []string{in.FinishedItemID, in.RawItemID} {
		it, err := uc.items.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if it == nil {
			return nil, domain.NotFound("ítem", id)
		}
	}
	line := &entity.BillOfMaterial{
		ID:               uuid.New().String(),
		FinishedItemID:   in.FinishedItemID,
		RawItemID:        in.RawItemID,
		QuantityRequired: in.QuantityRequired,
		CreatedAt:        time.Now(),
	}
	if err := uc.lines.Create(ctx, line); err != nil {
		return nil, err
	}
	resp := dto.BOMLineFromEntity(line)
	return &resp, nil
}

// ListBOM líneas de receta de un producto terminado.
func (uc *CatalogUseCase) ListBOM(ctx context.Context, finishedItemID string) ([]dto.BOMLineResponse, error) {
	if finishedItemID == "" {
		return nil, domain.Invalid("finished_item_id", "es obligatorio")
	}
	lines, err := uc.lines.ListByFinishedItem(ctx, finishedItemID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BOMLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.BOMLineFromEntity(l))
	}
	return out, nil
}

// Requirements vista previa de la materia prima que consumiría producir qty unidades.
func (uc *CatalogUseCase) Requirements(ctx context.Context, finishedItemID string, qty decimal.Decimal) ([]dto.RequirementResponse, error) {
	if _, err := uc.GetItem(ctx, finishedItemID); err != nil {
		return nil, err
	}
	req, err := uc.resolver.RequiredRawMaterials(ctx, finishedItemID, qty)
	if err != nil {
		return nil, err
	}
	sorted := bom.Sorted(req)
	out := make([]dto.RequirementResponse, 0, len(sorted))
	for _, r := range sorted {
		out = append(out, dto.RequirementResponse{RawItemID: r.RawItemID, Quantity: r.Quantity})
	}
	return out, nil
}
