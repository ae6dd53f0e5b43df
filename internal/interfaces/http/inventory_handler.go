package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/prodsys-ledger/internal/application/dto"
	"github.com/jhoicas/prodsys-ledger/internal/application/inventory"
	"github.com/jhoicas/prodsys-ledger/internal/domain"
	"github.com/jhoicas/prodsys-ledger/internal/domain/repository"
)

// InventoryHandler operaciones de inventario que abarcan varios ítems (protegido).
type InventoryHandler struct {
	ledger *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// DeductMany godoc
// @Summary      Deducción atómica de varios ítems
// @Description  Todo o nada: si algún ítem no alcanza no se escribe ningún movimiento.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DeductManyRequest  true  "items [{item_id, quantity}]"
// @Success      204
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK del primer ítem que falla en orden de id"
// @Router       /api/inventory/deduct [post]
func (h *InventoryHandler) DeductMany(c *fiber.Ctx) error {
	var in dto.DeductManyRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	items := make(map[string]decimal.Decimal, len(in.Items))
	for _, line := range in.Items {
		if _, dup := items[line.ItemID]; dup {
			return writeError(c, domain.Invalid("items", "item_id repetido: "+line.ItemID))
		}
		items[line.ItemID] = line.Quantity
	}
	err := h.ledger.DeductMany(c.Context(), inventory.DeductManyInput{
		Items:     items,
		Reference: in.Reference,
		Remarks:   in.Remarks,
		Actor:     GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Movements godoc
// @Summary      Historial global de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id    query  string  false  "ID del ítem"
// @Param        type       query  string  false  "IN | OUT | ADJUST | TRANSFER"
// @Param        reference  query  string  false  "Coincidencia parcial"
// @Param        from       query  string  false  "RFC3339"
// @Param        to         query  string  false  "RFC3339"
// @Param        limit      query  int     false  "Límite"  default(50)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	var in dto.MovementFilterRequest
	if !bindQuery(c, &in) {
		return nil
	}
	return listMovements(c, h.ledger, in)
}

func listMovements(c *fiber.Ctx, ledger *inventory.LedgerUseCase, in dto.MovementFilterRequest) error {
	in.DefaultPage()
	f := repository.MovementFilter{
		ItemID:    in.ItemID,
		Type:      in.Type,
		Reference: in.Reference,
		Limit:     in.Limit,
		Offset:    in.Offset,
	}
	var err error
	if f.From, err = parseTime("from", in.From); err != nil {
		return writeError(c, err)
	}
	if f.To, err = parseTime("to", in.To); err != nil {
		return writeError(c, err)
	}

	list, err := ledger.ListMovements(c.Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.MovementListResponse{
		Items: make([]dto.MovementResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}
	for _, m := range list {
		out.Items = append(out.Items, dto.MovementFromEntity(m))
	}
	return c.JSON(out)
}

func parseTime(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, domain.Invalid(field, "formato RFC3339 requerido")
	}
	return &t, nil
}

// LowStock godoc
// @Summary      Ítems en o bajo su nivel de reorden
// @Description  Informativo, ordenado por urgencia (menor cobertura primero).
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        category  query  string  false  "RAW | CONSUMABLE | WIP | FINISHED_GOODS"
// @Success      200  {array}  dto.ReplenishmentSuggestionDTO
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	list, err := h.ledger.LowStock(c.Context(), c.Query("category"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.ReplenishmentSuggestionDTO, 0, len(list))
	for _, s := range list {
		out = append(out, dto.ReplenishmentSuggestionDTO{
			Item:         dto.ItemFromEntity(s.Item),
			IdealStock:   s.IdealStock,
			SuggestedQty: s.SuggestedQty,
			Priority:     s.Priority,
		})
	}
	return c.JSON(fiber.Map{
		"total":          len(out),
		"replenishments": out,
	})
}

// VerifyAll godoc
// @Summary      Verificar todo el inventario contra el ledger
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.VerifyAllResponse
// @Router       /api/inventory/verify [get]
func (h *InventoryHandler) VerifyAll(c *fiber.Ctx) error {
	report, err := h.ledger.VerifyAll(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	out := dto.VerifyAllResponse{Checked: report.Checked, Inconsistent: make([]dto.VerifyResponse, 0, len(report.Inconsistent))}
	for _, v := range report.Inconsistent {
		out.Inconsistent = append(out.Inconsistent, verifyResponse(v))
	}
	return c.JSON(out)
}
