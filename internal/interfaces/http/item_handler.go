package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/prodsys-ledger/internal/application/dto"
	"github.com/jhoicas/prodsys-ledger/internal/application/inventory"
	"github.com/jhoicas/prodsys-ledger/internal/application/usecase"
)

// ItemHandler catálogo de ítems y movimientos sobre un ítem (protegido).
type ItemHandler struct {
	catalog *usecase.CatalogUseCase
	ledger  *inventory.LedgerUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(catalog *usecase.CatalogUseCase, ledger *inventory.LedgerUseCase) *ItemHandler {
	return &ItemHandler{catalog: catalog, ledger: ledger}
}

// Create godoc
// @Summary      Crear ítem de inventario (cantidad inicial 0)
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Datos del ítem"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.catalog.CreateItem(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar ítems
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        category   query  string  false  "RAW | CONSUMABLE | WIP | FINISHED_GOODS"
// @Param        search     query  string  false  "Código o nombre"
// @Param        low_stock  query  bool    false  "Solo bajo nivel de reorden"
// @Param        limit      query  int     false  "Límite"  default(50)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ItemListResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	var in dto.ItemFilterRequest
	if !bindQuery(c, &in) {
		return nil
	}
	out, err := h.catalog.ListItems(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener ítem por ID
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.catalog.GetItem(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// StockIn godoc
// @Summary      Entrada de stock
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID del ítem"
// @Param        body  body  dto.StockMoveRequest  true  "quantity > 0"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/stock-in [post]
func (h *ItemHandler) StockIn(c *fiber.Ctx) error {
	var in dto.StockMoveRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	it, err := h.ledger.StockIn(c.Context(), h.moveInput(c, in))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ItemFromEntity(it))
}

// StockOut godoc
// @Summary      Salida de stock
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID del ítem"
// @Param        body  body  dto.StockMoveRequest  true  "quantity > 0"
// @Success      200   {object}  dto.ItemResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK con item_id, available, requested"
// @Router       /api/items/{id}/stock-out [post]
func (h *ItemHandler) StockOut(c *fiber.Ctx) error {
	var in dto.StockMoveRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	it, err := h.ledger.StockOut(c.Context(), h.moveInput(c, in))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ItemFromEntity(it))
}

func (h *ItemHandler) moveInput(c *fiber.Ctx, in dto.StockMoveRequest) inventory.MovementInput {
	return inventory.MovementInput{
		ItemID:    c.Params("id"),
		Quantity:  in.Quantity,
		Reference: in.Reference,
		Remarks:   in.Remarks,
		Actor:     GetUserID(c),
	}
}

// Adjust godoc
// @Summary      Ajuste con signo (conteo físico)
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del ítem"
// @Param        body  body  dto.AdjustRequest  true  "delta != 0"
// @Success      200   {object}  dto.ItemResponse
// @Failure      409   {object}  dto.ErrorResponse  "NEGATIVE_RESULT"
// @Router       /api/items/{id}/adjust [post]
func (h *ItemHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	it, err := h.ledger.Adjust(c.Context(), inventory.MovementInput{
		ItemID:    c.Params("id"),
		Quantity:  in.Delta,
		Reference: in.Reference,
		Remarks:   in.Remarks,
		Actor:     GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ItemFromEntity(it))
}

// Transfer godoc
// @Summary      Traslado entre ítems
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del ítem origen"
// @Param        body  body  dto.TransferRequest  true  "to_item_id, quantity > 0"
// @Success      200   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse  "SAME_ITEM | UNIT_MISMATCH"
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK"
// @Router       /api/items/{id}/transfer [post]
func (h *ItemHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	from, to, err := h.ledger.Transfer(c.Context(), inventory.TransferInput{
		FromItemID: c.Params("id"),
		ToItemID:   in.ToItemID,
		Quantity:   in.Quantity,
		Reference:  in.Reference,
		Remarks:    in.Remarks,
		Actor:      GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.TransferResponse{From: dto.ItemFromEntity(from), To: dto.ItemFromEntity(to)})
}

// Movements godoc
// @Summary      Historial de movimientos del ítem
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id         path   string  true   "ID del ítem"
// @Param        type       query  string  false  "IN | OUT | ADJUST | TRANSFER"
// @Param        reference  query  string  false  "Coincidencia parcial"
// @Param        from       query  string  false  "RFC3339"
// @Param        to         query  string  false  "RFC3339"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/items/{id}/movements [get]
func (h *ItemHandler) Movements(c *fiber.Ctx) error {
	var in dto.MovementFilterRequest
	if !bindQuery(c, &in) {
		return nil
	}
	in.ItemID = c.Params("id")
	return listMovements(c, h.ledger, in)
}

// Verify godoc
// @Summary      Verificar consistencia del ítem contra su ledger
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.VerifyResponse
// @Router       /api/items/{id}/verify [get]
func (h *ItemHandler) Verify(c *fiber.Ctx) error {
	v, err := h.ledger.Verify(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(verifyResponse(*v))
}

func verifyResponse(v inventory.Verification) dto.VerifyResponse {
	return dto.VerifyResponse{
		ItemID:     v.ItemID,
		Code:       v.Code,
		Stored:     v.Stored,
		Recomputed: v.Recomputed,
		Consistent: v.Consistent,
	}
}
