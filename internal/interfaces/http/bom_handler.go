package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/prodsys-ledger/internal/application/dto"
	"github.com/jhoicas/prodsys-ledger/internal/application/usecase"
	"github.com/jhoicas/prodsys-ledger/internal/domain"
)

// BOMHandler recetas de producción (protegido).
type BOMHandler struct {
	catalog *usecase.CatalogUseCase
}

// NewBOMHandler construye el handler.
func NewBOMHandler(catalog *usecase.CatalogUseCase) *BOMHandler {
	return &BOMHandler{catalog: catalog}
}

// Create godoc
// @Summary      Crear línea de receta
// @Tags         bom
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBOMLineRequest  true  "finished_item_id, raw_item_id, quantity_required > 0"
// @Success      201   {object}  dto.BOMLineResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "DUPLICATE"
// @Router       /api/bom [post]
func (h *BOMHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBOMLineRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.catalog.CreateBOMLine(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Líneas de receta de un producto terminado
// @Tags         bom
// @Security     Bearer
// @Produce      json
// @Param        finished_item_id  query  string  true  "ID del producto terminado"
// @Success      200  {array}  dto.BOMLineResponse
// @Router       /api/bom [get]
func (h *BOMHandler) List(c *fiber.Ctx) error {
	out, err := h.catalog.ListBOM(c.Context(), c.Query("finished_item_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Requirements godoc
// @Summary      Materia prima requerida para producir una cantidad
// @Tags         bom
// @Security     Bearer
// @Produce      json
// @Param        finished_item_id  query  string  true  "ID del producto terminado"
// @Param        quantity          query  string  true  "Cantidad a producir (> 0)"
// @Success      200  {array}  dto.RequirementResponse
// @Router       /api/bom/requirements [get]
func (h *BOMHandler) Requirements(c *fiber.Ctx) error {
	finishedID := c.Query("finished_item_id")
	if finishedID == "" {
		return writeError(c, domain.Invalid("finished_item_id", "requerido"))
	}
	qty, err := decimal.NewFromString(c.Query("quantity"))
	if err != nil {
		return writeError(c, domain.Invalid("quantity", "número requerido"))
	}
	out, err := h.catalog.Requirements(c.Context(), finishedID, qty)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
