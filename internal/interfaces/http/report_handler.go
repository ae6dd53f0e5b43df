package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/prodsys-ledger/internal/application/dto"
	"github.com/jhoicas/prodsys-ledger/internal/application/production"
	"github.com/jhoicas/prodsys-ledger/internal/domain/entity"
	"github.com/jhoicas/prodsys-ledger/internal/domain/repository"
)

// ReportHandler reportes de producción y su flujo de aprobación (protegido).
type ReportHandler struct {
	uc *production.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *production.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

func reportJSON(c *fiber.Ctx, status int, rep *entity.ProductionReport) error {
	return c.Status(status).JSON(dto.ReportFromEntity(rep))
}

// Create godoc
// @Summary      Crear reporte de producción (DRAFT)
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReportRequest  true  "Datos del reporte"
// @Success      201   {object}  dto.ReportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse  "producto terminado inexistente"
// @Router       /api/reports [post]
func (h *ReportHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReportRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	rep, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return reportJSON(c, fiber.StatusCreated, rep)
}

// List godoc
// @Summary      Listar reportes
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        status           query  string  false  "DRAFT | SUBMITTED | APPROVED | REVERSED"
// @Param        machine_id       query  string  false  "Máquina"
// @Param        section_id       query  string  false  "Sección"
// @Param        job_number       query  string  false  "Orden de trabajo"
// @Param        include_deleted  query  bool    false  "Incluir borrados lógicamente"
// @Success      200  {object}  dto.ReportListResponse
// @Router       /api/reports [get]
func (h *ReportHandler) List(c *fiber.Ctx) error {
	var in dto.ReportFilterRequest
	if !bindQuery(c, &in) {
		return nil
	}
	in.DefaultPage()
	list, err := h.uc.List(c.Context(), repository.ReportFilter{
		Status:         in.Status,
		MachineID:      in.MachineID,
		SectionID:      in.SectionID,
		JobNumber:      in.JobNumber,
		IncludeDeleted: in.IncludeDeleted,
		Limit:          in.Limit,
		Offset:         in.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := dto.ReportListResponse{
		Items: make([]dto.ReportResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}
	for _, r := range list {
		out.Items = append(out.Items, dto.ReportFromEntity(r))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener reporte
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del reporte"
// @Success      200  {object}  dto.ReportResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/{id} [get]
func (h *ReportHandler) GetByID(c *fiber.Ctx) error {
	rep, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return reportJSON(c, fiber.StatusOK, rep)
}

// Update godoc
// @Summary      Actualizar reporte (solo DRAFT o SUBMITTED)
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del reporte"
// @Param        body  body  dto.UpdateReportRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ReportResponse
// @Failure      409   {object}  dto.ErrorResponse  "IMMUTABLE_REPORT"
// @Router       /api/reports/{id} [put]
func (h *ReportHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateReportRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	rep, err := h.uc.Update(c.Context(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return reportJSON(c, fiber.StatusOK, rep)
}

// Delete godoc
// @Summary      Borrado lógico del reporte
// @Tags         reports
// @Security     Bearer
// @Param        id   path  string  true  "ID del reporte"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse  "IMMUTABLE_REPORT"
// @Router       /api/reports/{id} [delete]
func (h *ReportHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Submit godoc
// @Summary      Enviar reporte a aprobación (DRAFT -> SUBMITTED)
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del reporte"
// @Success      200  {object}  dto.ReportResponse
// @Failure      409  {object}  dto.ErrorResponse  "INVALID_TRANSITION | IMMUTABLE_REPORT"
// @Router       /api/reports/{id}/submit [post]
func (h *ReportHandler) Submit(c *fiber.Ctx) error {
	rep, err := h.uc.Submit(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return reportJSON(c, fiber.StatusOK, rep)
}

// Approve godoc
// @Summary      Aprobar reporte
// @Description  Descuenta la materia prima según la receta y acredita el producto terminado
//
//	en una sola transacción. Si algún material no alcanza no se escribe nada.
//
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del reporte"
// @Success      200  {object}  dto.ReportResponse
// @Failure      409  {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK | ALREADY_APPROVED"
// @Failure      503  {object}  dto.ErrorResponse  "BUSY"
// @Router       /api/reports/{id}/approve [post]
func (h *ReportHandler) Approve(c *fiber.Ctx) error {
	rep, err := h.uc.Approve(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return reportJSON(c, fiber.StatusOK, rep)
}

// Reverse godoc
// @Summary      Reversar reporte aprobado
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del reporte"
// @Param        body  body  dto.ReverseReportRequest  true  "Motivo"
// @Success      200   {object}  dto.ReportResponse
// @Failure      409   {object}  dto.ErrorResponse  "INVALID_TRANSITION | INSUFFICIENT_STOCK"
// @Router       /api/reports/{id}/reverse [post]
func (h *ReportHandler) Reverse(c *fiber.Ctx) error {
	var in dto.ReverseReportRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	rep, err := h.uc.Reverse(c.Context(), c.Params("id"), GetUserID(c), in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return reportJSON(c, fiber.StatusOK, rep)
}

// Consumptions godoc
// @Summary      Consumos de materia prima del reporte
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del reporte"
// @Success      200  {array}  dto.ConsumptionResponse
// @Router       /api/reports/{id}/consumptions [get]
func (h *ReportHandler) Consumptions(c *fiber.Ctx) error {
	list, err := h.uc.Consumptions(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.ConsumptionResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.ConsumptionFromEntity(m))
	}
	return c.JSON(out)
}

// AuditTrail godoc
// @Summary      Bitácora del reporte
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del reporte"
// @Success      200  {array}  dto.AuditEntryResponse
// @Router       /api/reports/{id}/audit [get]
func (h *ReportHandler) AuditTrail(c *fiber.Ctx) error {
	list, err := h.uc.AuditTrail(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.AuditEntryResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.AuditEntryFromEntity(a))
	}
	return c.JSON(out)
}
