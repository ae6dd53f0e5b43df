package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/prodsys-ledger/internal/application/dto"
	"github.com/jhoicas/prodsys-ledger/internal/domain"
	"github.com/jhoicas/prodsys-ledger/pkg/logger"
)

// segundos sugeridos al cliente ante contención
const retryAfterSeconds = "1"

type errorMapping struct {
	target error
	status int
	code   string
}

// orden importa: el primer sentinel que coincide gana
var errorMappings = []errorMapping{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrNegativeResult, fiber.StatusConflict, "NEGATIVE_RESULT"},
	{domain.ErrAlreadyApproved, fiber.StatusConflict, "ALREADY_APPROVED"},
	{domain.ErrImmutableApprovedReport, fiber.StatusConflict, "IMMUTABLE_REPORT"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrSameItem, fiber.StatusBadRequest, "SAME_ITEM"},
	{domain.ErrUnitMismatch, fiber.StatusBadRequest, "UNIT_MISMATCH"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrBusy, fiber.StatusServiceUnavailable, "BUSY"},
}

// writeError traduce un error de dominio a la respuesta HTTP {code, message, details}.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		if m.status == fiber.StatusServiceUnavailable {
			c.Set(fiber.HeaderRetryAfter, retryAfterSeconds)
		}
		return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error(), Details: errorDetails(err)})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func errorDetails(err error) map[string]any {
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return map[string]any{
			"item_id":   insufficient.ItemID,
			"available": insufficient.Available.String(),
			"requested": insufficient.Requested.String(),
		}
	}
	var negative *domain.NegativeResultError
	if errors.As(err, &negative) {
		return map[string]any{
			"item_id": negative.ItemID,
			"current": negative.Current.String(),
			"delta":   negative.Delta.String(),
		}
	}
	var transition *domain.TransitionError
	if errors.As(err, &transition) {
		return map[string]any{"from": transition.From, "to": transition.To}
	}
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		return map[string]any{"field": validation.Field, "reason": validation.Reason}
	}
	return nil
}

// ErrorHandler handler de errores de Fiber: errores no atendidos por los handlers
// (rutas inexistentes, panics recuperados) salen con el mismo cuerpo que los de dominio.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
		}
		log.Error().Err(err).Str("path", c.Path()).Msg("error no controlado")
		return writeError(c, err)
	}
}
