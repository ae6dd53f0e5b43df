package http

import (
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/prodsys-ledger/internal/application/dto"
)

var validate = validator.New()

func init() {
	// decimal.Decimal se valida como número para que los tags no fallen con "Bad field type".
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate parsea el body JSON y aplica los tags validate.
// Si falla escribe la respuesta y devuelve false; el handler debe retornar sin escribir otra.
func bindAndValidate(c *fiber.Ctx, req any) bool {
	if err := c.BodyParser(req); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido: " + err.Error()})
		return false
	}
	return runValidation(c, req)
}

// bindQuery igual que bindAndValidate pero sobre la query string.
func bindQuery(c *fiber.Ctx, req any) bool {
	if err := c.QueryParser(req); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos: " + err.Error()})
		return false
	}
	return runValidation(c, req)
}

func runValidation(c *fiber.Ctx, req any) bool {
	err := validate.Struct(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		return false
	}
	fields := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	_ = c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
		Code:    "VALIDATION",
		Message: "campos inválidos",
		Details: fields,
	})
	return false
}
