package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/prodsys-ledger/internal/application/dto"
)

// Roles de planta, de menor a mayor privilegio.
const (
	RoleOperator   = "operator"
	RoleSupervisor = "supervisor"
	RoleManager    = "manager"
	RoleAdmin      = "admin"
)

var roleRank = map[string]int{
	RoleOperator:   1,
	RoleSupervisor: 2,
	RoleManager:    3,
	RoleAdmin:      4,
}

// Capability acción protegida de la API.
type Capability string

const (
	CapStockMove     Capability = "stock:move"
	CapReportWrite   Capability = "report:write"
	CapReportApprove Capability = "report:approve"
	CapReportReverse Capability = "report:reverse"
	CapReportDelete  Capability = "report:delete"
	CapCatalogWrite  Capability = "catalog:write"
)

// rol mínimo que concede cada capacidad
var capabilityMinRole = map[Capability]string{
	CapStockMove:     RoleOperator,
	CapReportWrite:   RoleOperator,
	CapReportApprove: RoleSupervisor,
	CapReportReverse: RoleManager,
	CapReportDelete:  RoleManager,
	CapCatalogWrite:  RoleManager,
}

// Allows indica si role tiene la capacidad. Roles o capacidades desconocidos nunca la tienen.
func Allows(role string, capability Capability) bool {
	minRole, ok := capabilityMinRole[capability]
	if !ok {
		return false
	}
	rank, ok := roleRank[role]
	return ok && rank >= roleRank[minRole]
}

// RequireCapability exige que el rol del token tenga la capacidad. Usar después de AuthMiddleware.
//   - 401 MISSING_ROLE si el token no trae rol.
//   - 403 FORBIDDEN si el rol no alcanza.
func RequireCapability(capability Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		if !Allows(role, capability) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "el rol '" + role + "' no tiene permiso " + string(capability),
			})
		}
		return c.Next()
	}
}
