package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gestock-saas/gestock-api/internal/application/dto"
	"github.com/gestock-saas/gestock-api/internal/domain/authz"
	"github.com/gestock-saas/gestock-api/pkg/jwt"
)

// Local key para el principal en Fiber.
const localPrincipal = "principal"

// AuthMiddleware valida el Bearer Token JWT y deja el principal en c.Locals.
// La autorización fina (rol × acción) no vive aquí: la resuelve la puerta de
// autorización dentro de cada caso de uso.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		if claims.UserID == "" || claims.TenantID == "" || claims.Role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "claims incompletos"})
		}
		c.Locals(localPrincipal, authz.Principal{
			UserID:       claims.UserID,
			TenantID:     claims.TenantID,
			Role:         authz.Role(claims.Role),
			SupportUntil: claims.SupportUntil,
		})
		return c.Next()
	}
}

// GetPrincipal devuelve el principal del contexto (después del middleware de auth).
func GetPrincipal(c *fiber.Ctx) authz.Principal {
	if p, ok := c.Locals(localPrincipal).(authz.Principal); ok {
		return p
	}
	return authz.Principal{}
}
