package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Distribucion-api/internal/application/dto"
	"github.com/jhoicas/Distribucion-api/pkg/jwt"
)

// Locals keys para la identidad del actor en Fiber.
const (
	LocalActorID = "actor_id"
	LocalRole    = "role"
)

// HeaderActorID identidad del actor cuando no hay JWT configurado (desarrollo y pruebas).
const HeaderActorID = "X-Actor-ID"

// ActorConfig parámetros del middleware de actor.
type ActorConfig struct {
	JWTSecret string // vacío: se confía en X-Actor-ID
	JWTIssuer string
}

// ActorMiddleware extrae la identidad del actor y la deja en c.Locals.
// Con secret configurado exige Bearer Token; los permisos por rol se resuelven antes de esta API.
func ActorMiddleware(cfg ActorConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.JWTSecret == "" {
			actor := strings.TrimSpace(c.Get(HeaderActorID))
			if actor == "" {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ACTOR", Message: HeaderActorID + " requerido"})
			}
			c.Locals(LocalActorID, actor)
			return c.Next()
		}

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
		actorID, role, err := jwt.Parse(cfg.JWTSecret, cfg.JWTIssuer, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalActorID, actorID)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// GetActorID devuelve el actor del contexto (después de ActorMiddleware).
func GetActorID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalActorID).(string)
	return s
}

// GetRole devuelve el rol del token, vacío en modo X-Actor-ID.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}
