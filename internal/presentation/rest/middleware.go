package rest

import (
	"strings"

	"github.com/Builder-Lawyers/builder-admin/internal/application/dto"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/auth"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const identityKey = "identity"

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "unauthorized"})
}

func (s *Server) token(c *fiber.Ctx) string {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return c.Cookies(s.cookieName)
}

func (s *Server) requireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := c.Locals(identityKey).(*auth.Identity); ok {
			return c.Next()
		}
		identity, err := s.commands.Auth.GetIdentity(c.UserContext(), s.token(c))
		if err != nil {
			zap.S().Debugw("request not authenticated", "path", c.Path(), "err", err)
			return unauthorized(c)
		}
		c.Locals(identityKey, identity)
		return c.Next()
	}
}

func requireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := c.Locals(identityKey).(*auth.Identity)
		if !ok || !identity.IsStaff() {
			return unauthorized(c)
		}
		return c.Next()
	}
}

func requireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := c.Locals(identityKey).(*auth.Identity)
		if !ok || !identity.IsAdmin() {
			return unauthorized(c)
		}
		return c.Next()
	}
}
