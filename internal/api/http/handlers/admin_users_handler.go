package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/access-control-api/internal/api/dto"
	"github.com/spec-kit/access-control-api/internal/service"
	apperrors "github.com/spec-kit/access-control-api/pkg/util"
)

// AdminUsersHandler exposes admin-only account lifecycle operations.
type AdminUsersHandler struct {
	auth *service.AuthService
}

// NewAdminUsersHandler constructs handler.
func NewAdminUsersHandler(authService *service.AuthService) *AdminUsersHandler {
	return &AdminUsersHandler{auth: authService}
}

// Deactivate handles POST /api/v1/admin/users/:id/deactivate.
func (h *AdminUsersHandler) Deactivate(c *fiber.Ctx) error {
	return h.setActive(c, false)
}

// Activate handles POST /api/v1/admin/users/:id/activate.
func (h *AdminUsersHandler) Activate(c *fiber.Ctx) error {
	return h.setActive(c, true)
}

func (h *AdminUsersHandler) setActive(c *fiber.Ctx, active bool) error {
	id := c.Params("id")
	if id == "" {
		return apperrors.NewValidationError("user id required", nil)
	}

	user, err := h.auth.SetActive(c.UserContext(), id, active)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}
