package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/access-control-api/internal/api/dto"
	"github.com/spec-kit/access-control-api/internal/domain"
	"github.com/spec-kit/access-control-api/internal/service"
)

// ResourcesHandler serves the tiered resource listings.
type ResourcesHandler struct {
	resources *service.ResourceService
}

// NewResourcesHandler constructs handler.
func NewResourcesHandler(resourceService *service.ResourceService) *ResourcesHandler {
	return &ResourcesHandler{resources: resourceService}
}

// List handles GET /api/v1/resources for any authenticated principal.
func (h *ResourcesHandler) List(c *fiber.Ctx) error {
	resources, err := h.resources.ListByTier(c.UserContext(), domain.TierGeneral)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewResourceResponses(resources)})
}

// AdminList handles GET /api/v1/admin/resources for admins only.
func (h *ResourcesHandler) AdminList(c *fiber.Ctx) error {
	resources, err := h.resources.ListByTier(c.UserContext(), domain.TierAdmin)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewResourceResponses(resources)})
}
