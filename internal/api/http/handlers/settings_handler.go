package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-desk/internal/api/dto"
	"github.com/spec-kit/ticket-desk/internal/service"
	apperrors "github.com/spec-kit/ticket-desk/pkg/util/errorutil"
)

// SettingsHandler serves the caller's preferences.
type SettingsHandler struct {
	settings *service.SettingsService
}

// NewSettingsHandler constructs handler.
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settingsService}
}

// Get handles GET /settings.
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	settings, err := h.settings.Get(c.UserContext(), principal.User.Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": settings})
}

// Update handles PUT /settings.
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	settings, err := h.settings.Update(c.UserContext(), principal.User.Email, service.SettingsPatch{
		Theme:           req.Theme,
		FontSize:        req.FontSize,
		DefaultPriority: req.DefaultPriority,
		Notifications:   req.Notifications,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": settings})
}
