package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-desk/internal/api/dto"
	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/service"
	apperrors "github.com/spec-kit/ticket-desk/pkg/util/errorutil"
)

// DashboardHandler aggregates ticket counts.
type DashboardHandler struct {
	tickets *service.TicketService
	auth    *service.AuthService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(ticketService *service.TicketService, authService *service.AuthService) *DashboardHandler {
	return &DashboardHandler{tickets: ticketService, auth: authService}
}

// Stats handles GET /dashboard/stats?year=.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	year := c.QueryInt("year", 0)
	if year < 0 {
		return apperrors.NewFieldError("year", "year must be positive")
	}
	stats, err := h.tickets.Stats(c.UserContext(), year)
	if err != nil {
		return err
	}
	technicians, err := h.auth.CountByRole(c.UserContext(), domain.UserRoleAdmin)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.StatsResponse{
		Year:        stats.Year,
		Total:       stats.Total,
		Open:        stats.Open,
		Pending:     stats.Pending,
		InProgress:  stats.InProgress,
		Resolved:    stats.Resolved,
		Technicians: technicians,
	}})
}
