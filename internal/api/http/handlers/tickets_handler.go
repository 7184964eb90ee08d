package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-desk/internal/api/dto"
	"github.com/spec-kit/ticket-desk/internal/auth"
	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/service"
	apperrors "github.com/spec-kit/ticket-desk/pkg/util/errorutil"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service  *service.TicketService
	settings *service.SettingsService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, settingsService *service.SettingsService) *TicketsHandler {
	return &TicketsHandler{service: ticketService, settings: settingsService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	category, err := domain.ParseTicketCategory(req.Category)
	if err != nil {
		return apperrors.NewFieldError("category", err.Error())
	}
	var priority domain.TicketPriority
	if strings.TrimSpace(req.Priority) == "" {
		priority, err = h.settings.DefaultPriority(c.UserContext(), principal.User.Email)
		if err != nil {
			return err
		}
	} else if priority, err = domain.ParseTicketPriority(req.Priority); err != nil {
		return apperrors.NewFieldError("priority", err.Error())
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), service.TicketCreateInput{
		Title:       req.Title,
		Category:    category,
		Priority:    priority,
		Description: req.Description,
		Actor:       principal.User.Email,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketDetail(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter, err := parseTicketQuery(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.FilterTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	id, err := ticketIDParam(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.GetTicket(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketDetail(ticket)})
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := ticketIDParam(c)
	if err != nil {
		return err
	}
	var req dto.AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	author := req.Author
	if strings.TrimSpace(author) == "" {
		author = principal.User.Name
	}
	ticket, err := h.service.AddComment(c.UserContext(), id, author, req.Text)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketDetail(ticket)})
}

// UpdateStatus PATCH /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := ticketIDParam(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	status, err := domain.ParseTicketStatus(req.Status)
	if err != nil {
		return apperrors.NewFieldError("status", err.Error())
	}
	ticket, err := h.service.UpdateStatus(c.UserContext(), id, status, principal.User.Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketDetail(ticket)})
}

func parseTicketQuery(c *fiber.Ctx) (service.TicketFilter, error) {
	filter := service.TicketFilter{Search: c.Query("search")}
	if raw := c.Query("status"); raw != "" {
		status, err := domain.ParseTicketStatus(raw)
		if err != nil {
			return filter, apperrors.NewFieldError("status", err.Error())
		}
		filter.Status = status
	}
	if raw := c.Query("priority"); raw != "" {
		priority, err := domain.ParseTicketPriority(raw)
		if err != nil {
			return filter, apperrors.NewFieldError("priority", err.Error())
		}
		filter.Priority = priority
	}
	return filter, nil
}

func ticketIDParam(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, apperrors.NewFieldError("id", "ticket id must be a positive integer")
	}
	return int64(id), nil
}

func requirePrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("user required")
	}
	return principal, nil
}
