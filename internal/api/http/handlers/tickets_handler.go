package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fuelcard/reclamation-service/internal/api/dto"
	"github.com/fuelcard/reclamation-service/internal/auth"
	"github.com/fuelcard/reclamation-service/internal/domain"
	"github.com/fuelcard/reclamation-service/internal/service"
	apperrors "github.com/fuelcard/reclamation-service/pkg/util"
)

// TicketsHandler exposes the reclamation lifecycle endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /reclamations.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), actor, service.TicketCreateInput{
		ProblemType:      req.ProblemType,
		CardType:         req.CardType,
		CardNumber:       req.CardNumber,
		StationID:        req.StationID,
		Description:      req.Description,
		IncidentAt:       req.IncidentAt,
		Priority:         req.Priority,
		ContactMethod:    req.ContactMethod,
		RequiresCallback: req.RequiresCallback,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketSummary(*ticket, time.Now())})
}

// ListTickets GET /reclamations.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	tickets, err := h.service.ListTickets(c.UserContext(), actor, parseTicketQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketSummaries(tickets, time.Now())})
}

// GetTicket GET /reclamations/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	ticket, trail, err := h.service.GetTicket(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketDetail(ticket, trail, time.Now())})
}

// UpdateTicket PATCH /reclamations/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.UpdateContent(c.UserContext(), actor, c.Params("id"), service.TicketEditInput{
		CardType:         req.CardType,
		CardNumber:       req.CardNumber,
		StationID:        req.StationID,
		ClearStation:     req.ClearStation,
		Description:      req.Description,
		IncidentAt:       req.IncidentAt,
		Priority:         req.Priority,
		ContactMethod:    req.ContactMethod,
		RequiresCallback: req.RequiresCallback,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketSummary(*ticket, time.Now())})
}

// DeleteTicket DELETE /reclamations/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.service.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// TakeCharge POST /reclamations/:id/take-charge.
func (h *TicketsHandler) TakeCharge(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	ticket, err := h.service.TakeCharge(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketSummary(*ticket, time.Now())})
}

// ChangeStatus POST /reclamations/:id/status.
func (h *TicketsHandler) ChangeStatus(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.UpdateStatus(c.UserContext(), actor, c.Params("id"), req.Status, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketSummary(*ticket, time.Now())})
}

// AddUpdate POST /reclamations/:id/updates.
func (h *TicketsHandler) AddUpdate(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	entry, err := h.service.AddUpdate(c.UserContext(), actor, c.Params("id"), req.Message, req.IsInternalNote)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.TicketUpdateResponse{
		ID:             entry.ID,
		AuthorID:       entry.AuthorID,
		Message:        entry.Message,
		IsStatusChange: entry.IsStatusChange,
		NewStatus:      entry.NewStatus,
		IsInternalNote: entry.IsInternalNote,
		CreatedAt:      entry.CreatedAt,
	}})
}

// ListUnclaimed GET /reclamations/unclaimed.
func (h *TicketsHandler) ListUnclaimed(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	tickets, stats, err := h.service.ListUnclaimed(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUnclaimedResponse(tickets, stats, time.Now())})
}

func parseTicketQuery(c *fiber.Ctx) service.TicketListFilter {
	filter := service.TicketListFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			status := domain.TicketStatus(strings.ToUpper(strings.TrimSpace(part)))
			if status.Valid() {
				filter.Statuses = append(filter.Statuses, status)
			}
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset > 0 {
			filter.Offset = offset
		}
	}
	return filter
}
