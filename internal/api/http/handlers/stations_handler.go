package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fuelcard/reclamation-service/internal/api/dto"
	"github.com/fuelcard/reclamation-service/internal/auth"
	"github.com/fuelcard/reclamation-service/internal/service"
	apperrors "github.com/fuelcard/reclamation-service/pkg/util"
)

// StationsHandler exposes the station directory.
type StationsHandler struct {
	service *service.StationService
}

// NewStationsHandler constructs handler.
func NewStationsHandler(stationService *service.StationService) *StationsHandler {
	return &StationsHandler{service: stationService}
}

// ListStations GET /stations.
func (h *StationsHandler) ListStations(c *fiber.Ctx) error {
	stations, err := h.service.List(c.UserContext(), c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return err
	}
	items := make([]dto.StationResponse, 0, len(stations))
	for i := range stations {
		items = append(items, dto.NewStationResponse(&stations[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetStation GET /stations/:id.
func (h *StationsHandler) GetStation(c *fiber.Ctx) error {
	station, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStationResponse(station)})
}

// CreateStation POST /admin/stations.
func (h *StationsHandler) CreateStation(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateStationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	station, err := h.service.Create(c.UserContext(), actor, service.StationInput{
		Name:      req.Name,
		Code:      req.Code,
		Address:   req.Address,
		City:      req.City,
		Phone:     req.Phone,
		ManagerID: req.ManagerID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewStationResponse(station)})
}
