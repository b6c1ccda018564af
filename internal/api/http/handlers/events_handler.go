package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-registration-service/internal/api/dto"
	"github.com/spec-kit/event-registration-service/internal/auth"
	"github.com/spec-kit/event-registration-service/internal/repository"
	"github.com/spec-kit/event-registration-service/internal/service"
	apperrors "github.com/spec-kit/event-registration-service/pkg/util"
)

// EventsHandler manages event endpoints.
type EventsHandler struct {
	events     *service.EventService
	authorizer *auth.Authorizer
}

// NewEventsHandler constructs handler.
func NewEventsHandler(eventService *service.EventService, authorizer *auth.Authorizer) *EventsHandler {
	return &EventsHandler{events: eventService, authorizer: authorizer}
}

// List GET /api/events?publishedOnly=true.
func (h *EventsHandler) List(c *fiber.Ctx) error {
	publishedOnly := c.Query("publishedOnly") == "true"
	list, err := h.events.List(c.Context(), publishedOnly)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEventResponses(list)})
}

// Get GET /api/events/:id.
func (h *EventsHandler) Get(c *fiber.Ctx) error {
	details, err := h.events.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEventResponse(details)})
}

// Search GET /api/events/search?keyword=&category=&date=2026-09-01.
func (h *EventsHandler) Search(c *fiber.Ctx) error {
	filter := repository.EventSearchFilter{}
	if keyword := c.Query("keyword"); keyword != "" {
		filter.Keyword = &keyword
	}
	if category := c.Query("category"); category != "" {
		filter.Category = &category
	}
	if dateStr := c.Query("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return apperrors.NewValidationError("invalid date, expected YYYY-MM-DD", nil)
		}
		filter.Date = &date
	}

	list, err := h.events.Search(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEventResponses(list)})
}

// ListByOrganizer GET /api/events/organizer/:organizerId.
func (h *EventsHandler) ListByOrganizer(c *fiber.Ctx) error {
	list, err := h.events.ListByOrganizer(c.Context(), c.Params("organizerId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEventResponses(list)})
}

// Create POST /api/events. Requires ORGANIZER or ADMIN (route guard);
// non-admins may only create events they organize themselves.
func (h *EventsHandler) Create(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	var req dto.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	if !h.authorizer.CanActAsUser(principal, req.OrganizerID) {
		return apperrors.NewForbidden("cannot create events for another organizer")
	}

	details, err := h.events.Create(c.Context(), service.EventCreateInput{
		Name:        req.Name,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
		Category:    req.Category,
		Capacity:    req.Capacity,
		OrganizerID: req.OrganizerID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewEventResponse(details)})
}

// Update PUT /api/events/:id. Organizer of the event or admin.
func (h *EventsHandler) Update(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	eventID := c.Params("id")
	if !h.authorizer.CanManageEvent(c.Context(), principal, eventID) {
		return apperrors.NewForbidden("only the organizer or an admin may modify this event")
	}

	var req dto.UpdateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	details, err := h.events.Update(c.Context(), eventID, service.EventUpdateInput{
		Name:        req.Name,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
		Category:    req.Category,
		Capacity:    req.Capacity,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEventResponse(details)})
}

// Delete DELETE /api/events/:id. Organizer of the event or admin.
func (h *EventsHandler) Delete(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	eventID := c.Params("id")
	if !h.authorizer.CanManageEvent(c.Context(), principal, eventID) {
		return apperrors.NewForbidden("only the organizer or an admin may delete this event")
	}

	if err := h.events.Delete(c.Context(), eventID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Publish PATCH /api/events/:id/publish.
func (h *EventsHandler) Publish(c *fiber.Ctx) error {
	return h.setPublication(c, true)
}

// Unpublish PATCH /api/events/:id/unpublish.
func (h *EventsHandler) Unpublish(c *fiber.Ctx) error {
	return h.setPublication(c, false)
}

func (h *EventsHandler) setPublication(c *fiber.Ctx, published bool) error {
	principal, _ := auth.PrincipalFromContext(c)
	eventID := c.Params("id")
	if !h.authorizer.CanManageEvent(c.Context(), principal, eventID) {
		return apperrors.NewForbidden("only the organizer or an admin may change publication")
	}

	var details *service.EventDetails
	var err error
	if published {
		details, err = h.events.Publish(c.Context(), eventID)
	} else {
		details, err = h.events.Unpublish(c.Context(), eventID)
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEventResponse(details)})
}
