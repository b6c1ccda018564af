package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-registration-service/internal/api/dto"
	"github.com/spec-kit/event-registration-service/internal/auth"
	"github.com/spec-kit/event-registration-service/internal/service"
	apperrors "github.com/spec-kit/event-registration-service/pkg/util"
)

// RegistrationsHandler manages registration endpoints.
type RegistrationsHandler struct {
	registrations *service.RegistrationService
	authorizer    *auth.Authorizer
}

// NewRegistrationsHandler constructs handler.
func NewRegistrationsHandler(registrationService *service.RegistrationService, authorizer *auth.Authorizer) *RegistrationsHandler {
	return &RegistrationsHandler{registrations: registrationService, authorizer: authorizer}
}

// List GET /api/registrations. Admin only (route guard).
func (h *RegistrationsHandler) List(c *fiber.Ctx) error {
	list, err := h.registrations.ListAll(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRegistrationResponses(list)})
}

// Get GET /api/registrations/:id. Admin, the registered user, or the event organizer.
func (h *RegistrationsHandler) Get(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	id := c.Params("id")
	if !h.authorizer.CanViewRegistration(c.Context(), principal, id) {
		return apperrors.NewForbidden("not allowed to view this registration")
	}

	reg, err := h.registrations.GetByID(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRegistrationResponse(reg)})
}

// ListByUser GET /api/registrations/user/:userId. Admin or the user themselves.
func (h *RegistrationsHandler) ListByUser(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	userID := c.Params("userId")
	if !h.authorizer.CanActAsUser(principal, userID) {
		return apperrors.NewForbidden("not allowed to view registrations of another user")
	}

	list, err := h.registrations.ListByUser(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRegistrationResponses(list)})
}

// ListByEvent GET /api/registrations/event/:eventId. Admin or the event organizer.
func (h *RegistrationsHandler) ListByEvent(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	eventID := c.Params("eventId")
	if !h.authorizer.CanManageEvent(c.Context(), principal, eventID) {
		return apperrors.NewForbidden("only the organizer or an admin may list event registrations")
	}

	list, err := h.registrations.ListByEvent(c.Context(), eventID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRegistrationResponses(list)})
}

// Register POST /api/registrations/user/:userId/event/:eventId.
func (h *RegistrationsHandler) Register(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	userID := c.Params("userId")
	if !h.authorizer.CanActAsUser(principal, userID) {
		return apperrors.NewForbidden("not allowed to register another user")
	}

	reg, err := h.registrations.Register(c.Context(), userID, c.Params("eventId"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewRegistrationResponse(reg)})
}

// Cancel PATCH /api/registrations/user/:userId/event/:eventId/cancel.
func (h *RegistrationsHandler) Cancel(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	userID := c.Params("userId")
	if !h.authorizer.CanActAsUser(principal, userID) {
		return apperrors.NewForbidden("not allowed to cancel a registration of another user")
	}

	reg, err := h.registrations.Cancel(c.Context(), userID, c.Params("eventId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRegistrationResponse(reg)})
}

// Delete DELETE /api/registrations/:id. Admin only (route guard).
func (h *RegistrationsHandler) Delete(c *fiber.Ctx) error {
	if err := h.registrations.DeleteByID(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
