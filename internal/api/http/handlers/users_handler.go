package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-registration-service/internal/api/dto"
	"github.com/spec-kit/event-registration-service/internal/auth"
	"github.com/spec-kit/event-registration-service/internal/service"
	apperrors "github.com/spec-kit/event-registration-service/pkg/util"
)

// UsersHandler manages account endpoints.
type UsersHandler struct {
	users      *service.UserService
	authorizer *auth.Authorizer
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService, authorizer *auth.Authorizer) *UsersHandler {
	return &UsersHandler{users: userService, authorizer: authorizer}
}

// List GET /api/users. Admin only (route guard).
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/users/:id. Admin or the user themselves.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	userID := c.Params("id")
	if !h.authorizer.CanActAsUser(principal, userID) {
		return apperrors.NewForbidden("cannot access another user's account")
	}

	user, err := h.users.GetByID(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// GetByUsername GET /api/users/username/:username.
func (h *UsersHandler) GetByUsername(c *fiber.Ctx) error {
	user, err := h.users.GetByUsername(c.Context(), c.Params("username"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Create POST /api/users. Admin only (route guard); roles may be assigned.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, err := h.users.Create(c.Context(), service.UserCreateInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Roles:    dto.RolesFromStrings(req.Roles),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Update PUT /api/users/:id. Admin or the user themselves; only admins may
// change roles.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	userID := c.Params("id")
	if !h.authorizer.CanActAsUser(principal, userID) {
		return apperrors.NewForbidden("cannot modify another user's account")
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	if len(req.Roles) > 0 && (principal == nil || principal.User == nil || !principal.User.IsAdmin()) {
		return apperrors.NewForbidden("only admins may change roles")
	}

	user, err := h.users.Update(c.Context(), userID, service.UserUpdateInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Roles:    dto.RolesFromStrings(req.Roles),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Delete DELETE /api/users/:id. Admin or the user themselves.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	userID := c.Params("id")
	if !h.authorizer.CanActAsUser(principal, userID) {
		return apperrors.NewForbidden("cannot delete another user's account")
	}

	if err := h.users.Delete(c.Context(), userID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
