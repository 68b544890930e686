package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lending-service/internal/api/dto"
	"github.com/spec-kit/lending-service/internal/auth"
	"github.com/spec-kit/lending-service/internal/domain"
	"github.com/spec-kit/lending-service/internal/service"
)

// UsersHandler exposes auth and profile endpoints for account holders.
type UsersHandler struct {
	auth  *service.AuthService
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, userService *service.UserService) *UsersHandler {
	return &UsersHandler{auth: authService, users: userService}
}

// Register handles POST /auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "name, email, password required")
	}

	user, token, exp, err := h.auth.RegisterUser(c.UserContext(), req.Name, req.Email, req.Password, req.MonthlyIncome)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user": userResponse(user),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Login handles POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	user, token, exp, err := h.auth.LoginUser(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": userResponse(user),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// GetProfile handles GET /users/profile.
func (h *UsersHandler) GetProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	user, err := h.users.GetProfile(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"user": userResponse(user)}})
}

// UpdateProfile handles PUT /users/profile.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == nil && req.Email == nil && req.MonthlyIncome == nil {
		return fiber.NewError(http.StatusBadRequest, "no fields to update")
	}
	if req.Name != nil && *req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "name must not be empty")
	}

	user, err := h.users.UpdateProfile(c.UserContext(), principal.User.ID, service.UpdateProfileInput{
		Name:          req.Name,
		Email:         req.Email,
		MonthlyIncome: req.MonthlyIncome,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "profile updated successfully",
		"data":    fiber.Map{"user": userResponse(user)},
	})
}

// VerifyEmail handles GET /verify-email?token=.
func (h *UsersHandler) VerifyEmail(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return fiber.NewError(http.StatusBadRequest, "token required")
	}

	user, err := h.users.VerifyEmail(c.UserContext(), token)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "email verified",
		"data":    fiber.Map{"user": userResponse(user)},
	})
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		MonthlyIncome: user.MonthlyIncome,
	}
}
