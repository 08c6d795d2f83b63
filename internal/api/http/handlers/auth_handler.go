package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/idrefz/deltaboard/internal/api/dto"
	"github.com/idrefz/deltaboard/internal/service"
	apperrors "github.com/idrefz/deltaboard/pkg/util/errorutil"
)

// AuthHandler serves operator login.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	result, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Username:  result.Username,
		Role:      string(result.Role),
	}})
}
