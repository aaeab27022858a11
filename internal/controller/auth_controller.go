package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"kb-assistant-be/internal/dto"
	"kb-assistant-be/internal/pkg/serverutils"
	"kb-assistant-be/internal/service"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
}

func NewAuthController(service service.IAuthService) IAuthController {
	return &authController{service: service}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth/v1")
	h.Post("/login", c.Login)
	h.Post("/logout", serverutils.JwtMiddleware, c.Logout)
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.Login(ctx.Context(), &req); err != nil {
		var locked *service.LockoutError
		switch {
		case errors.As(err, &locked):
			return fiber.NewError(fiber.StatusTooManyRequests, locked.Error())
		case errors.Is(err, service.ErrInvalidPassword):
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid password")
		case errors.Is(err, service.ErrAuthDisabled):
			return fiber.NewError(fiber.StatusServiceUnavailable, "Admin login is disabled")
		default:
			return err
		}
	}

	token, err := c.service.IssueToken(req.ChatID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success login", dto.LoginResponse{Token: token}))
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	chatID, _ := ctx.Locals("chat_id").(string)

	removed, err := c.service.Logout(ctx.Context(), chatID)
	if err != nil {
		return err
	}
	if !removed {
		return fiber.NewError(fiber.StatusNotFound, "Not authorized")
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success logout", nil))
}
