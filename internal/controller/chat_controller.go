package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"kb-assistant-be/internal/dto"
	"kb-assistant-be/internal/pkg/serverutils"
	"kb-assistant-be/internal/service"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Activate(ctx *fiber.Ctx) error
	Ask(ctx *fiber.Ctx) error
	Reload(ctx *fiber.Ctx) error
	Stop(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("/activate", c.Activate)
	h.Post("/ask", c.Ask)
	h.Post("/reload", c.Reload)
	h.Post("/stop", c.Stop)
}

func (c *chatController) Activate(ctx *fiber.Ctx) error {
	var req dto.ActivateAiRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Activate(ctx.Context(), req.ChatID)
	if err != nil {
		if errors.Is(err, service.ErrNoKnowledge) {
			return fiber.NewError(fiber.StatusConflict, "Knowledge base is empty")
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success activate ai", res))
}

func (c *chatController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Ask(ctx.Context(), req.ChatID, req.Question)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAiNotActive):
			return fiber.NewError(fiber.StatusConflict, "AI mode is not active")
		case errors.Is(err, service.ErrGeneration):
			return fiber.NewError(fiber.StatusBadGateway, "Generation failed")
		default:
			return err
		}
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ask", res))
}

func (c *chatController) Reload(ctx *fiber.Ctx) error {
	var req dto.ActivateAiRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Reload(ctx.Context(), req.ChatID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success reload data", res))
}

func (c *chatController) Stop(ctx *fiber.Ctx) error {
	var req dto.ActivateAiRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if !c.service.Deactivate(ctx.Context(), req.ChatID) {
		return fiber.NewError(fiber.StatusConflict, "AI mode is not active")
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success stop ai", nil))
}
