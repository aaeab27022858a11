package controller

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"kb-assistant-be/internal/pkg/serverutils"
	"kb-assistant-be/internal/repository/contract"
	"kb-assistant-be/internal/service"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Download(ctx *fiber.Ctx) error
}

type documentController struct {
	service service.IDocumentService
}

func NewDocumentController(service service.IDocumentService) IDocumentController {
	return &documentController{service: service}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/document/v1")
	h.Get("", c.List)
	h.Get("/:filename/download", c.Download)
}

func (c *documentController) List(ctx *fiber.Ctx) error {
	res, err := c.service.List(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all documents", res))
}

func (c *documentController) Download(ctx *fiber.Ctx) error {
	filename := ctx.Params("filename")

	data, err := c.service.Download(ctx.Context(), filename)
	if err != nil {
		if errors.Is(err, contract.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "File not found")
		}
		return err
	}

	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	ctx.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	return ctx.Send(data)
}
