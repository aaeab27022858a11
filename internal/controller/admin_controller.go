package controller

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	"kb-assistant-be/internal/pkg/serverutils"
	"kb-assistant-be/internal/repository/contract"
	"kb-assistant-be/internal/service"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	UploadFile(ctx *fiber.Ctx) error
	DeleteFile(ctx *fiber.Ctx) error
	ListUsers(ctx *fiber.Ctx) error
}

type adminController struct {
	documentService service.IDocumentService
	authService     service.IAuthService
}

func NewAdminController(
	documentService service.IDocumentService,
	authService service.IAuthService,
) IAdminController {
	return &adminController{
		documentService: documentService,
		authService:     authService,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/files", c.UploadFile)
	h.Delete("/files/:filename", c.DeleteFile)
	h.Get("/users", c.ListUsers)
}

func (c *adminController) UploadFile(ctx *fiber.Ctx) error {
	chatID, _ := ctx.Locals("chat_id").(string)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Missing file")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Unreadable file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Unreadable file")
	}

	err = c.documentService.Upload(ctx.Context(), chatID, fileHeader.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccessDenied):
			return fiber.NewError(fiber.StatusForbidden, "Access denied")
		case errors.Is(err, service.ErrUnsupportedFormat):
			return fiber.NewError(fiber.StatusUnsupportedMediaType, "Unsupported file format")
		default:
			return err
		}
	}

	return ctx.JSON(serverutils.SuccessResponse("Success upload file", fileHeader.Filename))
}

func (c *adminController) DeleteFile(ctx *fiber.Ctx) error {
	chatID, _ := ctx.Locals("chat_id").(string)
	filename := ctx.Params("filename")

	err := c.documentService.Delete(ctx.Context(), chatID, filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccessDenied):
			return fiber.NewError(fiber.StatusForbidden, "Access denied")
		case errors.Is(err, contract.ErrNotFound):
			return fiber.NewError(fiber.StatusNotFound, "File not found")
		default:
			return err
		}
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete file", nil))
}

func (c *adminController) ListUsers(ctx *fiber.Ctx) error {
	// The JWT outlives a logout; the registry stays the source of truth.
	chatID, _ := ctx.Locals("chat_id").(string)
	if !c.authService.IsAuthorized(ctx.Context(), chatID) {
		return fiber.NewError(fiber.StatusForbidden, "Access denied")
	}

	res, err := c.authService.ListUsers(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all users", res))
}
