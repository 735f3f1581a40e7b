package controller

import (
	"soros-rag-be/internal/pkg/serverutils"
	"soros-rag-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	Reindex(ctx *fiber.Ctx) error
}

type adminController struct {
	service    service.IChatbotService
	adminToken string
}

func NewAdminController(service service.IChatbotService, adminToken string) IAdminController {
	return &adminController{
		service:    service,
		adminToken: adminToken,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1")
	h.Use(serverutils.AdminTokenMiddleware(c.adminToken))
	h.Post("/reindex", c.Reindex)
}

func (c *adminController) Reindex(ctx *fiber.Ctx) error {
	res, err := c.service.Reindex(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success rebuild index", res))
}
