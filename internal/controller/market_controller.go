package controller

import (
	"soros-rag-be/internal/dto"
	"soros-rag-be/internal/pkg/serverutils"
	"soros-rag-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IMarketController interface {
	RegisterRoutes(r fiber.Router)
	Snapshot(ctx *fiber.Ctx) error
}

type marketController struct {
	service service.IMarketService
}

func NewMarketController(service service.IMarketService) IMarketController {
	return &marketController{service: service}
}

func (c *marketController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/market/v1")
	h.Get("/snapshot/:symbol", c.Snapshot)
}

func (c *marketController) Snapshot(ctx *fiber.Ctx) error {
	req := dto.MarketSnapshotRequest{
		Symbol: ctx.Params("symbol"),
		Period: ctx.Query("period"),
	}

	res, err := c.service.Snapshot(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get market snapshot", res))
}
