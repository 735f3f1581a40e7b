package controller

import (
	"context"
	"net/http/httptest"
	"testing"

	"soros-rag-be/internal/dto"
	"soros-rag-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMarketService struct {
	got *dto.MarketSnapshotRequest
	err error
}

func (f *fakeMarketService) Snapshot(_ context.Context, req *dto.MarketSnapshotRequest) (*dto.MarketSnapshotResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &dto.MarketSnapshotResponse{Symbol: req.Symbol, Period: req.Period, Snapshot: "Ticker: " + req.Symbol}, nil
}

func newMarketApp(svc *fakeMarketService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewMarketController(svc).RegisterRoutes(app.Group("/api"))
	return app
}

func TestMarketSnapshotRoute(t *testing.T) {
	svc := &fakeMarketService{}
	app := newMarketApp(svc)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/market/v1/snapshot/TSLA?period=1y", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody[dto.MarketSnapshotResponse](t, resp.Body)
	assert.True(t, body.Success)
	assert.Equal(t, "Ticker: TSLA", body.Data.Snapshot)
	assert.Equal(t, "TSLA", svc.got.Symbol)
	assert.Equal(t, "1y", svc.got.Period)
}

func TestMarketSnapshotRoute_Disabled(t *testing.T) {
	app := newMarketApp(&fakeMarketService{err: fiber.NewError(fiber.StatusServiceUnavailable, "Market data lookups are disabled.")})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/market/v1/snapshot/TSLA", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	body := decodeBody[any](t, resp.Body)
	assert.False(t, body.Success)
	assert.Equal(t, "Market data lookups are disabled.", body.Message)
}
