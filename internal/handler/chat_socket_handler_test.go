package handler

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"soros-rag-be/internal/pkg/logger"
	"soros-rag-be/internal/pkg/serverutils"
	internalWS "soros-rag-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeWs_RequiresUpgrade(t *testing.T) {
	hub := internalWS.NewHub(nil, logger.NewNopLogger())
	h := NewChatSocketHandler(hub, nil, logger.NewNopLogger())

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	h.RegisterRoutes(app.Group("/api"))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/chatbot/v1/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)

	var body serverutils.Response[any]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
}
