package handler

import (
	"soros-rag-be/internal/pkg/logger"
	internalWS "soros-rag-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type ChatSocketHandler struct {
	hub    *internalWS.Hub
	asker  internalWS.Asker
	logger logger.ILogger
}

func NewChatSocketHandler(hub *internalWS.Hub, asker internalWS.Asker, log logger.ILogger) *ChatSocketHandler {
	return &ChatSocketHandler{
		hub:    hub,
		asker:  asker,
		logger: log,
	}
}

// ServeWs upgrades the request and answers every question sent over the socket.
func (h *ChatSocketHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		remote := conn.RemoteAddr().String()
		h.logger.Info("ChatSocketHandler", "Starting WebSocket session", map[string]interface{}{"remote": remote})
		internalWS.ServeWs(h.hub, h.asker, conn)
		h.logger.Info("ChatSocketHandler", "WebSocket session ended", map[string]interface{}{"remote": remote})
	})(c)
}

func (h *ChatSocketHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/chatbot/v1/ws", h.ServeWs)
}
