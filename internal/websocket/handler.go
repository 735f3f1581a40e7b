package websocket

import (
	"context"

	"github.com/gofiber/websocket/v2"
)

// ServeWs runs one chat connection until the peer goes away.
func ServeWs(hub *Hub, asker Asker, conn *websocket.Conn) {
	client := newClient(hub, conn, asker)
	if !hub.Register(client) {
		conn.Close()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.writePump()
	go client.answerLoop(ctx)
	client.readPump()
}
