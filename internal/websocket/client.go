package websocket

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"soros-rag-be/internal/dto"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024

	EventAnswer = "answer"
	EventError  = "error"
)

// Asker answers a single chat question.
type Asker interface {
	Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error)
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Id  uuid.UUID
	hub *Hub

	conn  *websocket.Conn
	asker Asker

	// Buffered channel of outbound messages.
	send chan []byte

	// Questions are answered one at a time, in arrival order.
	questions chan string

	done      chan struct{}
	closeOnce sync.Once
}

func newClient(hub *Hub, conn *websocket.Conn, asker Asker) *Client {
	return &Client{
		Id:        uuid.New(),
		hub:       hub,
		conn:      conn,
		asker:     asker,
		send:      make(chan []byte, 256),
		questions: make(chan string, 16),
		done:      make(chan struct{}),
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// enqueue never blocks; a full buffer drops the frame.
func (c *Client) enqueue(data []byte) {
	select {
	case <-c.done:
		return
	default:
	}

	select {
	case c.send <- data:
	default:
		c.hub.logger.Warn("Client", "Send buffer full, dropping message", map[string]interface{}{"client_id": c.Id})
	}
}

func (c *Client) enqueueEvent(eventType string, data interface{}) {
	payload, err := json.Marshal(dto.ChatSocketEvent{Type: eventType, Data: data})
	if err != nil {
		return
	}
	c.enqueue(payload)
}

// readPump turns inbound frames into questions.
func (c *Client) readPump() {
	defer func() {
		c.close()
		c.hub.Unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("Client", "Unexpected close", map[string]interface{}{"client_id": c.Id, "error": err.Error()})
			}
			return
		}

		question, ok := parseQuestion(message)
		if !ok {
			c.enqueueEvent(EventError, errorPayload("Invalid message, expected {\"question\": string}"))
			continue
		}

		select {
		case c.questions <- question:
		default:
			c.enqueueEvent(EventError, errorPayload("Too many pending questions"))
		}
	}
}

// answerLoop runs questions through the asker sequentially.
func (c *Client) answerLoop(ctx context.Context) {
	for {
		select {
		case <-c.done:
			return
		case q := <-c.questions:
			res, err := c.asker.Ask(ctx, &dto.AskRequest{Question: q})
			if err != nil {
				c.enqueueEvent(EventError, errorPayload(err.Error()))
				continue
			}
			c.enqueueEvent(EventAnswer, dto.ChatSocketReply{
				Id:           res.Id,
				Question:     res.Question,
				Answer:       res.Answer,
				DirectAnswer: res.DirectAnswer,
				Ticker:       res.Ticker,
			})
		}
	}
}

// writePump pumps messages from the send buffer to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.close()
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		}
	}
}

func parseQuestion(message []byte) (string, bool) {
	var req dto.ChatSocketRequest
	if err := json.Unmarshal(message, &req); err != nil {
		// Plain text frames are accepted as the question itself.
		text := strings.TrimSpace(string(message))
		if text == "" || strings.HasPrefix(text, "{") {
			return "", false
		}
		return text, true
	}
	return req.Question, true
}

func errorPayload(message string) map[string]string {
	return map[string]string{"message": message}
}
