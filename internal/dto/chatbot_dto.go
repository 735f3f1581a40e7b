package dto

import (
	"time"

	"github.com/google/uuid"
)

// AskRequest accepts an empty question; the pipeline answers it with guidance.
type AskRequest struct {
	Question string `json:"question" validate:"max=2000"`
}

type SourceDTO struct {
	Id       int     `json:"id"`
	Label    string  `json:"label"`
	Question string  `json:"question"`
	Score    float64 `json:"score"`
}

type AskResponse struct {
	Id           uuid.UUID   `json:"id"`
	Question     string      `json:"question"`
	Answer       string      `json:"answer"`
	DirectAnswer string      `json:"direct_answer"`
	Ticker       string      `json:"ticker,omitempty"`
	Style        string      `json:"style"`
	Sources      []SourceDTO `json:"sources"`
	CreatedAt    time.Time   `json:"created_at"`
}

type ReindexResponse struct {
	Documents  int   `json:"documents"`
	DurationMs int64 `json:"duration_ms"`
}

type HealthResponse struct {
	Status        string `json:"status"`
	Documents     int    `json:"documents"`
	IndexBackend  string `json:"index_backend"`
	LLMProvider   string `json:"llm_provider"`
	PromptStyle   string `json:"prompt_style"`
	MarketEnabled bool   `json:"market_enabled"`
}

// ChatSocketRequest is one inbound websocket frame.
type ChatSocketRequest struct {
	Question string `json:"question"`
}

type ChatSocketReply struct {
	Id           uuid.UUID `json:"id"`
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	DirectAnswer string    `json:"direct_answer"`
	Ticker       string    `json:"ticker,omitempty"`
}

// ChatSocketEvent wraps every outbound frame so clients can tell replies from broadcasts.
type ChatSocketEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}
