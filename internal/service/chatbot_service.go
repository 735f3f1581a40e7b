package service

import (
	"context"
	"strings"
	"time"

	"soros-rag-be/internal/dto"
	"soros-rag-be/internal/pkg/logger"
	"soros-rag-be/internal/pkg/serverutils"
	"soros-rag-be/pkg/rag/pipeline"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const EventIndexRebuilt = "index_rebuilt"

type IChatbotService interface {
	Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error)
	Reindex(ctx context.Context) (*dto.ReindexResponse, error)
	Health(ctx context.Context) *dto.HealthResponse
}

type Answerer interface {
	AnswerDetailed(ctx context.Context, question string) *pipeline.AnswerResult
}

type Indexer interface {
	Rebuild(ctx context.Context) (int, error)
	Size() int
}

// EventBroadcaster fans service events out to connected chat clients.
type EventBroadcaster interface {
	Broadcast(event dto.ChatSocketEvent)
}

// ServiceInfo is static configuration surfaced by the health endpoint.
type ServiceInfo struct {
	IndexBackend  string
	LLMProvider   string
	PromptStyle   string
	MarketEnabled bool
}

type chatbotService struct {
	answerer    Answerer
	indexer     Indexer
	broadcaster EventBroadcaster
	info        ServiceInfo
	logger      logger.ILogger
}

func NewChatbotService(answerer Answerer, indexer Indexer, broadcaster EventBroadcaster, info ServiceInfo, log logger.ILogger) IChatbotService {
	return &chatbotService{
		answerer:    answerer,
		indexer:     indexer,
		broadcaster: broadcaster,
		info:        info,
		logger:      log,
	}
}

func (s *chatbotService) Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error) {
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}

	res := s.answerer.AnswerDetailed(ctx, req.Question)

	sources := make([]dto.SourceDTO, 0, len(res.Sources))
	for _, r := range res.Sources {
		sources = append(sources, dto.SourceDTO{
			Id:       r.Entry.Id,
			Label:    r.Entry.Label,
			Question: r.Entry.Question,
			Score:    r.Score,
		})
	}

	return &dto.AskResponse{
		Id:           uuid.New(),
		Question:     strings.TrimSpace(req.Question),
		Answer:       res.Answer,
		DirectAnswer: res.DirectAnswer,
		Ticker:       res.Ticker,
		Style:        res.Style,
		Sources:      sources,
		CreatedAt:    time.Now(),
	}, nil
}

func (s *chatbotService) Reindex(ctx context.Context) (*dto.ReindexResponse, error) {
	start := time.Now()

	n, err := s.indexer.Rebuild(ctx)
	if err != nil {
		s.logger.Error("CHATBOT", "Reindex failed", map[string]interface{}{"error": err.Error()})
		return nil, fiber.NewError(fiber.StatusServiceUnavailable, "Index rebuild failed: "+err.Error())
	}

	res := &dto.ReindexResponse{
		Documents:  n,
		DurationMs: time.Since(start).Milliseconds(),
	}
	s.logger.Info("CHATBOT", "Index rebuilt", map[string]interface{}{
		"documents":   res.Documents,
		"duration_ms": res.DurationMs,
	})

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(dto.ChatSocketEvent{Type: EventIndexRebuilt, Data: res})
	}
	return res, nil
}

func (s *chatbotService) Health(ctx context.Context) *dto.HealthResponse {
	return &dto.HealthResponse{
		Status:        "ok",
		Documents:     s.indexer.Size(),
		IndexBackend:  s.info.IndexBackend,
		LLMProvider:   s.info.LLMProvider,
		PromptStyle:   s.info.PromptStyle,
		MarketEnabled: s.info.MarketEnabled,
	}
}
