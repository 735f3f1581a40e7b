package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"soros-rag-be/internal/dto"
	"soros-rag-be/internal/entity"
	"soros-rag-be/internal/pkg/logger"
	"soros-rag-be/pkg/rag/pipeline"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnswerer struct{ questions []string }

func (f *fakeAnswerer) AnswerDetailed(_ context.Context, q string) *pipeline.AnswerResult {
	f.questions = append(f.questions, q)
	return &pipeline.AnswerResult{
		Answer:       "1. Direct Answer: Reflexively.",
		DirectAnswer: "Reflexively.",
		Ticker:       "TSLA",
		Style:        "sections",
		Sources: []entity.RetrievalResult{
			{Entry: entity.CorpusEntry{Id: 2, Label: "risk", Question: "How does Soros view risk?"}, Score: 0.75},
		},
	}
}

type fakeIndexer struct {
	err   error
	calls int
}

func (f *fakeIndexer) Rebuild(context.Context) (int, error) {
	f.calls++
	return 12, f.err
}

func (f *fakeIndexer) Size() int { return 12 }

type recordingBroadcaster struct{ events []dto.ChatSocketEvent }

func (r *recordingBroadcaster) Broadcast(e dto.ChatSocketEvent) { r.events = append(r.events, e) }

func newService(a Answerer, i Indexer, b EventBroadcaster) IChatbotService {
	info := ServiceInfo{IndexBackend: "memory", LLMProvider: "gemini", PromptStyle: "sections", MarketEnabled: true}
	return NewChatbotService(a, i, b, info, logger.NewNopLogger())
}

func TestAsk_MapsPipelineResult(t *testing.T) {
	answerer := &fakeAnswerer{}
	svc := newService(answerer, &fakeIndexer{}, nil)

	res, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "  Is TSLA risky?  "})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, res.Id)
	assert.Equal(t, "Is TSLA risky?", res.Question)
	assert.Equal(t, "Reflexively.", res.DirectAnswer)
	assert.Equal(t, "TSLA", res.Ticker)
	assert.Equal(t, []dto.SourceDTO{{Id: 2, Label: "risk", Question: "How does Soros view risk?", Score: 0.75}}, res.Sources)
	assert.Equal(t, []string{"  Is TSLA risky?  "}, answerer.questions)
}

func TestAsk_RejectsOversizedQuestion(t *testing.T) {
	answerer := &fakeAnswerer{}
	svc := newService(answerer, &fakeIndexer{}, nil)

	_, err := svc.Ask(context.Background(), &dto.AskRequest{Question: strings.Repeat("a", 2001)})

	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
	assert.Empty(t, answerer.questions)
}

func TestAsk_EmptyQuestionIsPassedThrough(t *testing.T) {
	answerer := &fakeAnswerer{}
	svc := newService(answerer, &fakeIndexer{}, nil)

	_, err := svc.Ask(context.Background(), &dto.AskRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{""}, answerer.questions)
}

func TestReindex_BroadcastsEvent(t *testing.T) {
	b := &recordingBroadcaster{}
	svc := newService(&fakeAnswerer{}, &fakeIndexer{}, b)

	res, err := svc.Reindex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, res.Documents)

	require.Len(t, b.events, 1)
	assert.Equal(t, EventIndexRebuilt, b.events[0].Type)
	assert.Equal(t, res, b.events[0].Data)
}

func TestReindex_Failure(t *testing.T) {
	b := &recordingBroadcaster{}
	svc := newService(&fakeAnswerer{}, &fakeIndexer{err: errors.New("disk full")}, b)

	_, err := svc.Reindex(context.Background())

	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusServiceUnavailable, fe.Code)
	assert.Empty(t, b.events)
}

func TestHealth(t *testing.T) {
	svc := newService(&fakeAnswerer{}, &fakeIndexer{}, nil)

	h := svc.Health(context.Background())
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, 12, h.Documents)
	assert.Equal(t, "memory", h.IndexBackend)
	assert.True(t, h.MarketEnabled)
}
