package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"soros-rag-be/internal/constant"
	"soros-rag-be/internal/entity"
	"soros-rag-be/internal/pkg/logger"
	"soros-rag-be/internal/repository/memory"
	"soros-rag-be/pkg/embedding"
	"soros-rag-be/pkg/llm"
	"soros-rag-be/pkg/rag/prompt"
	"soros-rag-be/pkg/rag/response"
	"soros-rag-be/pkg/rag/retriever"
	"soros-rag-be/pkg/ticker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBackend struct {
	reply   string
	err     error
	prompts []string
}

func (b *recordingBackend) Name() string { return "recording" }

func (b *recordingBackend) Complete(_ context.Context, p string, _ llm.GenerationConfig) (*llm.RawResponse, error) {
	b.prompts = append(b.prompts, p)
	if b.err != nil {
		return nil, b.err
	}
	text := b.reply
	return &llm.RawResponse{
		Text:       &text,
		Candidates: []llm.Candidate{{Parts: []string{text}, FinishReason: "STOP"}},
	}, nil
}

type stubMarket struct{ calls int }

func (m *stubMarket) Snapshot(_ context.Context, t, _ string) string {
	m.calls++
	return "Ticker: " + t + "\nLatest close: 42.00"
}

func newPipeline(t *testing.T, backend llm.Backend, mkt *stubMarket) *AnswerPipeline {
	t.Helper()
	log := logger.NewNopLogger()

	corpus := []entity.CorpusEntry{
		{Id: 0, Label: "risk", Question: "How does Soros view risk?", Answer: "Reflexively."},
	}
	r, err := retriever.New(context.Background(), corpus, embedding.NewHashingProvider(128), memory.NewCorpusIndexRepository(), log)
	require.NoError(t, err)

	opts := []prompt.Option{}
	if mkt != nil {
		opts = append(opts, prompt.WithMarket(mkt, "6mo"))
	}
	composer, err := prompt.NewComposer(r, ticker.Default(), opts...)
	require.NoError(t, err)

	gen := response.NewGenerator(backend, llm.DefaultGenerationConfig(), log)
	return NewAnswerPipeline(composer, gen, log)
}

func TestAnswer_EndToEnd(t *testing.T) {
	backend := &recordingBackend{reply: "1. Direct Answer: X"}
	p := newPipeline(t, backend, nil)

	got := p.Answer(context.Background(), "risk?")

	assert.Equal(t, "1. Direct Answer: X", got)
	require.Len(t, backend.prompts, 1)
	assert.Contains(t, backend.prompts[0], "Q: How does Soros view risk?\nA: Reflexively.")
	assert.Contains(t, backend.prompts[0], constant.NoTickerDetected)
	assert.True(t, strings.HasSuffix(backend.prompts[0], "[QUESTION]\nrisk?\n\n[INSTRUCTIONS TO THE MODEL]\n"+constant.ModelInstructionsSections))
}

func TestAnswer_EmptyQuestionSkipsEverything(t *testing.T) {
	backend := &recordingBackend{reply: "unused"}
	mkt := &stubMarket{}
	p := newPipeline(t, backend, mkt)

	for _, q := range []string{"", "   ", "\n\t"} {
		assert.Equal(t, constant.EmptyQuestionReply, p.Answer(context.Background(), q))
	}
	assert.Empty(t, backend.prompts)
	assert.Zero(t, mkt.calls)
}

func TestAnswerDetailed(t *testing.T) {
	backend := &recordingBackend{reply: "1. Direct Answer\nWatch the narrative.\n\n2. Soros-style Reasoning\nReflexivity."}
	mkt := &stubMarket{}
	p := newPipeline(t, backend, mkt)

	res := p.AnswerDetailed(context.Background(), "How would Soros view AAPL risk?")

	assert.Equal(t, "AAPL", res.Ticker)
	assert.Equal(t, "Watch the narrative.", res.DirectAnswer)
	assert.Equal(t, constant.PromptStyleSections, res.Style)
	require.Len(t, res.Sources, 1)
	assert.Equal(t, 0, res.Sources[0].Entry.Id)
	assert.Equal(t, 1, mkt.calls)
	assert.Contains(t, backend.prompts[0], "Market snapshot for AAPL (background only, do not just repeat):\nTicker: AAPL")
}

func TestAnswer_BackendFailureStillReturnsText(t *testing.T) {
	backend := &recordingBackend{err: llm.ErrProviderDown}
	p := newPipeline(t, backend, nil)

	got := p.Answer(context.Background(), "What is reflexivity?")
	assert.NotEmpty(t, strings.TrimSpace(got))
	assert.Contains(t, got, "unavailable")
}

type failingGenerator struct{}

func (failingGenerator) Generate(context.Context, string) (string, error) {
	return "", errors.New("boom")
}

type fixedComposer struct{}

func (fixedComposer) BuildContext(_ context.Context, q string) entity.PromptContext {
	return entity.PromptContext{Question: q}
}
func (fixedComposer) Render(pc entity.PromptContext) string { return pc.Question }
func (fixedComposer) Style() string                          { return constant.PromptStyleNarrative }

func TestAnswer_GeneratorErrorFallsBack(t *testing.T) {
	p := NewAnswerPipeline(fixedComposer{}, failingGenerator{}, logger.NewNopLogger())

	res := p.AnswerDetailed(context.Background(), "anything")
	assert.Equal(t, constant.GenerationFailedReply, res.Answer)
	assert.Equal(t, constant.PromptStyleNarrative, res.Style)
}
