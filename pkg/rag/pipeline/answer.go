package pipeline

import (
	"context"
	"strings"
	"time"

	"soros-rag-be/internal/constant"
	"soros-rag-be/internal/entity"
	"soros-rag-be/internal/pkg/logger"
	"soros-rag-be/pkg/rag/response"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("soros-rag-be/pipeline")

type Composer interface {
	BuildContext(ctx context.Context, question string) entity.PromptContext
	Render(pc entity.PromptContext) string
	Style() string
}

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// AnswerResult is the detailed outcome of one question.
type AnswerResult struct {
	Answer       string
	DirectAnswer string
	Ticker       string
	Sources      []entity.RetrievalResult
	Style        string
}

// AnswerPipeline wires composition and generation into a single question-in, text-out call.
type AnswerPipeline struct {
	composer  Composer
	generator Generator
	logger    logger.ILogger
}

func NewAnswerPipeline(composer Composer, generator Generator, log logger.ILogger) *AnswerPipeline {
	return &AnswerPipeline{
		composer:  composer,
		generator: generator,
		logger:    log,
	}
}

// Answer always returns text; failures further down surface as explanatory messages.
func (p *AnswerPipeline) Answer(ctx context.Context, question string) string {
	return p.AnswerDetailed(ctx, question).Answer
}

func (p *AnswerPipeline) AnswerDetailed(ctx context.Context, question string) *AnswerResult {
	ctx, span := tracer.Start(ctx, "pipeline.Answer")
	defer span.End()

	style := p.composer.Style()
	if strings.TrimSpace(question) == "" {
		span.SetAttributes(attribute.Bool("rag.empty_question", true))
		return &AnswerResult{
			Answer:       constant.EmptyQuestionReply,
			DirectAnswer: constant.EmptyQuestionReply,
			Style:        style,
		}
	}

	start := time.Now()

	pc := p.buildContext(ctx, question)
	prompt := p.composer.Render(pc)

	answer := p.generate(ctx, prompt)

	p.logger.Info("PIPELINE", "Question answered", map[string]interface{}{
		"ticker":      pc.Ticker,
		"sources":     len(pc.Retrieved),
		"style":       style,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return &AnswerResult{
		Answer:       answer,
		DirectAnswer: response.ExtractDirectAnswer(answer),
		Ticker:       pc.Ticker,
		Sources:      pc.Retrieved,
		Style:        style,
	}
}

func (p *AnswerPipeline) buildContext(ctx context.Context, question string) entity.PromptContext {
	ctx, span := tracer.Start(ctx, "pipeline.BuildContext")
	defer span.End()

	pc := p.composer.BuildContext(ctx, question)
	span.SetAttributes(
		attribute.Int("rag.retrieved", len(pc.Retrieved)),
		attribute.String("rag.ticker", pc.Ticker),
		attribute.Bool("rag.market_enabled", pc.MarketEnabled),
	)
	return pc
}

func (p *AnswerPipeline) generate(ctx context.Context, prompt string) string {
	ctx, span := tracer.Start(ctx, "pipeline.Generate", trace.WithAttributes(
		attribute.Int("rag.prompt_chars", len(prompt)),
	))
	defer span.End()

	answer, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		p.logger.Error("PIPELINE", "Generation rejected prompt", map[string]interface{}{
			"error": err.Error(),
		})
		return constant.GenerationFailedReply
	}
	return answer
}
