package prompt

import (
	"context"
	"fmt"
	"strings"

	"soros-rag-be/internal/constant"
	"soros-rag-be/internal/entity"
	"soros-rag-be/pkg/market"
)

const defaultTopK = 5

// Retriever is the slice of the retriever the composer needs.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) []entity.RetrievalResult
}

type TickerDetector interface {
	Detect(text string) (string, bool)
}

// Composer builds the single prompt sent to the generator.
type Composer struct {
	retriever Retriever
	detector  TickerDetector
	market    market.SnapshotProvider
	style     string
	topK      int
	period    string
}

type Option func(*Composer)

func WithStyle(style string) Option {
	return func(c *Composer) { c.style = strings.ToLower(strings.TrimSpace(style)) }
}

func WithTopK(k int) Option {
	return func(c *Composer) {
		if k >= 0 {
			c.topK = k
		}
	}
}

// WithMarket enables snapshot lookups for detected tickers. Without it the market section
// reports that lookups are disabled.
func WithMarket(provider market.SnapshotProvider, period string) Option {
	return func(c *Composer) {
		c.market = provider
		if period != "" {
			c.period = period
		}
	}
}

func NewComposer(retriever Retriever, detector TickerDetector, opts ...Option) (*Composer, error) {
	c := &Composer{
		retriever: retriever,
		detector:  detector,
		style:     constant.PromptStyleSections,
		topK:      defaultTopK,
		period:    "6mo",
	}
	for _, opt := range opts {
		opt(c)
	}

	switch c.style {
	case constant.PromptStyleSections, constant.PromptStyleNarrative:
	default:
		return nil, fmt.Errorf("unknown prompt style %q (want %q or %q)",
			c.style, constant.PromptStyleSections, constant.PromptStyleNarrative)
	}
	return c, nil
}

func (c *Composer) Style() string {
	return c.style
}

// BuildContext gathers everything the prompt depends on: retrieval, ticker detection and the snapshot.
func (c *Composer) BuildContext(ctx context.Context, question string) entity.PromptContext {
	pc := entity.PromptContext{
		Question:      question,
		Retrieved:     c.retriever.Retrieve(ctx, question, c.topK),
		MarketEnabled: c.market != nil,
	}

	if ticker, ok := c.detector.Detect(question); ok {
		pc.Ticker = ticker
		if c.market != nil {
			pc.MarketSnapshot = c.market.Snapshot(ctx, ticker, c.period)
		}
	}
	return pc
}

// Render is pure: the same context always yields the same bytes.
func (c *Composer) Render(pc entity.PromptContext) string {
	system, instructions := constant.SystemInstructionsSections, constant.ModelInstructionsSections
	if c.style == constant.PromptStyleNarrative {
		system, instructions = constant.SystemInstructionsNarrative, constant.ModelInstructionsNarrative
	}

	var prompt strings.Builder

	prompt.WriteString(system)
	prompt.WriteString("\n\n")

	prompt.WriteString(constant.HeaderContextQA)
	prompt.WriteString("\n")
	prompt.WriteString(renderRetrieved(pc.Retrieved))
	prompt.WriteString("\n\n")

	prompt.WriteString(constant.HeaderContextMarket)
	prompt.WriteString("\n")
	prompt.WriteString(renderMarket(pc))
	prompt.WriteString("\n\n")

	prompt.WriteString(constant.HeaderQuestion)
	prompt.WriteString("\n")
	prompt.WriteString(pc.Question)
	prompt.WriteString("\n\n")

	prompt.WriteString(constant.HeaderInstructions)
	prompt.WriteString("\n")
	prompt.WriteString(instructions)
	prompt.WriteString("\n")

	return prompt.String()
}

func (c *Composer) Compose(ctx context.Context, question string) string {
	return c.Render(c.BuildContext(ctx, question))
}

func renderRetrieved(results []entity.RetrievalResult) string {
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, fmt.Sprintf("Q: %s\nA: %s", r.Entry.Question, r.Entry.Answer))
	}
	text := strings.Join(blocks, "\n\n")
	if strings.TrimSpace(text) == "" {
		return constant.NoRelevantContext
	}
	return text
}

func renderMarket(pc entity.PromptContext) string {
	switch {
	case pc.Ticker == "":
		return constant.NoTickerDetected
	case !pc.MarketEnabled:
		return constant.MarketLookupsOff
	default:
		snapshot := pc.MarketSnapshot
		if strings.TrimSpace(snapshot) == "" {
			snapshot = fmt.Sprintf("No market data available for %s.", pc.Ticker)
		}
		return fmt.Sprintf(constant.MarketSnapshotIntro, pc.Ticker, snapshot)
	}
}
