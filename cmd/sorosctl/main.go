package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"soros-rag-be/internal/bootstrap"
	"soros-rag-be/internal/config"
	"soros-rag-be/internal/pkg/logger"
	"soros-rag-be/pkg/llm/gemini"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Answerer is the part of the pipeline the chat loop needs.
type Answerer interface {
	Answer(ctx context.Context, question string) string
}

var rootCmd = &cobra.Command{
	Use:           "sorosctl",
	Short:         "sorosctl - Soros-persona RAG chatbot",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd.Context(), func(ctx context.Context, c *bootstrap.Container) error {
			return runChat(ctx, c.Pipeline, cmd.InOrStdin(), cmd.OutOrStdout())
		})
	},
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a single question and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd.Context(), func(ctx context.Context, c *bootstrap.Container) error {
			return runAsk(ctx, c.Pipeline, strings.Join(args, " "), cmd.OutOrStdout())
		})
	},
}

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Clear the vector index and embed the corpus again",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd.Context(), func(ctx context.Context, c *bootstrap.Container) error {
			res, err := c.ChatbotService.Reindex(ctx)
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Indexed %d documents in %dms\n", res.Documents, res.DurationMs)
			return nil
		})
	},
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List Gemini models that support generateContent",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		out := cmd.OutOrStdout()

		found := "NOT FOUND"
		if cfg.Keys.GoogleGemini != "" {
			found = "FOUND"
		}
		fmt.Fprintln(out, "GEMINI_API_KEY / GOOGLE_API_KEY:", found)

		provider, err := gemini.NewGeminiProvider(cfg.Keys.GoogleGemini, cfg.LLM.Model)
		if err != nil {
			return err
		}
		names, err := provider.ListGenerativeModels(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintln(out, "\nAvailable models that support generateContent:")
		fmt.Fprintln(out)
		for _, name := range names {
			fmt.Fprintln(out, "-", name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chatCmd, askCmd, reindexCmd, modelsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// withContainer builds the application once per command. Logs go to the file only
// so they do not interleave with the transcript.
func withContainer(ctx context.Context, fn func(context.Context, *bootstrap.Container) error) error {
	cfg := config.Load()
	log := logger.NewFileOnlyLogger(cfg.App.LogFilePath)
	defer log.Sync()

	c, err := bootstrap.NewContainer(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("start chatbot: %w", err)
	}
	defer c.Close()

	return fn(ctx, c)
}

func runAsk(ctx context.Context, bot Answerer, question string, out io.Writer) error {
	fmt.Fprintln(out, bot.Answer(ctx, question))
	return nil
}

func runChat(ctx context.Context, bot Answerer, in io.Reader, out io.Writer) error {
	you := color.New(color.FgCyan, color.Bold)
	soros := color.New(color.FgGreen, color.Bold)

	fmt.Fprintln(out, "=== Soros RAG Chatbot ===")
	fmt.Fprintln(out, "Ask about trading, investing, macro, Soros philosophy, etc.")
	fmt.Fprintln(out, "Type 'exit' or 'quit' to stop.")
	fmt.Fprintln(out)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		you.Fprint(out, "You: ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Goodbye!")
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		switch {
		case strings.EqualFold(input, "exit"), strings.EqualFold(input, "quit"):
			fmt.Fprintln(out, "Goodbye!")
			return nil
		case input == "":
			soros.Fprint(out, "SorosBot: ")
			fmt.Fprintln(out, "Please type a question.")
			fmt.Fprintln(out)
			continue
		}

		reply := bot.Answer(ctx, input)
		if ctx.Err() != nil {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Goodbye!")
			return nil
		}

		fmt.Fprintln(out)
		soros.Fprint(out, "SorosBot: ")
		fmt.Fprintln(out, reply)
		fmt.Fprintln(out)
	}
}
