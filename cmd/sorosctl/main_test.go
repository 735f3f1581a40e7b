package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoBot struct{ asked []string }

func (b *echoBot) Answer(_ context.Context, q string) string {
	b.asked = append(b.asked, q)
	return "1. Direct Answer: " + q
}

func init() {
	color.NoColor = true
}

func TestRunChat_ExitCommand(t *testing.T) {
	bot := &echoBot{}
	var out bytes.Buffer

	err := runChat(context.Background(), bot, strings.NewReader("How does Soros view risk?\n\nQUIT\nnever asked\n"), &out)
	require.NoError(t, err)

	assert.Equal(t, []string{"How does Soros view risk?"}, bot.asked)
	text := out.String()
	assert.Contains(t, text, "=== Soros RAG Chatbot ===")
	assert.Contains(t, text, "SorosBot: 1. Direct Answer: How does Soros view risk?")
	assert.Contains(t, text, "SorosBot: Please type a question.")
	assert.True(t, strings.HasSuffix(text, "Goodbye!\n"))
}

func TestRunChat_EOF(t *testing.T) {
	bot := &echoBot{}
	var out bytes.Buffer

	require.NoError(t, runChat(context.Background(), bot, strings.NewReader("What is reflexivity?"), &out))

	assert.Equal(t, []string{"What is reflexivity?"}, bot.asked)
	assert.True(t, strings.HasSuffix(out.String(), "\nGoodbye!\n"))
}

func TestRunAsk(t *testing.T) {
	bot := &echoBot{}
	var out bytes.Buffer

	require.NoError(t, runAsk(context.Background(), bot, "Is TSLA risky?", &out))
	assert.Equal(t, "1. Direct Answer: Is TSLA risky?\n", out.String())
}

func TestRootCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"chat", "ask", "reindex", "models"} {
		assert.True(t, names[want], want)
	}
}
