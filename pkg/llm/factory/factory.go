package factory

import (
	"fmt"

	"soros-rag-be/pkg/llm"
	"soros-rag-be/pkg/llm/gemini"
	"soros-rag-be/pkg/llm/ollama"
)

func NewBackend(providerType, modelName, baseURL, apiKey string) (llm.Backend, error) {
	switch providerType {
	case "gemini", "":
		return gemini.NewGeminiProvider(apiKey, modelName)
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		if modelName == "" {
			modelName = "llama3.1"
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
