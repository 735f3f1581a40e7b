package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissingAPIKey = errors.New("config: GEMINI_API_KEY (or GOOGLE_API_KEY) is required for the gemini provider")

type Config struct {
	App       AppConfig
	Corpus    CorpusConfig
	Index     IndexConfig
	Retrieval RetrievalConfig
	Embedding EmbeddingConfig
	LLM       LLMConfig
	Prompt    PromptConfig
	Market    MarketConfig
	Tracing   TracingConfig
	Keys      APIKeys
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	RedisURL           string
	AdminToken         string
}

type CorpusConfig struct {
	Path string
}

type IndexConfig struct {
	Backend    string // "sqlite", "postgres" or "memory"
	Path       string // directory holding the sqlite index file
	Connection string // postgres DSN

	// Parallel embedding calls while building the index.
	BuildConcurrency int
}

type RetrievalConfig struct {
	TopK int
}

type EmbeddingConfig struct {
	Provider         string // "gemini", "ollama" or "hashing"
	Model            string
	OllamaBaseURL    string
	OllamaModel      string
	HashingDimension int
}

type LLMConfig struct {
	Provider        string // "gemini" or "ollama"
	Model           string
	OllamaBaseURL   string
	Temperature     float64
	TopP            float64
	TopK            int
	MaxOutputTokens int
	Timeout         time.Duration
}

type PromptConfig struct {
	Style string // "sections" or "narrative"
}

type MarketConfig struct {
	Enabled      bool
	Period       string
	CacheBackend string // "memory" or "redis"
	CacheTTL     time.Duration
}

type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

type APIKeys struct {
	GoogleGemini string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	ollamaURL := getEnv("OLLAMA_BASE_URL", "http://localhost:11434")
	llmProvider := strings.ToLower(getEnv("LLM_PROVIDER", "gemini"))
	defaultModel := "gemini-2.5-flash"
	if llmProvider == "ollama" {
		defaultModel = "llama3.1"
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			RedisURL:           getEnv("REDIS_URL", ""),
			AdminToken:         getEnv("ADMIN_TOKEN", ""),
		},
		Corpus: CorpusConfig{
			Path: getEnv("CORPUS_PATH", "data/Soros_Questions.xlsx"),
		},
		Index: IndexConfig{
			Backend:    strings.ToLower(getEnv("INDEX_BACKEND", "sqlite")),
			Path:       getEnv("INDEX_PATH", "data/index"),
			Connection: getEnv("DB_CONNECTION_STRING", ""),

			BuildConcurrency: getEnvAsInt("INDEX_BUILD_CONCURRENCY", 4),
		},
		Retrieval: RetrievalConfig{
			TopK: getEnvAsInt("RETRIEVAL_TOP_K", 5),
		},
		Embedding: EmbeddingConfig{
			Provider:         strings.ToLower(getEnv("EMBEDDING_PROVIDER", "gemini")),
			Model:            getEnv("EMBEDDING_MODEL", "text-embedding-004"),
			OllamaBaseURL:    ollamaURL,
			OllamaModel:      getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			HashingDimension: getEnvAsInt("HASHING_DIMENSION", 512),
		},
		LLM: LLMConfig{
			Provider:        llmProvider,
			Model:           getEnv("LLM_MODEL", defaultModel),
			OllamaBaseURL:   ollamaURL,
			Temperature:     getEnvAsFloat("LLM_TEMPERATURE", 0.4),
			TopP:            getEnvAsFloat("LLM_TOP_P", 0.9),
			TopK:            getEnvAsInt("LLM_TOP_K", 40),
			MaxOutputTokens: getEnvAsInt("LLM_MAX_OUTPUT_TOKENS", 1024),
			Timeout:         getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
		},
		Prompt: PromptConfig{
			Style: strings.ToLower(getEnv("PROMPT_STYLE", "sections")),
		},
		Market: MarketConfig{
			Enabled:      getEnvAsBool("MARKET_ENABLED", true),
			Period:       getEnv("MARKET_PERIOD", "6mo"),
			CacheBackend: strings.ToLower(getEnv("MARKET_CACHE_BACKEND", "memory")),
			CacheTTL:     getEnvAsDuration("MARKET_CACHE_TTL", 5*time.Minute),
		},
		Tracing: TracingConfig{
			Enabled:  getEnvAsBool("OTEL_ENABLED", false),
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		Keys: APIKeys{
			GoogleGemini: firstNonEmpty(os.Getenv("GEMINI_API_KEY"), os.Getenv("GOOGLE_API_KEY")),
		},
	}
}

// Validate reports configuration that makes the pipeline impossible to construct.
func (c *Config) Validate() error {
	if (c.LLM.Provider == "gemini" || c.Embedding.Provider == "gemini") && c.Keys.GoogleGemini == "" {
		return ErrMissingAPIKey
	}
	if c.Index.Backend == "postgres" && c.Index.Connection == "" {
		return errors.New("config: DB_CONNECTION_STRING is required for INDEX_BACKEND=postgres")
	}
	if c.Retrieval.TopK < 0 {
		return errors.New("config: RETRIEVAL_TOP_K must be >= 0")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
