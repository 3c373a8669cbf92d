package config

import (
	"os"
	"strconv"
)

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Config holds every knob the service reads from the environment.
// It is built once at startup and passed down explicitly; nothing else
// in the codebase touches os.Getenv.
type Config struct {
	ServerAddr string

	FinnhubToken string

	LLMProvider   string
	LLMModel      string
	OllamaHost    string
	OpenAIAPIKey  string
	OpenAIBaseURL string

	EmbeddingModel string
	EmbeddingDim   int

	PostgresDSN string

	ChunkSize    int
	ChunkOverlap int
	TopK         int
}

func Load() Config {
	return Config{
		ServerAddr:     getEnv("SERVER_ADDR", ":8080"),
		FinnhubToken:   getEnv("FINNHUB_TOKEN", ""),
		LLMProvider:    getEnv("LLM_PROVIDER", ProviderOllama),
		LLMModel:       getEnv("LLM_MODEL", "gemma2:2b"),
		OllamaHost:     getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", ""),
		EmbeddingModel: getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
		EmbeddingDim:   getEnvInt("EMBEDDING_DIM", 768),
		PostgresDSN:    getEnv("POSTGRES_DSN", ""),
		ChunkSize:      getEnvInt("CHUNK_SIZE", 500),
		ChunkOverlap:   getEnvInt("CHUNK_OVERLAP", 50),
		TopK:           getEnvInt("TOP_K", 3),
	}
}

// GenerationEndpoint reports the address answering generation calls,
// surfaced by the health endpoint.
func (c Config) GenerationEndpoint() string {
	if c.LLMProvider == ProviderOpenAI {
		if c.OpenAIBaseURL != "" {
			return c.OpenAIBaseURL
		}
		return "https://api.openai.com/v1"
	}
	return c.OllamaHost
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
