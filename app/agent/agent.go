package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Jerrywu108150/Sentiment-Stocks-APP/config"
)

const generateTimeout = 60 * time.Second

// Generator maps an instruction prompt to a completion string.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// New selects the generator backend from the configuration.
func New(cfg config.Config, system string) (Generator, error) {
	switch cfg.LLMProvider {
	case config.ProviderOllama:
		return NewOllamaGenerator(cfg.OllamaHost, cfg.LLMModel, system), nil
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai provider selected but OPENAI_API_KEY not set")
		}
		return NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.LLMModel, system), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLMProvider)
	}
}

// OllamaGenerator calls the Ollama generate API.
type OllamaGenerator struct {
	host   string
	model  string
	system string
	client *http.Client
}

type generateRequest struct {
	Model  string `json:"model"`
	System string `json:"system"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

func NewOllamaGenerator(host, model, system string) *OllamaGenerator {
	return &OllamaGenerator{
		host:   strings.TrimRight(host, "/"),
		model:  model,
		system: system,
		client: &http.Client{Timeout: generateTimeout},
	}
}

func (g *OllamaGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	defer func() {
		slog.Debug("generation finished", "model", g.model, "took", time.Since(start))
	}()

	reqBody, err := json.Marshal(generateRequest{
		Model:  g.model,
		System: g.system,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.host+"/api/generate", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call ollama generate API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read generate response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama generate API: status %d, body: %s", resp.StatusCode, string(body))
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Error != "" {
			return "", fmt.Errorf("ollama generate error: %s", parsed.Error)
		}
		if parsed.Response != "" {
			return parsed.Response, nil
		}
	}

	// Some deployments stream regardless of the flag; stitch the chunks.
	var output strings.Builder
	decoder := json.NewDecoder(bytes.NewReader(body))
	for decoder.More() {
		var chunk generateResponse
		if err := decoder.Decode(&chunk); err != nil {
			break
		}
		output.WriteString(chunk.Response)
	}

	return output.String(), nil
}
