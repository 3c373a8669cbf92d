package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jerrywu108150/Sentiment-Stocks-APP/advice"
	"github.com/Jerrywu108150/Sentiment-Stocks-APP/config"
	"github.com/Jerrywu108150/Sentiment-Stocks-APP/corpus"
	"github.com/Jerrywu108150/Sentiment-Stocks-APP/index"
	"github.com/Jerrywu108150/Sentiment-Stocks-APP/news"
	"github.com/Jerrywu108150/Sentiment-Stocks-APP/store"
	"github.com/Jerrywu108150/Sentiment-Stocks-APP/types"
)

// stubGenerator records the prompt and replies with a canned completion.
type stubGenerator struct {
	completion string
	lastPrompt string
}

func (s *stubGenerator) Complete(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	return s.completion, nil
}

// flatEmbedder returns the same unit vector for every text, enough for
// the pipeline to run end to end without a model server.
type flatEmbedder struct{}

func (flatEmbedder) Embed(context.Context, string) ([]float32, error) {
	return []float32{1, 0, 0, 0}, nil
}

func newTestApp(t *testing.T, gen *stubGenerator) (*fiber.App, *store.MemoryStore) {
	t.Helper()

	splitter, err := corpus.NewSplitter(500, 50)
	require.NoError(t, err)

	st := store.NewMemoryStore()
	builder := corpus.NewBuilder(news.PlaceholderProvider{}, splitter)
	idx := index.NewManager(st, flatEmbedder{})

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	handler := NewAdviceHandler(gen, builder, idx, 3)
	app.Post("/advice_no_rag", handler.HandleAdviceNoRAG)
	app.Post("/advice_rag", handler.HandleAdviceRAG)
	app.Get("/health", NewCheckHandler(config.Config{
		LLMProvider: config.ProviderOllama,
		LLMModel:    "gemma2:2b",
		OllamaHost:  "http://localhost:11434",
	}).HandleHealth)

	return app, st
}

func postAdvice(t *testing.T, app *fiber.App, path string, body types.AdviceParams) *http.Response {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeAdvice(t *testing.T, resp *http.Response) types.AdviceResponse {
	t.Helper()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out types.AdviceResponse
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestAdviceNoRAGReturnsThreeSuggestions(t *testing.T) {
	gen := &stubGenerator{completion: "1. Diversify your holdings\n2. Watch volatility\n3. Avoid leverage"}
	app, _ := newTestApp(t, gen)

	resp := postAdvice(t, app, "/advice_no_rag", types.AdviceParams{
		Symbol:   "AAPL",
		Level:    "Optimistic",
		Score:    0.82,
		Keywords: []string{"earnings", "beat"},
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeAdvice(t, resp)
	require.Len(t, out.Suggestions, 3)
	for _, s := range out.Suggestions {
		assert.NotEmpty(t, s)
		assert.False(t, len(s) >= 2 && s[0] >= '0' && s[0] <= '9' && s[1] == '.',
			"suggestion still numbered: %q", s)
	}

	assert.Contains(t, gen.lastPrompt, "Sentiment today for AAPL: Optimistic (score 0.82)")
	assert.Contains(t, gen.lastPrompt, "Top keywords: earnings, beat")
	assert.NotContains(t, gen.lastPrompt, "Context:")
}

func TestAdviceRAGUsesPlaceholderContext(t *testing.T) {
	gen := &stubGenerator{completion: "1. Stay diversified\n2. Mind position sizing\n3. Review risk"}
	app, st := newTestApp(t, gen)

	resp := postAdvice(t, app, "/advice_rag", types.AdviceParams{
		Symbol:   "AAPL",
		Level:    "Neutral",
		Score:    0.5,
		Keywords: []string{"guidance"},
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeAdvice(t, resp)
	require.Len(t, out.Suggestions, 3)

	// Placeholder news was ingested into the symbol's collection and
	// surfaced as prompt context.
	assert.Equal(t, 2, st.Size(store.CollectionName("AAPL")))
	assert.Contains(t, gen.lastPrompt, "Context:")
	assert.Contains(t, gen.lastPrompt, "AAPL beats expectations in Q report")
}

func TestAdviceRAGRepeatedIngestAppends(t *testing.T) {
	gen := &stubGenerator{completion: "1. A\n2. B\n3. C"}
	app, st := newTestApp(t, gen)

	params := types.AdviceParams{Symbol: "TSLA", Level: "Pessimistic", Score: 0.2}
	resp := postAdvice(t, app, "/advice_rag", params)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = postAdvice(t, app, "/advice_rag", params)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Upsert is additive: the same placeholder pair lands twice.
	assert.Equal(t, 4, st.Size(store.CollectionName("TSLA")))
}

func TestInvalidLevelRejectedOnBothEndpoints(t *testing.T) {
	gen := &stubGenerator{completion: "unused"}
	app, st := newTestApp(t, gen)

	for _, path := range []string{"/advice_no_rag", "/advice_rag"} {
		resp := postAdvice(t, app, path, types.AdviceParams{
			Symbol: "AAPL",
			Level:  "Bullish",
			Score:  0.9,
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
	}

	// Rejected before any collaborator call: nothing was ingested.
	assert.Empty(t, gen.lastPrompt)
	assert.Equal(t, 0, st.Size(store.CollectionName("AAPL")))
}

func TestMissingLevelRejected(t *testing.T) {
	gen := &stubGenerator{completion: "unused"}
	app, _ := newTestApp(t, gen)

	resp := postAdvice(t, app, "/advice_no_rag", types.AdviceParams{Symbol: "AAPL"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMalformedBodyRejected(t *testing.T) {
	gen := &stubGenerator{completion: "unused"}
	app, _ := newTestApp(t, gen)

	req := httptest.NewRequest(http.MethodPost, "/advice_no_rag", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUnparsableCompletionStillThreeSuggestions(t *testing.T) {
	gen := &stubGenerator{completion: "The market is hard to predict."}
	app, _ := newTestApp(t, gen)

	resp := postAdvice(t, app, "/advice_no_rag", types.AdviceParams{
		Symbol: "NVDA",
		Level:  "Optimistic",
		Score:  0.7,
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeAdvice(t, resp)
	require.Len(t, out.Suggestions, 3)
	assert.Equal(t, "The market is hard to predict.", out.Suggestions[0])
	assert.Equal(t, advice.FallbackSuggestion, out.Suggestions[1])
	assert.Equal(t, advice.FallbackSuggestion, out.Suggestions[2])
}

func TestHealth(t *testing.T) {
	gen := &stubGenerator{}
	app, _ := newTestApp(t, gen)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out types.HealthResponse
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &out))

	assert.True(t, out.OK)
	assert.Equal(t, "gemma2:2b", out.Model)
	assert.Equal(t, "http://localhost:11434", out.Provider)
}
