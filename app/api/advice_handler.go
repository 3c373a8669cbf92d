package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Jerrywu108150/Sentiment-Stocks-APP/advice"
	"github.com/Jerrywu108150/Sentiment-Stocks-APP/app/agent"
	"github.com/Jerrywu108150/Sentiment-Stocks-APP/corpus"
	"github.com/Jerrywu108150/Sentiment-Stocks-APP/index"
	"github.com/Jerrywu108150/Sentiment-Stocks-APP/types"
)

// AdviceHandler serves both advice endpoints. The no-RAG path goes
// straight to the generator; the RAG path ingests today's news for the
// symbol and grounds the prompt in the retrieved context first.
type AdviceHandler struct {
	generator agent.Generator
	builder   *corpus.Builder
	idx       *index.Manager
	topK      int
	logger    *slog.Logger
}

func NewAdviceHandler(generator agent.Generator, builder *corpus.Builder, idx *index.Manager, topK int) *AdviceHandler {
	return &AdviceHandler{
		generator: generator,
		builder:   builder,
		idx:       idx,
		topK:      topK,
		logger:    slog.Default(),
	}
}

func (h *AdviceHandler) HandleAdviceNoRAG(c *fiber.Ctx) error {
	var params types.AdviceParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}
	if errors := types.Validate(&params); len(errors) > 0 {
		return NewValidationError(errors)
	}

	return h.respond(c, params, "")
}

func (h *AdviceHandler) HandleAdviceRAG(c *fiber.Ctx) error {
	var params types.AdviceParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}
	if errors := types.Validate(&params); len(errors) > 0 {
		return NewValidationError(errors)
	}

	ctx := context.Background()
	today := time.Now()

	chunks, err := h.builder.Build(ctx, params.Symbol, today)
	if err != nil {
		return err
	}
	if err := h.idx.Upsert(ctx, params.Symbol, chunks); err != nil {
		return err
	}

	query := fmt.Sprintf("Recent investment news about %s", params.Symbol)
	contextText, err := h.idx.Retrieve(ctx, params.Symbol, query, h.topK)
	if err != nil {
		return err
	}

	return h.respond(c, params, contextText)
}

func (h *AdviceHandler) respond(c *fiber.Ctx, params types.AdviceParams, contextText string) error {
	prompt := advice.ComposePrompt(params.Symbol, params.Level, params.Score, params.Keywords, contextText)

	text, err := h.generator.Complete(context.Background(), prompt)
	if err != nil {
		return err
	}

	h.logger.Info("advice generated", "symbol", params.Symbol, "level", params.Level)
	return c.JSON(types.AdviceResponse{
		Suggestions: advice.ExtractSuggestions(text),
	})
}
