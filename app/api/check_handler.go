package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Jerrywu108150/Sentiment-Stocks-APP/config"
	"github.com/Jerrywu108150/Sentiment-Stocks-APP/types"
)

type CheckHandler struct {
	cfg config.Config
}

func NewCheckHandler(cfg config.Config) *CheckHandler {
	return &CheckHandler{cfg: cfg}
}

func (h *CheckHandler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(types.HealthResponse{
		OK:       true,
		Model:    h.cfg.LLMModel,
		Provider: h.cfg.GenerationEndpoint(),
	})
}
