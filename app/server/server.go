package server

import (
	"context"
	"log"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/Jerrywu108150/Sentiment-Stocks-APP/advice"
	"github.com/Jerrywu108150/Sentiment-Stocks-APP/app/agent"
	"github.com/Jerrywu108150/Sentiment-Stocks-APP/app/api"
	"github.com/Jerrywu108150/Sentiment-Stocks-APP/config"
	"github.com/Jerrywu108150/Sentiment-Stocks-APP/corpus"
	"github.com/Jerrywu108150/Sentiment-Stocks-APP/index"
	"github.com/Jerrywu108150/Sentiment-Stocks-APP/model"
	"github.com/Jerrywu108150/Sentiment-Stocks-APP/news"
	"github.com/Jerrywu108150/Sentiment-Stocks-APP/store"
)

var fiberConfig = fiber.Config{
	ErrorHandler: api.ErrorHandler,
}

type Server struct {
	cfg    config.Config
	logger *slog.Logger
}

func New(cfg config.Config) *Server {
	return &Server{
		cfg:    cfg,
		logger: slog.Default(),
	}
}

func (s *Server) Stop() {
	s.logger.Info("server stopped")
}

func (s *Server) Run() {
	ctx := context.Background()

	var st store.VectorStorer
	if s.cfg.PostgresDSN != "" {
		pg, err := store.NewPostgresStore(ctx, s.cfg.PostgresDSN, s.cfg.EmbeddingDim)
		if err != nil {
			log.Fatal("error to connect to Postgres database: ", err)
		}
		if err := pg.Init(ctx); err != nil {
			log.Fatal("error to create tables: ", err)
		}
		st = pg
	} else {
		s.logger.Warn("POSTGRES_DSN not set, collections will not survive restarts")
		st = store.NewMemoryStore()
	}

	generator, err := agent.New(s.cfg, advice.SystemPrompt)
	if err != nil {
		log.Fatal("generator setup: ", err)
	}

	splitter, err := corpus.NewSplitter(s.cfg.ChunkSize, s.cfg.ChunkOverlap)
	if err != nil {
		log.Fatal("splitter setup: ", err)
	}

	provider := news.NewProvider(s.cfg.FinnhubToken)
	if s.cfg.FinnhubToken == "" {
		s.logger.Warn("FINNHUB_TOKEN not set, serving placeholder news")
	}

	var (
		embedder      = model.NewOllamaEmbedder(s.cfg.OllamaHost, s.cfg.EmbeddingModel)
		builder       = corpus.NewBuilder(provider, splitter)
		idx           = index.NewManager(st, embedder)
		app           = fiber.New(fiberConfig)
		adviceHandler = api.NewAdviceHandler(generator, builder, idx, s.cfg.TopK)
		checkHandler  = api.NewCheckHandler(s.cfg)
	)

	app.Use(cors.New())

	app.Post("/advice_no_rag", adviceHandler.HandleAdviceNoRAG)
	app.Post("/advice_rag", adviceHandler.HandleAdviceRAG)
	app.Get("/health", checkHandler.HandleHealth)

	s.logger.Info("server listening",
		"addr", s.cfg.ServerAddr,
		"model", s.cfg.LLMModel,
		"provider", s.cfg.GenerationEndpoint())

	if err := app.Listen(s.cfg.ServerAddr); err != nil {
		s.logger.Error("error to start server", "error", err.Error())
	}
}
