package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/saasfinder/backend/internal/api/handlers"
	"github.com/saasfinder/backend/internal/cache"
	"github.com/saasfinder/backend/internal/metrics"
	"github.com/saasfinder/backend/internal/middleware/ratelimit"
	"github.com/saasfinder/backend/internal/middleware/security"
	"github.com/saasfinder/backend/internal/ml/scorer"
	"github.com/saasfinder/backend/internal/ml/trends"
	"github.com/saasfinder/backend/internal/nlp/categorizer"
	"github.com/saasfinder/backend/internal/nlp/detector"
	"github.com/saasfinder/backend/internal/nlp/keywords"
	"github.com/saasfinder/backend/internal/nlp/sentence"
	"github.com/saasfinder/backend/internal/nlp/sentiment"
	"github.com/saasfinder/backend/internal/pipeline"
	"github.com/saasfinder/backend/internal/reddit"
	"github.com/saasfinder/backend/internal/scheduler"
	"github.com/saasfinder/backend/internal/storage/sqlite"
	"github.com/saasfinder/backend/pkg/config"
	appLogger "github.com/saasfinder/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting SaaS Finder API Server")

	metrics.Init()

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	err = sqliteClient.InitSchema()
	if err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	keywordManager, err := keywords.NewManager(cfg.Keywords.Path)
	if err != nil {
		appLogger.Fatal("Failed to load keyword patterns", zap.Error(err))
	}

	nlpCache := buildCache(cfg)

	det, err := buildDetector(cfg, keywordManager, nlpCache)
	if err != nil {
		appLogger.Fatal("Failed to build pain point detector", zap.Error(err))
	}

	engine := scorer.NewEngine(scorer.Config{
		SimilarityThreshold: cfg.Scoring.SimilarityThreshold,
		MinPainPoints:       cfg.Scoring.MinPainPoints,
		MinTotalScore:       cfg.Scoring.MinTotalScore,
	})

	processor := pipeline.NewProcessor(
		sqliteClient,
		sqliteClient,
		det,
		categorizer.New(nil),
		engine,
		cfg.NLP.BatchSize,
	)

	redditClient := reddit.NewClient(cfg.Reddit.ClientID, cfg.Reddit.ClientSecret, cfg.Reddit.UserAgent)
	collector := reddit.NewCollector(redditClient, sqliteClient, cfg.Reddit.Subreddits, cfg.Reddit.PostLimit)

	trendDetector := trends.NewDetector(sqliteClient)

	var sched *scheduler.Service
	if cfg.Scheduler.Enabled {
		sched = scheduler.NewService(collector, processor, cfg.Scheduler.Cron)
		if err := sched.Start(); err != nil {
			appLogger.Fatal("Failed to start scheduler", zap.Error(err))
		}
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{}))

	limiter := ratelimit.New(ratelimit.Config{})
	defer limiter.Stop()
	app.Use(limiter.Middleware())

	pipelineHandler := handlers.NewPipelineHandler(collector, processor)
	opportunityHandler := handlers.NewOpportunityHandler(sqliteClient)
	painPointHandler := handlers.NewPainPointHandler(sqliteClient)
	keywordHandler := handlers.NewKeywordHandler(keywordManager)
	cacheHandler := handlers.NewCacheHandler(nlpCache)
	trendHandler := handlers.NewTrendHandler(trendDetector)

	api := app.Group("/api/v1")

	api.Post("/pipeline/run", pipelineHandler.Run)
	api.Get("/pipeline/status", pipelineHandler.Status)

	api.Get("/opportunities", opportunityHandler.List)
	api.Get("/opportunities/stats", opportunityHandler.Stats)

	api.Get("/painpoints", painPointHandler.List)

	api.Get("/keywords", keywordHandler.List)
	api.Post("/keywords", keywordHandler.Add)
	api.Delete("/keywords", keywordHandler.Remove)
	api.Post("/keywords/export", keywordHandler.Export)

	api.Post("/cache/clear", cacheHandler.Clear)

	api.Get("/trends", trendHandler.List)
	api.Get("/trends/seasonal", trendHandler.Seasonal)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	if sched != nil {
		sched.Stop()
	}
	app.Shutdown()
	appLogger.Info("Server stopped")
}

// buildCache picks the NLP result cache backend. A redis outage is not
// fatal; the in-memory cache keeps the pipeline running.
func buildCache(cfg *config.Config) cache.Cache {
	if !cfg.Redis.Enabled {
		return cache.NewMemory()
	}

	redisCache, err := cache.NewRedis(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		time.Duration(cfg.Redis.CacheTTL)*time.Second,
	)
	if err != nil {
		appLogger.Warn("Failed to connect to Redis, using in-memory cache", zap.Error(err))
		return cache.NewMemory()
	}
	return redisCache
}

// buildDetector assembles the configured extraction strategy. Advanced mode
// needs a classifier API key; without one it degrades to basic with a
// warning instead of refusing to start.
func buildDetector(cfg *config.Config, keywordManager *keywords.Manager, nlpCache cache.Cache) (detector.Detector, error) {
	segmenter := sentence.NewProseSegmenter()

	basic, err := detector.NewBasicFromSource(segmenter, keywordManager)
	if err != nil {
		return nil, err
	}

	if !cfg.NLP.Advanced {
		return basic, nil
	}
	if cfg.NLP.ClassifierAPIKey == "" {
		appLogger.Warn("Advanced NLP enabled but no classifier API key configured, falling back to basic detection")
		return basic, nil
	}

	classifier := sentiment.NewOpenAIClassifier(
		cfg.NLP.ClassifierAPIKey,
		cfg.NLP.ClassifierModel,
		time.Duration(cfg.NLP.ClassifierTimeout)*time.Second,
	)

	return detector.NewAdvanced(basic, classifier, nlpCache, cfg.NLP.ConfidenceThreshold), nil
}
