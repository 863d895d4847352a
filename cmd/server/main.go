package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-report-engine/internal/bot"
	"stock-report-engine/internal/cache"
	"stock-report-engine/internal/config"
	"stock-report-engine/internal/db"
	"stock-report-engine/internal/handler"
	"stock-report-engine/internal/job"
	"stock-report-engine/internal/newsfeed"
	"stock-report-engine/internal/pricer"
	"stock-report-engine/internal/provider"
	"stock-report-engine/internal/report"
	"stock-report-engine/internal/repository"
	"stock-report-engine/internal/service"
	"stock-report-engine/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "stock-report-engine/docs"
)

var (
	loadEnvFunc            = godotenv.Load
	loadConfigFunc         = config.Load
	initPostgresFunc       = db.InitPostgres
	initRedisFunc          = cache.InitRedis
	initTracerFunc         = tracing.InitTracer
	runMigrationsFunc      = repository.RunMigrations
	newNewsServiceFunc     = service.NewNewsService
	newPriceServiceFunc    = service.NewPriceService
	newReportServiceFunc   = service.NewReportService
	newNewsPollerFunc      = job.NewNewsPoller
	startPollerFunc        = func(p *job.NewsPoller, ctx context.Context) { go p.Start(ctx) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Stock Report Engine API
// @version         1.0
// @description     Stock report generation service with news ingestion and price scraping.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Postgres and Redis
	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	os.Setenv("REDIS_URL", cfg.RedisURL)
	initPostgresFunc(ctx)
	initRedisFunc(ctx)

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Run migrations and create repositories
	if db.Pool != nil {
		if err := runMigrationsFunc(ctx, db.Pool); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}
	userRepo := repository.NewUserRepository(db.Pool, tracer)
	reportRepo := repository.NewReportRepository(db.Pool, tracer)
	newsRepo := repository.NewNewsRepository(db.Pool, tracer)
	baseRepo := repository.NewReportBaseRepository(db.Pool, tracer)
	filingRepo := repository.NewFilingRepository(db.Pool, tracer)

	// News pipeline: live NewsAPI search with synthetic fallback
	newsClient := provider.NewNewsAPIClient(cfg.NewsAPIKey, tracer)
	pipeline := newsfeed.NewPipeline(tracer, newsClient)
	newsService := newNewsServiceFunc(tracer, pipeline, newsRepo, baseRepo, newsfeed.Options{
		UseSyntheticData:           cfg.NewsUseMock,
		UseDeterministicTimestamps: cfg.NewsDeterministic,
	})

	// Price engine: headless browser scrape with mock degradation
	sessions := pricer.NewChromeSessionFactory(time.Duration(cfg.BrowserPageTimeoutSecs) * time.Second)
	engine := pricer.NewEngine(tracer, sessions, time.Duration(cfg.BrowserSelectorTimeoutSecs)*time.Second)
	priceService := newPriceServiceFunc(tracer, engine, cache.Client)

	// Report generation: LLM text plus PDF rendering
	var generator service.ReportGenerator
	if cfg.OpenAIAPIKey != "" {
		generator = report.NewGenerator(tracer, report.NewOpenAIClient(cfg.OpenAIAPIKey), cfg.OpenAIModel)
	}
	reportService := newReportServiceFunc(tracer, reportRepo, generator, report.RenderPDF, newsService, priceService, cache.Client)

	// Start news poller (background goroutine, stopped by ctx cancel)
	poller := newNewsPollerFunc(tracer, newsService, baseRepo, cfg.NewsPollSecs)
	startPollerFunc(poller, ctx)

	// Start Telegram bot
	os.Setenv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	startTelegramBotFunc(priceService, newsService)

	// Create handlers and routes
	h := newHandlerFunc(tracer, userRepo, filingRepo, reportService, newsService, priceService)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("stock-report-engine"))

	h.RegisterRoutes(r, cfg.APIKey)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
