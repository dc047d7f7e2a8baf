package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tagteam/analysis-api/internal/config"
	"github.com/tagteam/analysis-api/internal/handler"
	"github.com/tagteam/analysis-api/internal/metrics"
	"github.com/tagteam/analysis-api/internal/service"

	_ "github.com/tagteam/analysis-api/docs"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Tag Team Image Analysis API
// @version 1.0
// @description Two-stage image analysis: a vision model captions the upload, a reasoning model answers questions about it.
// @BasePath /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := log.Default()
	if cfg.Inference.APIKey == "" {
		logger.Println("WARNING: inference API key is not set, every request will fail with a configuration error")
	}

	// Stage calls are single-attempt, a failed stage aborts the pipeline.
	openaiClient := openai.NewClient(
		option.WithAPIKey(cfg.Inference.APIKey),
		option.WithBaseURL(cfg.Inference.BaseURL),
		option.WithMaxRetries(0),
	)

	pipeline := service.NewPipeline(
		logger,
		service.NewVisionService(logger, openaiClient, cfg.Inference),
		service.NewReasoningService(logger, openaiClient, cfg.Inference),
		cfg.Inference.APIKey != "",
	)

	a := handler.NewAnalyzeHandler(pipeline, cfg.Server.MaxUploadBytes)

	r := chi.NewRouter()
	r.Use([]func(http.Handler) http.Handler{
		middleware.Logger,
		middleware.Recoverer,
		middleware.Throttle(cfg.Server.ThrottleLimit),
		middleware.Timeout(cfg.Server.Timeout),
		metrics.Middleware,
	}...)

	r.Post("/analyze", a.Analyze)
	r.Post("/analyze/stream", a.AnalyzeStream)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Printf("server started :%s\n", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("listen error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Println("server stopped")
}
