package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"youtube-qa-api/internal/api"
	"youtube-qa-api/internal/config"
	"youtube-qa-api/internal/logger"
	"youtube-qa-api/internal/qa"
	"youtube-qa-api/internal/youtube"
)

// serveCmd starts the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	appConfig, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Setup(appConfig.LogLevel, appConfig.LogFormat)

	if !appConfig.HasOpenAIConfig() {
		logger.LogError("OPENAI_API_KEY environment variable not set")
		return errors.New("OPENAI_API_KEY environment variable not set")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	stack, err := buildTranscriptStack(ctx, appConfig)
	if err != nil {
		return err
	}
	defer stack.Close()

	handler := buildHandler(ctx, appConfig, stack)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", appConfig.GetPort()),
		Handler:      api.GzipMiddleware(api.TimeoutMiddleware(appConfig.RequestTimeout)(handler.Routes())),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: appConfig.RequestTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "port", appConfig.GetPort(), "environment", appConfig.Environment())
		slog.Info("Available endpoints",
			"generate", "POST /generate_qa",
			"health", "GET /health",
			"transcript", "GET /test_transcript/{video_id}",
			"proxy", "GET /test_proxy")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		logger.LogError("Server failed to start", "error", err)
		return err
	case <-quit:
	}
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.LogError("Server forced to shutdown", "error", err)
		return err
	}

	slog.Info("Server exited gracefully")
	return nil
}

func buildHandler(ctx context.Context, appConfig *config.AppConfig, stack *transcriptStack) *api.Handler {
	var generator qa.Generator
	if appConfig.HasOpenAIConfig() {
		generator = qa.NewOpenAIGenerator(qa.GeneratorConfig{
			APIKey:    appConfig.OpenAIAPIKey,
			BaseURL:   appConfig.OpenAIBaseURL,
			Model:     appConfig.OpenAIModel,
			MaxTokens: appConfig.OpenAIMaxTokens,
		})
	}

	opts := []api.Option{api.WithProxyPool(stack.pool)}
	if appConfig.HasYouTubeConfig() {
		meta, err := youtube.NewMetadataClient(ctx, appConfig.YouTubeAPIKey)
		if err != nil {
			logger.LogError("YouTube Data API unavailable, titles will be omitted", "error", err)
		} else {
			opts = append(opts, api.WithMetadata(meta))
		}
	} else {
		slog.Warn("YOUTUBE_API_KEY not set - responses will not include video titles")
	}

	return api.NewHandler(appConfig, stack.source, generator, opts...)
}
