// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"hotindex/internal/adapter/storage"
	"hotindex/internal/collector"
	"hotindex/internal/config"
	"hotindex/internal/insight"
	"hotindex/internal/logger"
	"hotindex/internal/pipeline"
	"hotindex/internal/report"
	"hotindex/internal/server"
)

func main() {
	// Load .env if present; real deployments set the environment directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Initialize dependencies
	db, err := initDatabase(ctx, cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	natsConn, err := initNATS(cfg.NATS, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	// Initialize storage adapters
	weightStore := storage.NewWeightStore(db)
	analysisStore := storage.NewAnalysisStore(db)

	// Initialize collectors
	timeout := cfg.Sources.CollectorTimeout
	collectors := collector.Set{
		News:       collector.NewNewsClient(cfg.Sources.News.BaseURL, cfg.Sources.News.ClientID, cfg.Sources.News.ClientSecret, timeout),
		Trend:      collector.NewTrendClient(cfg.Sources.Trend.BaseURL, cfg.Sources.Trend.ClientID, cfg.Sources.Trend.ClientSecret, timeout),
		Video:      collector.NewVideoClient(cfg.Sources.Video.BaseURL, cfg.Sources.Video.APIKey, timeout),
		Microblog:  collector.NewMicroblogClient(cfg.Sources.Microblog.BaseURL, cfg.Sources.Microblog.AccessToken, timeout),
		Photo:      collector.NewPhotoClient(cfg.Sources.Photo.BaseURL, cfg.Sources.Photo.AccessToken, timeout),
		ShortVideo: collector.NewShortVideoClient(cfg.Sources.ShortVideo.BaseURL, cfg.Sources.ShortVideo.AccessToken, timeout),
	}

	// Initialize collaborators
	var insightGen pipeline.InsightGenerator
	if cfg.Insight.APIKey != "" {
		insightGen = insight.NewGenerator(cfg.Insight.APIKey, cfg.Insight.Model, float32(cfg.Insight.Temperature), cfg.Insight.MaxTokens, zapLogger)
	} else {
		zapLogger.Info("No insight API key configured, using static insights")
		insightGen = insight.StaticGenerator{}
	}
	reportRenderer := report.NewRenderer(cfg.Report.OutputDir, zapLogger)

	// Initialize the analysis pipeline
	analysisPipeline := pipeline.New(
		collectors,
		weightStore,
		analysisStore,
		insightGen,
		reportRenderer,
		natsConn,
		pipeline.Config{EventsTopic: cfg.Analysis.EventsTopic},
		zapLogger,
	)

	// Initialize HTTP server
	httpServer := server.NewServer(
		cfg.Server,
		natsConn,
		cfg.Analysis.EventsTopic,
		analysisPipeline,
		analysisStore,
		weightStore,
	)

	// Start HTTP server
	go func() {
		zapLogger.Info("Starting HTTP server",
			zap.String("host", cfg.Server.Host),
			zap.Int("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	zapLogger.Info("Shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Graceful shutdown
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("HTTP server shutdown error", zap.Error(err))
	}

	zapLogger.Info("Shutdown complete")
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Test connection
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection. An empty URL means no event bus; the
// pipeline and websocket stream degrade gracefully.
func initNATS(cfg config.NATSConfig, zapLogger *zap.Logger) (*nats.Conn, error) {
	if cfg.URL == "" {
		zapLogger.Info("No NATS URL configured, analysis events disabled")
		return nil, nil
	}

	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			zapLogger.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			zapLogger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			zapLogger.Info("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
