package recall

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/graphrecall/recall"
	"github.com/graphrecall/recall/pkg/config"
	"github.com/graphrecall/recall/pkg/driver"
	"github.com/graphrecall/recall/pkg/embedder"
	recallLogger "github.com/graphrecall/recall/pkg/logger"
	"github.com/graphrecall/recall/pkg/search"
	"github.com/graphrecall/recall/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Recall HTTP server",
	Long: `Start the Recall HTTP server to provide REST API access to hybrid retrieval.

The server provides endpoints for:
- Searching graph edges with rank fusion
- Retrieving memory (facts, entities, episodes) for a query
- Listing recent episodes
- Health checks

Configuration can be provided through config files, environment variables, or command-line flags.`,
	RunE: runServe,
}

var (
	serverHost string
	serverPort int
	serverMode string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "localhost", "Server host")
	serveCmd.Flags().IntVar(&serverPort, "port", 8080, "Server port")
	serveCmd.Flags().StringVar(&serverMode, "mode", "debug", "Server mode (debug, release, test)")

	serveCmd.Flags().String("db-uri", "", "Neo4j bolt URI")
	serveCmd.Flags().String("db-username", "", "Neo4j username")
	serveCmd.Flags().String("db-password", "", "Neo4j password")
	serveCmd.Flags().String("db-database", "", "Neo4j database name")

	serveCmd.Flags().String("embedding-provider", "", "Embedding provider (openai, local)")
	serveCmd.Flags().String("embedding-model", "", "Embedding model")
	serveCmd.Flags().String("embedding-api-key", "", "Embedding API key")
	serveCmd.Flags().String("embedding-base-url", "", "Embedding base URL")

	serveCmd.Flags().String("group-id", "default", "Graph partition searched by this server")
	serveCmd.Flags().Bool("create-indices", false, "Create database indices and constraints on startup")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	overrideConfigWithFlags(cmd, cfg)

	if err := validateServeConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := recallLogger.NewDefaultLogger(parseLogLevel(cfg.Log.Level))

	groupID, _ := cmd.Flags().GetString("group-id")
	client, searchCfg, err := initializeRecall(cfg, groupID, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize recall: %w", err)
	}
	defer client.Close(context.Background())

	if created, _ := cmd.Flags().GetBool("create-indices"); created {
		if err := client.CreateIndices(context.Background()); err != nil {
			return fmt.Errorf("failed to create indices: %w", err)
		}
	}

	srv := server.New(cfg, client, searchCfg)
	srv.Setup()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()
	logger.Info("server listening", "host", cfg.Server.Host, "port", cfg.Server.Port)

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.Info("received signal, shutting down", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		logger.Info("server stopped gracefully")
		return nil
	}
}

func overrideConfigWithFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serverHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serverPort
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode = serverMode
	}

	if cmd.Flags().Changed("db-uri") {
		cfg.Database.URI, _ = cmd.Flags().GetString("db-uri")
	}
	if cmd.Flags().Changed("db-username") {
		cfg.Database.Username, _ = cmd.Flags().GetString("db-username")
	}
	if cmd.Flags().Changed("db-password") {
		cfg.Database.Password, _ = cmd.Flags().GetString("db-password")
	}
	if cmd.Flags().Changed("db-database") {
		cfg.Database.Database, _ = cmd.Flags().GetString("db-database")
	}

	if cmd.Flags().Changed("embedding-provider") {
		cfg.Embedding.Provider, _ = cmd.Flags().GetString("embedding-provider")
	}
	if cmd.Flags().Changed("embedding-model") {
		cfg.Embedding.Model, _ = cmd.Flags().GetString("embedding-model")
	}
	if cmd.Flags().Changed("embedding-api-key") {
		cfg.Embedding.APIKey, _ = cmd.Flags().GetString("embedding-api-key")
	}
	if cmd.Flags().Changed("embedding-base-url") {
		cfg.Embedding.BaseURL, _ = cmd.Flags().GetString("embedding-base-url")
	}
}

func validateServeConfig(cfg *config.Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Server.Port)
	}
	if cfg.Database.URI == "" {
		return fmt.Errorf("database URI is required")
	}
	return nil
}

// initializeRecall builds the graph driver, embedding client, and retrieval
// client from the loaded configuration.
func initializeRecall(cfg *config.Config, groupID string, logger *slog.Logger) (*recall.Client, *search.Config, error) {
	graphDriver, err := driver.NewNeo4jDriver(
		cfg.Database.URI,
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Database,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	if cfg.Embedding.Dimensions > 0 {
		graphDriver.SetVectorDimensions(cfg.Embedding.Dimensions)
	}

	embedderClient, err := buildEmbedder(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	searchCfg, err := buildSearchConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	client, err := recall.New(graphDriver, embedderClient, &recall.Config{
		GroupID:      groupID,
		TimeZone:     time.UTC,
		SearchConfig: searchCfg,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create recall client: %w", err)
	}

	logger.Info("recall initialized",
		"database", cfg.Database.URI,
		"embedding_provider", cfg.Embedding.Provider,
		"embedding_model", cfg.Embedding.Model)

	return client, searchCfg, nil
}

func buildEmbedder(cfg *config.Config, logger *slog.Logger) (embedder.Client, error) {
	embedderConfig := &embedder.Config{
		Model:      cfg.Embedding.Model,
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Dimensions: cfg.Embedding.Dimensions,
	}

	var client embedder.Client
	var err error
	switch cfg.Embedding.Provider {
	case "openai":
		if cfg.Embedding.APIKey == "" {
			return nil, fmt.Errorf("embedding API key is required for the openai provider")
		}
		client, err = embedder.NewOpenAIClient(embedderConfig)
	case "local":
		client, err = embedder.NewLocalClient(embedderConfig)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding client: %w", err)
	}

	if cfg.CircuitBreaker.Enabled {
		settings := embedder.BreakerSettings{
			MaxRequests:      cfg.CircuitBreaker.MaxRequests,
			Interval:         time.Duration(cfg.CircuitBreaker.Interval) * time.Second,
			Timeout:          time.Duration(cfg.CircuitBreaker.Timeout) * time.Second,
			ReadyToTripRatio: cfg.CircuitBreaker.ReadyToTripRatio,
		}
		return embedder.WithCircuitBreaker(client, "embedding", settings, logger), nil
	}
	return client, nil
}

func buildSearchConfig(cfg *config.Config) (*search.Config, error) {
	similarity, err := search.ParseSimilarityStrategy(cfg.Search.SimilarityStrategy)
	if err != nil {
		return nil, err
	}
	text, err := search.ParseTextStrategy(cfg.Search.TextStrategy)
	if err != nil {
		return nil, err
	}
	reranker, err := search.ParseRerankerStrategy(cfg.Search.RerankerStrategy)
	if err != nil {
		return nil, err
	}

	searchCfg := &search.Config{
		Limit:         cfg.Search.Limit,
		EpisodeWindow: cfg.Search.EpisodeWindow,
		Similarity:    similarity,
		Text:          text,
		Reranker:      reranker,
	}
	if err := searchCfg.Validate(); err != nil {
		return nil, err
	}
	return searchCfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
