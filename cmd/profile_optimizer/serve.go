package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/profile-optimizer/internal/config"
	"github.com/jonathan/profile-optimizer/internal/db"
	"github.com/jonathan/profile-optimizer/internal/export"
	"github.com/jonathan/profile-optimizer/internal/optimizer"
	"github.com/jonathan/profile-optimizer/internal/queue"
	"github.com/jonathan/profile-optimizer/internal/reportcache"
	"github.com/jonathan/profile-optimizer/internal/server"
	"github.com/jonathan/profile-optimizer/internal/server/ratelimit"
)

var (
	servePort    int
	serveVerbose bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for analyzing profiles and managing stored reports.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT, default 8080)")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadRuntime(serveVerbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()
	if err := database.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	policy, err := resolvePolicy("", cfg)
	if err != nil {
		return err
	}
	engine, err := optimizer.New(policy, optimizer.WithLogger(log))
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	deps := server.Deps{
		Repo:      database,
		Analyzer:  engine,
		Tokens:    server.NewJWTService(jwtConfig),
		Admins:    server.NewAdminPolicy(cfg.AdminEmails),
		RateLimit: ratelimit.LoadConfig(),
		Logger:    log,
	}

	if cfg.CachePath != "" {
		cache, err := reportcache.Open(cfg.CachePath)
		if err != nil {
			return fmt.Errorf("failed to open report cache: %w", err)
		}
		defer func() { _ = cache.Close() }()
		deps.Cache = cache
	}

	if cfg.Storage.Enabled() {
		exporter, err := export.New(ctx, cfg.Storage, log)
		if err != nil {
			return fmt.Errorf("failed to create exporter: %w", err)
		}
		deps.Exporter = exporter
	} else {
		log.Info("report export disabled: storage not configured")
	}

	if cfg.RabbitMQ.URL != "" {
		producer, err := queue.NewProducer(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
		if err != nil {
			return fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		defer func() { _ = producer.Close() }()
		deps.Queue = producer
	} else {
		log.Info("async analyses disabled: RABBITMQ_URL not set")
	}

	port := cfg.Port
	if servePort != 0 {
		port = servePort
	}

	srv, err := server.New(server.Config{Port: port, CORSOrigin: cfg.CORSOrigin}, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	log.Info("serving profile analyses",
		zap.Int("port", port),
		zap.String("policy", engine.PolicyFingerprint()),
		zap.Bool("cache", deps.Cache != nil),
		zap.Bool("export", deps.Exporter != nil),
		zap.Bool("async", deps.Queue != nil),
	)
	return srv.Start(ctx)
}
