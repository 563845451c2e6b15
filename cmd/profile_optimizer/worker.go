package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/profile-optimizer/internal/db"
	"github.com/jonathan/profile-optimizer/internal/optimizer"
	"github.com/jonathan/profile-optimizer/internal/queue"
)

var (
	workerConcurrency int
	workerVerbose     bool
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume analysis requests from RabbitMQ",
	Long:  "Start a pool of workers that analyze stored profiles from the request queue, save the reports and publish status updates.",
	RunE:  runWorker,
}

func init() {
	workerCmd.Flags().IntVar(&workerConcurrency, "concurrency", 0, "Number of concurrent workers (overrides WORKER_CONCURRENCY)")
	workerCmd.Flags().BoolVarP(&workerVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadRuntime(workerVerbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.RabbitMQ.URL == "" {
		return fmt.Errorf("RABBITMQ_URL environment variable is required")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	policy, err := resolvePolicy("", cfg)
	if err != nil {
		return err
	}
	engine, err := optimizer.New(policy, optimizer.WithLogger(log))
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	concurrency := cfg.RabbitMQ.Concurrency
	if workerConcurrency > 0 {
		concurrency = workerConcurrency
	}

	consumer, err := queue.Dial(queue.Options{
		URL:         cfg.RabbitMQ.URL,
		Queue:       cfg.RabbitMQ.Queue,
		Exchange:    cfg.RabbitMQ.Exchange,
		Concurrency: concurrency,
	}, log)
	if err != nil {
		return err
	}
	defer func() { _ = consumer.Close() }()

	publisher, err := consumer.Publisher()
	if err != nil {
		return err
	}
	defer func() { _ = publisher.Close() }()

	handler := queue.NewHandler(database, engine, publisher, cfg.RabbitMQ.MaxRetries+1, log)

	log.Info("worker started",
		zap.String("queue", cfg.RabbitMQ.Queue),
		zap.Int("concurrency", concurrency),
	)
	if err := consumer.Run(ctx, handler); err != nil {
		return fmt.Errorf("worker stopped: %w", err)
	}
	log.Info("worker stopped")
	return nil
}
