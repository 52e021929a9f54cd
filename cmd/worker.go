package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/pos-platform/internal/alert"
	alertPostgres "github.com/frahmantamala/pos-platform/internal/alert/postgres"
	"github.com/frahmantamala/pos-platform/internal/auth"
	authPostgres "github.com/frahmantamala/pos-platform/internal/auth/postgres"
	"github.com/frahmantamala/pos-platform/internal/core/database"
	"github.com/frahmantamala/pos-platform/internal/core/events"
	"github.com/frahmantamala/pos-platform/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start and manage background worker pools.`,
}

var eventWorkerCmd = &cobra.Command{
	Use:   "events",
	Short: "Start event bus worker",
	Long:  `Start an event bus with the alert subscribers attached and keep it running until interrupted`,
	Run: func(cmd *cobra.Command, args []string) {
		startEventWorker()
	},
}

var (
	maxWorkers     int
	jobQueueSize   int
	workerPoolSize int
)

func startEventWorker() {
	config, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Configure(config.Observability.Logging.Level, config.Observability.Logging.Format)
	log := logger.LoggerWrapper()

	db, err := database.Open(config.Database.GetDSN(), poolConfig(config.Database), log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}

	busConfig := events.Config{
		MaxWorkers:     getIntFlag(maxWorkers, config.Events.MaxWorkers),
		JobQueueSize:   getIntFlag(jobQueueSize, config.Events.JobQueueSize),
		WorkerPoolSize: getIntFlag(workerPoolSize, config.Events.WorkerPoolSize),
	}
	log.Info("starting event worker",
		"max_workers", busConfig.MaxWorkers,
		"job_queue_size", busConfig.JobQueueSize,
		"worker_pool_size", busConfig.WorkerPoolSize)

	eventBus := events.NewEventBus(log, busConfig)
	scopes := auth.NewScopeResolver(authPostgres.NewRepository(db), log)
	alertService := alert.NewService(alertPostgres.NewAlertRepository(db), scopes, log)
	alert.NewEventHandler(alertService, log).RegisterEventHandlers(eventBus)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	log.Info("event bus is running. Press Ctrl+C to stop.")

	sig := <-sigChan
	log.Info("received signal, shutting down event bus", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shutdownDone := make(chan struct{})
	go func() {
		eventBus.Shutdown()
		close(shutdownDone)
	}()

	select {
	case <-shutdownDone:
		log.Info("event bus shutdown complete")
	case <-ctx.Done():
		log.Warn("shutdown timeout reached, forcing exit")
	}
}

func getIntFlag(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	eventWorkerCmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "Maximum number of workers (overrides config)")
	eventWorkerCmd.Flags().IntVar(&jobQueueSize, "job-queue-size", 0, "Job queue buffer size (overrides config)")
	eventWorkerCmd.Flags().IntVar(&workerPoolSize, "worker-pool-size", 0, "Worker pool channel size (overrides config)")

	workerCmd.AddCommand(eventWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
