package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	root, err := NewCompositionRoot()
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErrs := make(chan error, 2)

	// Pages are passed straight through until the generation is activated
	root.Logger.Info("Starting worker server", zap.String("address", root.Config.ListenAddr))
	go func() {
		if err := root.WorkerServer.Start(root.Config.ListenAddr); err != nil {
			serverErrs <- fmt.Errorf("worker server: %w", err)
		}
	}()

	root.Logger.Info("Starting metrics server", zap.String("address", root.Config.MetricsAddr))
	go func() {
		if err := root.MetricsServer.Start(root.Config.MetricsAddr); err != nil {
			serverErrs <- fmt.Errorf("metrics server: %w", err)
		}
	}()

	exitCode := 0
	if err := root.Manager.Install(ctx); err != nil {
		root.Logger.Error("Install failed, generation abandoned", zap.Error(err))
		exitCode = 1
	} else {
		deleted, err := root.Manager.Activate(ctx)
		if err != nil {
			root.Logger.Warn("Some stale buckets could not be deleted", zap.Error(err))
		}
		root.Logger.Info("Generation active",
			zap.String("version", root.Manager.Version()),
			zap.Strings("deleted_buckets", deleted))

		select {
		case <-ctx.Done():
		case err := <-serverErrs:
			root.Logger.Error("Server failed", zap.Error(err))
			exitCode = 1
		}
	}

	root.Logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := root.WorkerServer.Stop(shutdownCtx); err != nil {
		root.Logger.Error("Worker server forced to shutdown", zap.Error(err))
	}
	if err := root.MetricsServer.Stop(shutdownCtx); err != nil {
		root.Logger.Error("Metrics server forced to shutdown", zap.Error(err))
	}

	if err := root.Cleanup(); err != nil {
		root.Logger.Error("Failed to cleanup resources", zap.Error(err))
	}

	root.Logger.Info("Server exited")
	return exitCode
}
