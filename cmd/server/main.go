package main

import (
	"context"
	"log"
	"os"
	"syscall"
	"time"

	"github.com/honeycarbs/jobscout/internal/config"
	"github.com/honeycarbs/jobscout/internal/mcp"
	"github.com/honeycarbs/jobscout/pkg/logging"
	"github.com/honeycarbs/jobscout/pkg/shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = logger.Sync() }()

	for _, w := range cfg.Warnings {
		logger.Warn("configuration warning", "detail", w)
	}

	initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	res, cleanup, err := mcp.InitializeResources(initCtx, cfg, logger)
	cancel()
	if err != nil {
		logger.Error("failed to initialize resources", "err", err)
		os.Exit(1)
	}

	srv := mcp.NewServer(logger, cfg, res)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		shutdown.Graceful(
			[]os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP},
			10*time.Second,
			logger,
			srv,
			shutdown.Func(func(context.Context) error {
				cleanup()
				return nil
			}),
		)
	}()

	logger.Info("MCP server initialized and starting", "addr", cfg.Addr())

	if err := srv.Run(); err != nil {
		logger.Error("MCP server exited with error", "err", err)
		cleanup()
		return
	}

	// wait for storage and the archive driver to close
	<-stopped
	logger.Info("MCP server stopped")
}
